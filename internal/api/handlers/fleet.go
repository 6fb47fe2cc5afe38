package handlers

import (
	"delivery-route-sim/internal/api/dto"
	"delivery-route-sim/internal/services"
	"net/http"
)

// FleetHandler serves whole-fleet views of the simulated day.
type FleetHandler struct {
	Result *services.Result
}

func (h *FleetHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	at, err := queryTime(r, h.Result.Day)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewFleetStatusResponse(h.Result.StatusAt(at)))
}

func (h *FleetHandler) Mileage(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewMileageResponse(h.Result.Mileage()))
}

func (h *FleetHandler) Routes(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	res := dto.ListRoutesResponse{RunID: h.Result.RunID, Routes: make([]dto.RouteResponse, 0, len(h.Result.Trucks))}
	for _, t := range h.Result.Trucks {
		res.Routes = append(res.Routes, dto.NewRouteResponse(t.Route(), h.Result.Addresses))
	}

	writeJSON(w, r, http.StatusOK, res)
}
