package handlers

import (
	"delivery-route-sim/internal/api/dto"
	"delivery-route-sim/internal/services"
	"errors"
	"net/http"
)

// PackageHandler exposes point-in-time package lookups.
type PackageHandler struct {
	Result *services.Result
}

func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	at, err := queryTime(r, h.Result.Day)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := dto.ListPackagesResponse{
		At:       at,
		Packages: make([]dto.PackageStatusResponse, 0, len(h.Result.Packages)),
	}
	for _, p := range h.Result.Packages {
		st, err := h.Result.LookupPackage(p.ID(), at)
		if err != nil {
			log.Errorf("lookup package_id=%s failed: %v", p.ID(), err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		res.Packages = append(res.Packages, dto.NewPackageStatusResponse(st))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *PackageHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	at, err := queryTime(r, h.Result.Day)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	st, err := h.Result.LookupPackage(r.PathValue("id"), at)
	if errors.Is(err, services.ErrPackageNotFound) {
		writeError(w, r, http.StatusNotFound, "package not found")
		return
	}
	if err != nil {
		log.Errorf("lookup package failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPackageStatusResponse(st))
}
