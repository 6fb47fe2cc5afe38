package dto

import (
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/services"
	"strconv"
	"time"
)

type FleetStatusResponse struct {
	At time.Time `json:"at"`
	// ByTruck is keyed by truck id.
	ByTruck   map[string][]string `json:"by_truck"`
	Delivered []string            `json:"delivered"`
	AtHub     []string            `json:"at_hub"`
}

func NewFleetStatusResponse(fs services.FleetStatus) FleetStatusResponse {
	res := FleetStatusResponse{
		At:        fs.At,
		ByTruck:   make(map[string][]string, len(fs.ByTruck)),
		Delivered: nonNil(fs.Delivered),
		AtHub:     nonNil(fs.AtHub),
	}
	for id, ids := range fs.ByTruck {
		res.ByTruck[strconv.Itoa(id)] = nonNil(ids)
	}
	return res
}

type TruckMileageResponse struct {
	TruckID int     `json:"truck_id"`
	Miles   float64 `json:"miles"`
}

type MileageResponse struct {
	Trucks     []TruckMileageResponse `json:"trucks"`
	TotalMiles float64                `json:"total_miles"`
}

func NewMileageResponse(m services.MileageReport) MileageResponse {
	res := MileageResponse{TotalMiles: m.Total, Trucks: make([]TruckMileageResponse, 0, len(m.Trucks))}
	for _, t := range m.Trucks {
		res.Trucks = append(res.Trucks, TruckMileageResponse{TruckID: t.TruckID, Miles: t.Miles})
	}
	return res
}

type RouteStopResponse struct {
	Location   int       `json:"location"`
	Address    string    `json:"address"`
	ArriveAt   time.Time `json:"arrive_at"`
	Miles      float64   `json:"miles"`
	PackageIDs []string  `json:"package_ids"`
}

type RouteResponse struct {
	TruckID    int                 `json:"truck_id"`
	DepartAt   time.Time           `json:"depart_at"`
	FinishAt   time.Time           `json:"finish_at"`
	TotalMiles float64             `json:"total_miles"`
	Stops      []RouteStopResponse `json:"stops"`
}

type ListRoutesResponse struct {
	RunID  string          `json:"run_id"`
	Routes []RouteResponse `json:"routes"`
}

func NewRouteResponse(p domain.RoutePlan, book *domain.AddressBook) RouteResponse {
	res := RouteResponse{
		TruckID:    p.TruckID,
		DepartAt:   p.DepartAt,
		FinishAt:   p.FinishAt,
		TotalMiles: p.TotalMiles,
		Stops:      make([]RouteStopResponse, 0, len(p.Stops)),
	}
	for _, s := range p.Stops {
		res.Stops = append(res.Stops, RouteStopResponse{
			Location:   int(s.Location),
			Address:    book.Street(s.Location),
			ArriveAt:   s.ArriveAt,
			Miles:      s.Miles,
			PackageIDs: nonNil(s.PackageIDs),
		})
	}
	return res
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
