package dto

import (
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/services"
	"time"
)

type AddressResponse struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type PackageStatusResponse struct {
	PackageID string          `json:"package_id"`
	Address   AddressResponse `json:"address"`
	Deadline  string          `json:"deadline"`
	Weight    float64         `json:"weight"`
	Status    string          `json:"status"`
	TruckID   *int            `json:"truck_id,omitempty"`
	Waiting   bool            `json:"waiting,omitempty"`
	Since     *time.Time      `json:"since,omitempty"`
	Summary   string          `json:"summary"`
	At        time.Time       `json:"at"`
}

type ListPackagesResponse struct {
	At       time.Time               `json:"at"`
	Packages []PackageStatusResponse `json:"packages"`
}

func NewAddressResponse(a domain.Address) AddressResponse {
	return AddressResponse{Street: a.Street, City: a.City, State: a.State, Zip: a.Zip}
}

func NewPackageStatusResponse(st services.PackageStatus) PackageStatusResponse {
	res := PackageStatusResponse{
		PackageID: st.PackageID,
		Address:   NewAddressResponse(st.Address),
		Deadline:  st.Deadline.String(),
		Weight:    st.Weight,
		Status:    st.State.String(),
		Waiting:   st.Waiting,
		Summary:   st.Describe(),
		At:        st.At,
	}
	if st.TruckID != 0 {
		id := st.TruckID
		res.TruckID = &id
	}
	if !st.Since.IsZero() {
		since := st.Since
		res.Since = &since
	}
	return res
}
