package services

import (
	"delivery-route-sim/internal/domain"
	"errors"
	"fmt"
	"time"
)

var ErrPackageNotFound = errors.New("package not found")

// Point-in-time view of one package.
type PackageStatus struct {
	PackageID string
	Address   domain.Address
	Deadline  domain.Deadline
	Weight    float64
	State     domain.PackageState
	// TruckID is set once the package is loaded at the queried time.
	TruckID int
	// Waiting means loaded but the truck has not left the hub yet.
	Waiting bool
	// Since is the delivery time, departure time or load time for the state.
	Since time.Time
	At    time.Time
}

func (s PackageStatus) Describe() string {
	switch {
	case s.State == domain.Delivered:
		return fmt.Sprintf("delivered at %s", domain.FormatClock(s.Since))
	case s.State == domain.EnRoute && s.Waiting:
		return fmt.Sprintf("loaded on truck %d, waiting at the hub since %s", s.TruckID, domain.FormatClock(s.Since))
	case s.State == domain.EnRoute:
		return fmt.Sprintf("en route on truck %d since %s", s.TruckID, domain.FormatClock(s.Since))
	default:
		return "at the hub"
	}
}

// LookupPackage reports where package id was at the given time. Before the
// correction takes effect a corrected package shows its listed address.
func (r *Result) LookupPackage(id string, at time.Time) (PackageStatus, error) {
	pkg, ok := r.packages[id]
	if !ok {
		return PackageStatus{}, fmt.Errorf("lookup package_id=%s: %w", id, ErrPackageNotFound)
	}

	st := PackageStatus{
		PackageID: id,
		Address:   pkg.Address(),
		Deadline:  pkg.Deadline(),
		Weight:    pkg.Weight(),
		State:     domain.AtHub,
		At:        at,
	}
	if pkg.Corrected() && r.Correction != nil && at.Before(r.Correction.At) {
		st.Address = pkg.OriginalAddress()
	}

	if deliveredAt, ok := pkg.DeliveredAt(); ok && !deliveredAt.After(at) {
		st.State = domain.Delivered
		st.TruckID = pkg.TruckID()
		st.Since = deliveredAt
		return st, nil
	}

	if pkg.IsLoaded() && !at.Before(pkg.LoadedAt()) {
		st.State = domain.EnRoute
		st.TruckID = pkg.TruckID()
		st.Since = pkg.LoadedAt()
		if truck, ok := r.trucks[pkg.TruckID()]; ok {
			if at.Before(truck.StartTime()) {
				st.Waiting = true
			} else {
				st.Since = truck.StartTime()
			}
		}
	}
	return st, nil
}

// Point-in-time partition of every package.
type FleetStatus struct {
	At        time.Time
	ByTruck   map[int][]string
	Delivered []string
	AtHub     []string
}

func (r *Result) StatusAt(at time.Time) FleetStatus {
	fs := FleetStatus{At: at, ByTruck: make(map[int][]string, len(r.Trucks))}
	for _, t := range r.Trucks {
		fs.ByTruck[t.TruckID] = []string{}
	}

	for _, p := range r.Packages {
		st, _ := r.LookupPackage(p.ID(), at)
		switch st.State {
		case domain.Delivered:
			fs.Delivered = append(fs.Delivered, p.ID())
		case domain.EnRoute:
			fs.ByTruck[st.TruckID] = append(fs.ByTruck[st.TruckID], p.ID())
		default:
			fs.AtHub = append(fs.AtHub, p.ID())
		}
	}
	return fs
}

type TruckMileage struct {
	TruckID int
	Miles   float64
}

type MileageReport struct {
	Trucks []TruckMileage
	Total  float64
}

func (r *Result) Mileage() MileageReport {
	var m MileageReport
	for _, t := range r.Trucks {
		m.Trucks = append(m.Trucks, TruckMileage{TruckID: t.TruckID, Miles: t.Mileage()})
		m.Total += t.Mileage()
	}
	return m
}
