package services

import (
	"delivery-route-sim/internal/domain"
	"time"
)

type PackageOutcome struct {
	PackageID   string
	TruckID     int
	Deadline    domain.Deadline
	Delivered   bool
	DeliveredAt time.Time
	OnTime      bool
	// CorrectAddress is false when the drop-off location differs from the
	// package's final destination.
	CorrectAddress bool
}

// End-of-day summary of every package and route.
type DayReport struct {
	RunID    string
	Packages []PackageOutcome
	Routes   []domain.RoutePlan
	Mileage  MileageReport
}

func BuildReport(r *Result) DayReport {
	rep := DayReport{RunID: r.RunID, Mileage: r.Mileage()}
	for _, p := range r.Packages {
		out := PackageOutcome{PackageID: p.ID(), TruckID: p.TruckID(), Deadline: p.Deadline()}
		if at, ok := p.DeliveredAt(); ok {
			out.Delivered = true
			out.DeliveredAt = at
			out.OnTime = p.Deadline().Met(at)
			out.CorrectAddress = p.DeliveredTo() == p.Destination()
		}
		rep.Packages = append(rep.Packages, out)
	}
	for _, t := range r.Trucks {
		rep.Routes = append(rep.Routes, t.Route())
	}
	return rep
}

// Late lists packages delivered after their deadline or not at all.
func (d DayReport) Late() []string {
	var ids []string
	for _, p := range d.Packages {
		if !p.Delivered || !p.OnTime {
			ids = append(ids, p.PackageID)
		}
	}
	return ids
}

// Misdelivered lists packages dropped somewhere other than their destination.
func (d DayReport) Misdelivered() []string {
	var ids []string
	for _, p := range d.Packages {
		if p.Delivered && !p.CorrectAddress {
			ids = append(ids, p.PackageID)
		}
	}
	return ids
}
