package domain

import "time"

// Represents a single stop in a delivery route.
// A RouteStop corresponds to arriving at a location at the simulated time,
// and delivering zero or more packages there (zero for a hub return).
type RouteStop struct {
	Location   LocationID
	ArriveAt   time.Time
	Miles      float64
	PackageIDs []string
}

// Represents the route a truck actually drove during the simulated day.
// It is a read-only snapshot taken from the truck's stop log.
type RoutePlan struct {
	TruckID    int
	DepartAt   time.Time
	FinishAt   time.Time
	Stops      []RouteStop
	TotalMiles float64
}

// Duration between departure and the last recorded arrival.
func (p RoutePlan) Duration() time.Duration {
	if p.FinishAt.IsZero() || p.DepartAt.IsZero() {
		return 0
	}
	return p.FinishAt.Sub(p.DepartAt)
}
