package services

import (
	"delivery-route-sim/internal/domain"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
)

var ErrStalledRoute = errors.New("route stop delivered nothing")

// Drive a truck's cargo out with a greedy nearest-neighbor walk.
//
// A time-sensitive truck with timed-deadline stops works only those stops on
// this call; the caller runs it again for the remainder. Each step moves to
// the closest remaining stop by shortest distance, ties going to the lowest
// location id, and delivers everything bound there.
func RunRoute(truck *domain.Truck, paths *ShortestPaths) error {
	urgentOnly := truck.HasUrgent()
	active := func() []domain.LocationID {
		if urgentOnly {
			return truck.UrgentDestinations()
		}
		return truck.Destinations()
	}

	distances := paths.Distances()
	for stops := active(); len(stops) > 0; stops = active() {
		next, ok := nearest(truck.Location(), stops, distances)
		if !ok {
			// unreachable with a connected network
			break
		}

		truck.Advance(next, distances)

		delivered := 0
		for _, pkg := range truck.Cargo() {
			if pkg.Destination() != truck.Location() {
				continue
			}
			if err := truck.Deliver(pkg); err != nil {
				return fmt.Errorf("run route: truck %d: %w", truck.TruckID, err)
			}
			delivered++
		}
		if delivered == 0 {
			return fmt.Errorf("run route: truck %d at location %d: %w", truck.TruckID, truck.Location(), ErrStalledRoute)
		}
	}
	return nil
}

// StartRoute rewinds the clock to the start time and runs the first segment.
func StartRoute(truck *domain.Truck, paths *ShortestPaths) error {
	truck.ResetClock()
	return RunRoute(truck, paths)
}

// SimulateRoute is a dry run over every pending stop, ending back at the hub.
// It returns the projected finish time and leaves the truck untouched.
func SimulateRoute(truck *domain.Truck, paths *ShortestPaths) time.Time {
	distances := paths.Distances()
	remaining := truck.Destinations()
	clock := truck.Clock()
	loc := truck.Location()

	for len(remaining) > 0 {
		next, ok := nearest(loc, remaining, distances)
		if !ok {
			break
		}
		clock = clock.Add(domain.TravelTime(distances.At(loc, next), truck.Speed))
		loc = next
		remaining = slices.DeleteFunc(remaining, func(l domain.LocationID) bool { return l == next })
	}

	if loc != domain.Hub {
		clock = clock.Add(domain.TravelTime(distances.At(loc, domain.Hub), truck.Speed))
	}
	return clock
}

// candidates must be ascending so the first minimum is the lowest id.
func nearest(from domain.LocationID, candidates []domain.LocationID, distances domain.DistanceMatrix) (domain.LocationID, bool) {
	best := domain.NoLocation
	bestDist := math.Inf(1)
	for _, c := range candidates {
		if d := distances.At(from, c); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best, best != domain.NoLocation
}
