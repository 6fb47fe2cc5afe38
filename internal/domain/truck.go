package domain

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
)

const (
	DefaultCapacity = 16
	DefaultSpeedMPH = 18.0
)

var (
	ErrTruckFull     = errors.New("truck is at full capacity")
	ErrAlreadyLoaded = errors.New("package is already loaded")
	ErrNotInCargo    = errors.New("package is not in cargo")
	ErrWrongStop     = errors.New("package destination does not match current location")
	ErrDelivered     = errors.New("package is already delivered")
)

// Delivery truck aggregate: cargo, position, simulated clock and odometer.
//
// Load and Deliver are the only transitions that change package assignment
// and delivery state; Advance is the only place mileage grows.
type Truck struct {
	TruckID  int
	Capacity int
	// Speed in miles per hour.
	Speed float64
	// TimeSensitive trucks route destinations with timed deadlines first.
	TimeSensitive bool
	// LoadTime stamps packages put on this truck.
	LoadTime time.Time

	startTime    time.Time
	location     LocationID
	clock        time.Time
	mileage      float64
	cargo        []*Package
	destinations map[LocationID]struct{}
	urgent       map[LocationID]struct{}
	stops        []RouteStop
}

func NewTruck(id int, capacity int, speed float64, timeSensitive bool) *Truck {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if speed <= 0 {
		speed = DefaultSpeedMPH
	}
	return &Truck{
		TruckID:       id,
		Capacity:      capacity,
		Speed:         speed,
		TimeSensitive: timeSensitive,
		location:      Hub,
		destinations:  make(map[LocationID]struct{}),
		urgent:        make(map[LocationID]struct{}),
	}
}

func (t *Truck) StartTime() time.Time { return t.startTime }

// SetStartTime sets the departure time and moves the clock there.
func (t *Truck) SetStartTime(at time.Time) {
	t.startTime = at
	t.clock = at
}

func (t *Truck) Location() LocationID { return t.location }
func (t *Truck) Clock() time.Time     { return t.clock }
func (t *Truck) Mileage() float64     { return t.mileage }
func (t *Truck) CargoLen() int        { return len(t.cargo) }
func (t *Truck) FreeSlots() int       { return t.Capacity - len(t.cargo) }

// Cargo returns the loaded packages in load order.
func (t *Truck) Cargo() []*Package { return slices.Clone(t.cargo) }

// Destinations returns every pending stop in ascending location order.
func (t *Truck) Destinations() []LocationID { return sortedKeys(t.destinations) }

// UrgentDestinations returns the pending stops holding timed-deadline cargo.
func (t *Truck) UrgentDestinations() []LocationID { return sortedKeys(t.urgent) }

func (t *Truck) HasUrgent() bool { return len(t.urgent) > 0 }

func (t *Truck) HasDestination(loc LocationID) bool {
	_, ok := t.destinations[loc]
	return ok
}

// Load a single package onto the truck.
// Group and eligibility rules belong to the caller; Load only refuses to
// exceed capacity or to load a package twice.
func (t *Truck) Load(pkg *Package) error {
	if pkg.IsLoaded() {
		return fmt.Errorf("load truck %d: package %s on truck %d: %w", t.TruckID, pkg.ID(), pkg.TruckID(), ErrAlreadyLoaded)
	}
	if len(t.cargo) >= t.Capacity {
		return fmt.Errorf("load truck %d: package %s (capacity=%d): %w", t.TruckID, pkg.ID(), t.Capacity, ErrTruckFull)
	}

	pkg.assign(t.TruckID, t.LoadTime)
	t.cargo = append(t.cargo, pkg)
	t.track(pkg)
	return nil
}

func (t *Truck) track(pkg *Package) {
	if !pkg.HasDestination() {
		return
	}
	t.destinations[pkg.Destination()] = struct{}{}
	if t.TimeSensitive && !pkg.Deadline().IsEOD() {
		t.urgent[pkg.Destination()] = struct{}{}
	}
}

// Advance drives to next, adding the leg's distance to the odometer and
// distance/speed hours to the clock.
func (t *Truck) Advance(next LocationID, distances DistanceMatrix) {
	miles := distances.At(t.location, next)
	t.mileage += miles
	t.clock = t.clock.Add(TravelTime(miles, t.Speed))
	t.location = next
	t.stops = append(t.stops, RouteStop{Location: next, ArriveAt: t.clock, Miles: miles})
}

// ReturnToHub drives back to the depot.
func (t *Truck) ReturnToHub(distances DistanceMatrix) {
	t.Advance(Hub, distances)
}

// Deliver hands over a package at the current location.
func (t *Truck) Deliver(pkg *Package) error {
	idx := slices.Index(t.cargo, pkg)
	if idx < 0 {
		return fmt.Errorf("deliver package %s from truck %d: %w", pkg.ID(), t.TruckID, ErrNotInCargo)
	}
	if pkg.Destination() != t.location {
		return fmt.Errorf("deliver package %s from truck %d at %d (destination %d): %w",
			pkg.ID(), t.TruckID, t.location, pkg.Destination(), ErrWrongStop)
	}

	pkg.deliver(t.clock, t.location)
	t.cargo = slices.Delete(t.cargo, idx, idx+1)
	delete(t.destinations, t.location)
	delete(t.urgent, t.location)

	if n := len(t.stops); n > 0 && t.stops[n-1].Location == t.location {
		t.stops[n-1].PackageIDs = append(t.stops[n-1].PackageIDs, pkg.ID())
	}
	return nil
}

// ResetClock puts the clock back to the start time before a route begins.
func (t *Truck) ResetClock() { t.clock = t.startTime }

// WaitUntil holds the truck in place until at; earlier times are ignored.
func (t *Truck) WaitUntil(at time.Time) {
	if t.clock.Before(at) {
		t.clock = at
	}
}

// CorrectDestination replaces the destination of a package in this truck's
// cargo and schedules the new stop.
func (t *Truck) CorrectDestination(pkg *Package, dest LocationID, addr Address) error {
	if !slices.Contains(t.cargo, pkg) {
		return fmt.Errorf("correct package %s on truck %d: %w", pkg.ID(), t.TruckID, ErrNotInCargo)
	}
	prev := pkg.Destination()
	pkg.redirect(dest, addr)
	t.untrack(prev)
	t.track(pkg)
	return nil
}

// untrack drops loc from the destination sets unless other cargo still
// goes there.
func (t *Truck) untrack(loc LocationID) {
	if loc == NoLocation {
		return
	}
	delete(t.destinations, loc)
	delete(t.urgent, loc)
	for _, p := range t.cargo {
		if p.Destination() == loc {
			t.track(p)
		}
	}
}

// CorrectDestination updates a package still at the hub. Loaded packages must
// be corrected through their truck.
func (p *Package) CorrectDestination(dest LocationID, addr Address) error {
	if p.IsDelivered() {
		return fmt.Errorf("correct package %s: %w", p.id, ErrDelivered)
	}
	if p.IsLoaded() {
		return fmt.Errorf("correct package %s: on truck %d: %w", p.id, p.truckID, ErrAlreadyLoaded)
	}
	p.redirect(dest, addr)
	return nil
}

// Stops returns the arrival log.
func (t *Truck) Stops() []RouteStop {
	out := make([]RouteStop, len(t.stops))
	for i, s := range t.stops {
		s.PackageIDs = slices.Clone(s.PackageIDs)
		out[i] = s
	}
	return out
}

// Route summarises the driven route.
func (t *Truck) Route() RoutePlan {
	plan := RoutePlan{
		TruckID:    t.TruckID,
		DepartAt:   t.startTime,
		Stops:      t.Stops(),
		TotalMiles: t.mileage,
	}
	if n := len(t.stops); n > 0 {
		plan.FinishAt = t.stops[n-1].ArriveAt
	}
	return plan
}

// TravelTime converts a distance in miles at speed mph to a duration,
// rounded to the nearest nanosecond.
func TravelTime(miles, speed float64) time.Duration {
	return time.Duration(math.Round(miles / speed * float64(time.Hour)))
}

func sortedKeys(m map[LocationID]struct{}) []LocationID {
	out := make([]LocationID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
