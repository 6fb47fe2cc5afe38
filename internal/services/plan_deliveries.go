package services

import (
	"context"
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/platform/logger"
	"delivery-route-sim/internal/ports"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCapacityInfeasible = errors.New("packages left unassigned")
	ErrUndelivered        = errors.New("packages not delivered")
	ErrDepartedEarly      = errors.New("truck departed before delayed package arrived")
	ErrInvalidFleet       = errors.New("invalid fleet")
)

// Truck roles for the day.
type Fleet struct {
	Capacity int
	SpeedMPH float64
	// EarlyTruckID does one short round trip from the day start.
	EarlyTruckID int
	// DualRouteTruckID leaves at the day start and runs two segments.
	DualRouteTruckID int
	// LateTruckID leaves when the early truck is back at the hub.
	LateTruckID int
}

func (f Fleet) validate() error {
	if f.EarlyTruckID <= 0 || f.DualRouteTruckID <= 0 || f.LateTruckID <= 0 {
		return fmt.Errorf("truck ids must be positive: %w", ErrInvalidFleet)
	}
	if f.EarlyTruckID == f.DualRouteTruckID || f.EarlyTruckID == f.LateTruckID || f.DualRouteTruckID == f.LateTruckID {
		return fmt.Errorf("truck ids must be distinct: %w", ErrInvalidFleet)
	}
	return nil
}

// A destination fix that becomes known at a fixed time of day.
type Correction struct {
	PackageID string
	At        time.Time
	Address   domain.Address
}

type PlanDeliveriesRequest struct {
	Day        time.Time
	DayStart   time.Time
	Fleet      Fleet
	Proximity  ProximityRule
	Correction *Correction
}

// Everything the day produced; read-only once PlanDeliveries returns.
type Result struct {
	RunID      string
	Day        time.Time
	DayStart   time.Time
	Addresses  *domain.AddressBook
	Paths      *ShortestPaths
	Groups     *GroupIndex
	Trucks     []*domain.Truck
	Packages   []*domain.Package
	Records    map[string]domain.PackageRecord
	Correction *Correction

	packages map[string]*domain.Package
	trucks   map[int]*domain.Truck
}

func (r *Result) Package(id string) (*domain.Package, bool) {
	p, ok := r.packages[id]
	return p, ok
}

func (r *Result) Truck(id int) (*domain.Truck, bool) {
	t, ok := r.trucks[id]
	return t, ok
}

// PlanDeliveries loads every package and drives the fleet through the day:
// constrained loads, proximity loading of the early truck, its round trip,
// saturation and both segments of the dual-route truck, the sweep onto the
// late truck, and the late truck's two segments around the correction.
func PlanDeliveries(
	ctx context.Context,
	req PlanDeliveriesRequest,
	store ports.PackageRecordStore,
	network ports.NetworkSource,
	log logger.Logger,
) (*Result, error) {
	if log == nil {
		log = logger.NopLogger{}
	}
	if err := req.Fleet.validate(); err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	nw, err := network.LoadNetwork(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: load network: %w", err)
	}
	if nw.Addresses.Len() != nw.Distances.Size() {
		return nil, fmt.Errorf("plan deliveries: %d addresses for a %dx%d matrix: %w",
			nw.Addresses.Len(), nw.Distances.Size(), nw.Distances.Size(), domain.ErrMatrixNotSquare)
	}

	paths, err := ComputeShortestPaths(nw.Distances)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	records, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: list records: %w", err)
	}

	pkgs, err := BuildPackages(req.Day, records, nw.Addresses, log)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}
	groups := NewGroupIndex(pkgs, log)

	res := &Result{
		RunID:      uuid.NewString(),
		Day:        req.Day,
		DayStart:   req.DayStart,
		Addresses:  nw.Addresses,
		Paths:      paths,
		Groups:     groups,
		Packages:   pkgs,
		Records:    make(map[string]domain.PackageRecord, len(records)),
		Correction: req.Correction,
		packages:   make(map[string]*domain.Package, len(pkgs)),
		trucks:     make(map[int]*domain.Truck, 3),
	}
	for _, rec := range records {
		res.Records[strings.TrimSpace(rec.PackageID)] = rec
	}
	for _, p := range pkgs {
		res.packages[p.ID()] = p
	}

	f := req.Fleet
	early := domain.NewTruck(f.EarlyTruckID, f.Capacity, f.SpeedMPH, false)
	dual := domain.NewTruck(f.DualRouteTruckID, f.Capacity, f.SpeedMPH, true)
	late := domain.NewTruck(f.LateTruckID, f.Capacity, f.SpeedMPH, true)
	for _, t := range []*domain.Truck{early, dual, late} {
		t.LoadTime = req.DayStart
		res.trucks[t.TruckID] = t
		res.Trucks = append(res.Trucks, t)
	}
	early.SetStartTime(req.DayStart)
	dual.SetStartTime(req.DayStart)
	late.SetStartTime(req.DayStart)
	slices.SortFunc(res.Trucks, func(a, b *domain.Truck) int { return a.TruckID - b.TruckID })

	loader := NewLoader(pkgs, groups, paths, log)

	log.Infof("plan deliveries: run_id=%s packages=%d locations=%d", res.RunID, len(pkgs), paths.Size())

	loader.LoadConstrained(res.trucks, f.LateTruckID)
	loader.LoadByProximity(early, req.Proximity)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	if err := StartRoute(early, paths); err != nil {
		return nil, fmt.Errorf("plan deliveries: truck %d: %w", early.TruckID, err)
	}
	if early.Location() != domain.Hub {
		early.ReturnToHub(paths.Distances())
	}
	late.SetStartTime(early.Clock())
	log.Infof("plan deliveries: truck %d back at hub %s miles=%.1f",
		early.TruckID, domain.FormatClock(early.Clock()), early.Mileage())

	loader.Saturate(dual)
	if err := StartRoute(dual, paths); err != nil {
		return nil, fmt.Errorf("plan deliveries: truck %d: %w", dual.TruckID, err)
	}
	if err := RunRoute(dual, paths); err != nil {
		return nil, fmt.Errorf("plan deliveries: truck %d: %w", dual.TruckID, err)
	}

	loader.SweepRemainder(late)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	if err := StartRoute(late, paths); err != nil {
		return nil, fmt.Errorf("plan deliveries: truck %d: %w", late.TruckID, err)
	}
	if c := req.Correction; c != nil {
		late.WaitUntil(c.At)
		if err := res.applyCorrection(*c); err != nil {
			return nil, fmt.Errorf("plan deliveries: %w", err)
		}
		log.Infof("plan deliveries: package_id=%s redirected to %q at %s",
			c.PackageID, c.Address.Street, domain.FormatClock(c.At))
		if pkg := res.packages[c.PackageID]; pkg.IsLoaded() && pkg.TruckID() != late.TruckID {
			log.Warnf("plan deliveries: package_id=%s corrected on truck %d, which has no route left to run",
				c.PackageID, pkg.TruckID())
		}
	}
	// A corrected package with a deadline turns the next segment urgent-only,
	// so a second pass covers the rest of the cargo.
	for pass := 0; pass < 2 && len(late.Destinations()) > 0; pass++ {
		if err := RunRoute(late, paths); err != nil {
			return nil, fmt.Errorf("plan deliveries: truck %d: %w", late.TruckID, err)
		}
	}

	if unassigned := loader.Unassigned(); len(unassigned) > 0 {
		log.Warnf("plan deliveries: %d packages left at hub: %s", len(unassigned), strings.Join(unassigned, ","))
	}
	log.Infof("plan deliveries: run_id=%s done total_miles=%.1f", res.RunID, res.Mileage().Total)
	return res, nil
}

func (r *Result) applyCorrection(c Correction) error {
	pkg, ok := r.packages[c.PackageID]
	if !ok {
		return fmt.Errorf("correct package_id=%s: %w", c.PackageID, ErrPackageNotFound)
	}
	dest, err := r.Addresses.Lookup(c.Address.Street)
	if err != nil {
		return fmt.Errorf("correct package_id=%s: %w", c.PackageID, err)
	}

	if !pkg.IsLoaded() {
		return pkg.CorrectDestination(dest, c.Address)
	}
	truck, ok := r.trucks[pkg.TruckID()]
	if !ok {
		return fmt.Errorf("correct package_id=%s: truck %d missing", c.PackageID, pkg.TruckID())
	}
	return truck.CorrectDestination(pkg, dest, c.Address)
}

// Verify is the post-run consistency check. Every package must be assigned
// and delivered, and no truck may leave before its delayed cargo arrives.
func (r *Result) Verify() error {
	var unassigned, undelivered, early []string
	for _, p := range r.Packages {
		if !p.IsLoaded() {
			unassigned = append(unassigned, p.ID())
			continue
		}
		if !p.IsDelivered() {
			undelivered = append(undelivered, p.ID())
		}
		arrives := p.Instructions().ArrivesAt
		if truck, ok := r.trucks[p.TruckID()]; ok && !arrives.IsZero() && truck.StartTime().Before(arrives) {
			early = append(early, p.ID())
		}
	}

	var errs []error
	if len(unassigned) > 0 {
		errs = append(errs, fmt.Errorf("verify: %d of %d: %s: %w",
			len(unassigned), len(r.Packages), strings.Join(unassigned, ","), ErrCapacityInfeasible))
	}
	if len(undelivered) > 0 {
		errs = append(errs, fmt.Errorf("verify: %s: %w", strings.Join(undelivered, ","), ErrUndelivered))
	}
	if len(early) > 0 {
		errs = append(errs, fmt.Errorf("verify: %s: %w", strings.Join(early, ","), ErrDepartedEarly))
	}
	return errors.Join(errs...)
}
