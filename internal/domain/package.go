package domain

import (
	"cmp"
	"slices"
	"strconv"
	"time"
)

// Raw package row as staged in a record store, before address resolution.
type PackageRecord struct {
	PackageID    string `json:"package_id"`
	Street       string `json:"street"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	Deadline     string `json:"deadline"`
	Weight       string `json:"weight"`
	Instructions string `json:"instructions"`
}

func (r PackageRecord) Address() Address {
	return Address{Street: r.Street, City: r.City, State: r.State, Zip: r.Zip}
}

// Where a package is at a given moment.
type PackageState int

const (
	AtHub PackageState = iota
	EnRoute
	Delivered
)

func (s PackageState) String() string {
	switch s {
	case EnRoute:
		return "en route"
	case Delivered:
		return "delivered"
	default:
		return "at the hub"
	}
}

// Represents a single delivery unit handled by the system.
// Truck assignment, destination and delivery fields are changed only by Truck
// methods, which keeps cargo membership and package state consistent.
type Package struct {
	id              string
	address         Address
	originalAddress Address
	destination     LocationID
	deadline        Deadline
	weight          float64
	instructions    Instructions

	truckID     int
	loadedAt    time.Time
	deliveredAt *time.Time
	deliveredTo LocationID
	corrected   bool
}

func NewPackage(id string, addr Address, dest LocationID, deadline Deadline, weight float64, ins Instructions) *Package {
	return &Package{
		id:              id,
		address:         addr,
		originalAddress: addr,
		destination:     dest,
		deadline:        deadline,
		weight:          weight,
		instructions:    ins,
		deliveredTo:     NoLocation,
	}
}

func (p *Package) ID() string                 { return p.id }
func (p *Package) Address() Address           { return p.address }
func (p *Package) OriginalAddress() Address   { return p.originalAddress }
func (p *Package) Destination() LocationID    { return p.destination }
func (p *Package) HasDestination() bool       { return p.destination != NoLocation }
func (p *Package) Deadline() Deadline         { return p.deadline }
func (p *Package) Weight() float64            { return p.weight }
func (p *Package) Instructions() Instructions { return p.instructions }
func (p *Package) TruckID() int               { return p.truckID }
func (p *Package) IsLoaded() bool             { return p.truckID != 0 }
func (p *Package) LoadedAt() time.Time        { return p.loadedAt }
func (p *Package) DeliveredTo() LocationID    { return p.deliveredTo }
func (p *Package) IsDelivered() bool          { return p.deliveredAt != nil }

// Corrected reports whether the destination was replaced after construction.
func (p *Package) Corrected() bool { return p.corrected }

// DeliveredAt returns the delivery time and whether the package was delivered.
func (p *Package) DeliveredAt() (time.Time, bool) {
	if p.deliveredAt == nil {
		return time.Time{}, false
	}
	return *p.deliveredAt, true
}

// Current state, ignoring the simulated clock.
func (p *Package) State() PackageState {
	switch {
	case p.deliveredAt != nil:
		return Delivered
	case p.truckID != 0:
		return EnRoute
	default:
		return AtHub
	}
}

func (p *Package) assign(truckID int, at time.Time) {
	p.truckID = truckID
	p.loadedAt = at
}

func (p *Package) deliver(at time.Time, to LocationID) {
	t := at
	p.deliveredAt = &t
	p.deliveredTo = to
}

func (p *Package) redirect(dest LocationID, addr Address) {
	p.destination = dest
	p.address = addr
	p.corrected = true
}

// ComparePackageIDs orders numeric ids numerically and anything else lexically.
func ComparePackageIDs(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return cmp.Compare(ai, bi)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}

func SortPackageIDs(ids []string) { slices.SortFunc(ids, ComparePackageIDs) }
