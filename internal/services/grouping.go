package services

import (
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/platform/logger"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidRecord = errors.New("invalid package record")

// BuildPackages turns staged records into packages with resolved destinations.
// Wrong-address packages and unknown streets get no destination.
func BuildPackages(day time.Time, records []domain.PackageRecord, book *domain.AddressBook, log logger.Logger) ([]*domain.Package, error) {
	if log == nil {
		log = logger.NopLogger{}
	}

	pkgs := make([]*domain.Package, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		id := strings.TrimSpace(rec.PackageID)
		if id == "" {
			return nil, fmt.Errorf("build packages: empty package id: %w", ErrInvalidRecord)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("build packages: duplicate package_id=%s: %w", id, ErrInvalidRecord)
		}
		seen[id] = struct{}{}

		deadline, err := domain.ParseDeadline(day, rec.Deadline)
		if err != nil {
			return nil, fmt.Errorf("build packages: package_id=%s deadline %q: %w", id, rec.Deadline, err)
		}

		var weight float64
		if w := strings.TrimSpace(rec.Weight); w != "" {
			weight, err = strconv.ParseFloat(w, 64)
			if err != nil {
				return nil, fmt.Errorf("build packages: package_id=%s weight %q: %w", id, rec.Weight, ErrInvalidRecord)
			}
		}

		ins := domain.ParseInstructions(day, rec.Instructions)

		dest := domain.NoLocation
		if !ins.WrongAddress {
			dest, err = book.Lookup(rec.Street)
			if err != nil {
				log.Warnf("build packages: package_id=%s street %q: %v", id, rec.Street, err)
				dest = domain.NoLocation
			}
		}

		pkgs = append(pkgs, domain.NewPackage(id, rec.Address(), dest, deadline, weight, ins))
	}

	slices.SortFunc(pkgs, func(a, b *domain.Package) int {
		return domain.ComparePackageIDs(a.ID(), b.ID())
	})
	return pkgs, nil
}

// Frozen address and link groups, built once before loading.
type GroupIndex struct {
	order      []string
	address    map[string][]string
	link       map[string][]string
	byLocation map[domain.LocationID][]string
}

func NewGroupIndex(pkgs []*domain.Package, log logger.Logger) *GroupIndex {
	if log == nil {
		log = logger.NopLogger{}
	}

	g := &GroupIndex{
		order:      make([]string, 0, len(pkgs)),
		address:    make(map[string][]string, len(pkgs)),
		link:       make(map[string][]string, len(pkgs)),
		byLocation: make(map[domain.LocationID][]string),
	}

	known := make(map[string]struct{}, len(pkgs))
	for _, p := range pkgs {
		g.order = append(g.order, p.ID())
		known[p.ID()] = struct{}{}
		if p.HasDestination() {
			g.byLocation[p.Destination()] = append(g.byLocation[p.Destination()], p.ID())
		}
	}
	domain.SortPackageIDs(g.order)

	for _, ids := range g.byLocation {
		domain.SortPackageIDs(ids)
	}
	for _, p := range pkgs {
		if p.HasDestination() {
			g.address[p.ID()] = g.byLocation[p.Destination()]
		} else {
			g.address[p.ID()] = []string{p.ID()}
		}
	}

	uf := newUnionFind(g.order)
	linked := make(map[string]bool)
	for _, p := range pkgs {
		for _, other := range p.Instructions().LinkedIDs {
			if _, ok := known[other]; !ok {
				log.Warnf("group index: package_id=%s links unknown package_id=%s", p.ID(), other)
				continue
			}
			if other == p.ID() {
				continue
			}
			uf.union(p.ID(), other)
			linked[p.ID()], linked[other] = true, true
		}
	}

	components := make(map[string][]string)
	for _, id := range g.order {
		if linked[id] {
			root := uf.find(id)
			components[root] = append(components[root], id)
		}
	}
	for _, members := range components {
		for _, id := range members {
			others := make([]string, 0, len(members)-1)
			for _, m := range members {
				if m != id {
					others = append(others, m)
				}
			}
			g.link[id] = others
		}
	}

	return g
}

// IDs returns every package id in package-id order.
func (g *GroupIndex) IDs() []string { return slices.Clone(g.order) }

// AddressGroup is every package sharing id's destination, id included.
func (g *GroupIndex) AddressGroup(id string) []string { return slices.Clone(g.address[id]) }

// LinkGroup is every package that must travel with id, id excluded.
func (g *GroupIndex) LinkGroup(id string) []string { return slices.Clone(g.link[id]) }

func (g *GroupIndex) HasLinkage(id string) bool { return len(g.link[id]) > 0 }

// PackagesAt lists the packages bound for loc.
func (g *GroupIndex) PackagesAt(loc domain.LocationID) []string {
	return slices.Clone(g.byLocation[loc])
}

// CombinedSize is |link(id) ∪ address(id)|.
func (g *GroupIndex) CombinedSize(id string) int {
	set := make(map[string]struct{}, len(g.link[id])+len(g.address[id]))
	for _, m := range g.link[id] {
		set[m] = struct{}{}
	}
	for _, m := range g.address[id] {
		set[m] = struct{}{}
	}
	return len(set)
}

type unionFind struct {
	parent map[string]string
}

func newUnionFind(ids []string) *unionFind {
	uf := &unionFind{parent: make(map[string]string, len(ids))}
	for _, id := range ids {
		uf.parent[id] = id
	}
	return uf
}

func (u *unionFind) find(id string) string {
	for u.parent[id] != id {
		u.parent[id] = u.parent[u.parent[id]]
		id = u.parent[id]
	}
	return id
}

func (u *unionFind) union(a, b string) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	// lower id stays root so components are stable
	if domain.ComparePackageIDs(ra, rb) < 0 {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}
