package services

import (
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/platform/logger"
	"slices"
	"time"
)

// Stopping rule for proximity loading of the early truck.
type ProximityRule struct {
	// MinLoad is the cargo size the truck must reach before it may stop.
	MinLoad int
	// ReturnCutoff is the projected hub return time loading must pass.
	ReturnCutoff time.Time
}

// Assigns packages to trucks before any route runs.
//
// Stages are one pass each and never raise on infeasibility: a group that
// does not fit stays at the hub and shows up in Unassigned.
type Loader struct {
	packages map[string]*domain.Package
	groups   *GroupIndex
	paths    *ShortestPaths
	log      logger.Logger
}

func NewLoader(pkgs []*domain.Package, groups *GroupIndex, paths *ShortestPaths, log logger.Logger) *Loader {
	if log == nil {
		log = logger.NopLogger{}
	}
	byID := make(map[string]*domain.Package, len(pkgs))
	for _, p := range pkgs {
		byID[p.ID()] = p
	}
	return &Loader{packages: byID, groups: groups, paths: paths, log: log}
}

// CanLoadGroup reports whether pkg together with its combined link and
// address group fits in the truck's free slots.
func (l *Loader) CanLoadGroup(pkg *domain.Package, truck *domain.Truck) bool {
	size := 1 + l.groups.CombinedSize(pkg.ID()) - 1
	return size <= truck.FreeSlots()
}

// LoadGroup loads pkg, then each unloaded link member with that member's
// address peers, then pkg's own address peers. Closure stops at two hops.
// It returns how many packages went on the truck.
func (l *Loader) LoadGroup(pkg *domain.Package, truck *domain.Truck) int {
	if !l.load(pkg, truck) {
		return 0
	}
	loaded := 1

	if l.groups.HasLinkage(pkg.ID()) {
		for _, linkedID := range l.groups.LinkGroup(pkg.ID()) {
			member := l.packages[linkedID]
			if member.IsLoaded() || !l.load(member, truck) {
				continue
			}
			loaded++
			for _, peerID := range l.groups.AddressGroup(linkedID) {
				if peerID != linkedID && l.loadIfAtHub(peerID, truck) {
					loaded++
				}
			}
		}
	}

	for _, peerID := range l.groups.AddressGroup(pkg.ID()) {
		if l.loadIfAtHub(peerID, truck) {
			loaded++
		}
	}

	l.log.Debugw("group loaded", map[string]any{
		"package_id": pkg.ID(),
		"truck_id":   truck.TruckID,
		"loaded":     loaded,
		"cargo":      truck.CargoLen(),
	})
	return loaded
}

func (l *Loader) loadIfAtHub(id string, truck *domain.Truck) bool {
	p := l.packages[id]
	if p == nil || p.IsLoaded() {
		return false
	}
	return l.load(p, truck)
}

func (l *Loader) load(pkg *domain.Package, truck *domain.Truck) bool {
	if err := truck.Load(pkg); err != nil {
		l.log.Warnf("loading: skip package_id=%s: %v", pkg.ID(), err)
		return false
	}
	return true
}

// LoadConstrained places packages restricted to a truck on that truck, and
// delayed or mis-addressed packages on the late truck.
func (l *Loader) LoadConstrained(trucks map[int]*domain.Truck, lateTruckID int) {
	for _, id := range l.groups.IDs() {
		pkg := l.packages[id]
		if pkg.IsLoaded() {
			continue
		}

		ins := pkg.Instructions()
		if !ins.Constrained() {
			continue
		}
		target := lateTruckID
		if ins.TruckID > 0 {
			target = ins.TruckID
		}

		truck, ok := trucks[target]
		if !ok {
			l.log.Warnf("loading: package_id=%s wants truck %d which is not in the fleet", id, target)
			continue
		}
		if !l.CanLoadGroup(pkg, truck) {
			l.log.Warnf("loading: package_id=%s group does not fit truck %d (free=%d)", id, target, truck.FreeSlots())
			continue
		}
		l.LoadGroup(pkg, truck)
	}
}

// LoadByProximity fills the early truck destination by destination, nearest
// to the hub first, until the stopping rule is met.
func (l *Loader) LoadByProximity(truck *domain.Truck, rule ProximityRule) {
	hubDist := l.paths.Distances().Row(domain.Hub)

	ranked := make([]domain.LocationID, 0, len(hubDist))
	for i := 1; i < len(hubDist); i++ {
		ranked = append(ranked, domain.LocationID(i))
	}
	// ranked starts ascending, so stable sort breaks ties by location id
	slices.SortStableFunc(ranked, func(a, b domain.LocationID) int {
		switch {
		case hubDist[a] < hubDist[b]:
			return -1
		case hubDist[a] > hubDist[b]:
			return 1
		}
		return 0
	})

	for _, loc := range ranked {
		for _, id := range l.groups.PackagesAt(loc) {
			pkg := l.packages[id]
			if pkg.IsLoaded() {
				continue
			}

			visited := make(map[string]struct{})
			if !l.groupWithinReach(pkg, truck, loc, hubDist, visited) || !l.CanLoadGroup(pkg, truck) {
				l.log.Debugf("loading: truck %d skips location %d at package_id=%s", truck.TruckID, loc, id)
				break
			}

			l.LoadGroup(pkg, truck)

			returnAt := SimulateRoute(truck, l.paths)
			if truck.CargoLen() >= rule.MinLoad && returnAt.After(rule.ReturnCutoff) {
				l.log.Infof("loading: truck %d done by proximity cargo=%d return=%s",
					truck.TruckID, truck.CargoLen(), domain.FormatClock(returnAt))
				return
			}
		}
	}
}

// groupWithinReach walks pkg's link and address groups recursively. Every
// member must be bound for a stop the truck already has, or for a place no
// farther from the hub than loc.
func (l *Loader) groupWithinReach(pkg *domain.Package, truck *domain.Truck, loc domain.LocationID, hubDist []float64, visited map[string]struct{}) bool {
	visited[pkg.ID()] = struct{}{}

	check := func(ids []string) bool {
		for _, id := range ids {
			if _, seen := visited[id]; seen {
				continue
			}
			member := l.packages[id]
			if !memberWithinReach(member, truck, loc, hubDist) {
				return false
			}
			if !l.groupWithinReach(member, truck, loc, hubDist, visited) {
				return false
			}
		}
		return true
	}

	if l.groups.HasLinkage(pkg.ID()) && !check(l.groups.LinkGroup(pkg.ID())) {
		return false
	}
	return check(l.groups.AddressGroup(pkg.ID()))
}

func memberWithinReach(pkg *domain.Package, truck *domain.Truck, loc domain.LocationID, hubDist []float64) bool {
	if !pkg.HasDestination() {
		return false
	}
	dest := pkg.Destination()
	return truck.HasDestination(dest) || hubDist[dest] <= hubDist[loc]
}

// Saturate tops off the dual-route truck: linked groups first, then lone
// timed-deadline packages, then any lone package.
func (l *Loader) Saturate(truck *domain.Truck) {
	passes := []func(id string, pkg *domain.Package) bool{
		func(id string, _ *domain.Package) bool {
			return l.groups.HasLinkage(id)
		},
		func(id string, pkg *domain.Package) bool {
			return l.single(id) && !pkg.Deadline().IsEOD()
		},
		func(id string, _ *domain.Package) bool {
			return l.single(id)
		},
	}

	for _, eligible := range passes {
		for _, id := range l.groups.IDs() {
			pkg := l.packages[id]
			if pkg.IsLoaded() || !eligible(id, pkg) {
				continue
			}
			if l.CanLoadGroup(pkg, truck) {
				l.LoadGroup(pkg, truck)
			}
		}
	}
}

func (l *Loader) single(id string) bool {
	return !l.groups.HasLinkage(id) && len(l.groups.AddressGroup(id)) == 1
}

// SweepRemainder puts everything still at the hub on the last truck, in
// package-id order, stopping at the first group that does not fit.
func (l *Loader) SweepRemainder(truck *domain.Truck) {
	for _, id := range l.groups.IDs() {
		pkg := l.packages[id]
		if pkg.IsLoaded() {
			continue
		}
		if !l.CanLoadGroup(pkg, truck) {
			l.log.Warnf("loading: truck %d cannot take package_id=%s (free=%d), %d packages left at hub",
				truck.TruckID, id, truck.FreeSlots(), len(l.Unassigned()))
			return
		}
		l.LoadGroup(pkg, truck)
	}
}

// Unassigned lists packages on no truck, in package-id order.
func (l *Loader) Unassigned() []string {
	var out []string
	for _, id := range l.groups.IDs() {
		if !l.packages[id].IsLoaded() {
			out = append(out, id)
		}
	}
	return out
}
