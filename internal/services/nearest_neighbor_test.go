package services

import (
	"delivery-route-sim/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRouteDeliversSharedStop(t *testing.T) {
	m := mustMatrix(t, [][]float64{
		{0, 2, 5},
		{2, 0, 4},
		{5, 4, 0},
	})
	paths, err := ComputeShortestPaths(m)
	require.NoError(t, err)

	start := clock(8, 0)
	truck := truckAt(1, 2, 10, false, start)
	a := newPkg("1", 1, domain.EndOfDay(), "")
	b := newPkg("2", 1, domain.EndOfDay(), "")
	require.NoError(t, truck.Load(a))
	require.NoError(t, truck.Load(b))

	require.NoError(t, StartRoute(truck, paths))

	assert.InDelta(t, 2.0, truck.Mileage(), 1e-9)
	assert.Empty(t, truck.Destinations())
	assert.Zero(t, truck.CargoLen())
	for _, p := range []*domain.Package{a, b} {
		at, ok := p.DeliveredAt()
		require.True(t, ok)
		assert.Equal(t, start.Add(12*time.Minute), at)
		assert.Equal(t, domain.LocationID(1), p.DeliveredTo())
	}

	stops := truck.Stops()
	require.Len(t, stops, 1)
	assert.Equal(t, []string{"1", "2"}, stops[0].PackageIDs)
}

func TestRunRouteTimeSensitiveSegments(t *testing.T) {
	paths := linePaths(t, 4, 1)
	start := clock(8, 0)

	truck := truckAt(2, 4, 60, true, start)
	urgent := newPkg("1", 3, timed(9, 0), "")
	later := newPkg("2", 1, domain.EndOfDay(), "")
	require.NoError(t, truck.Load(urgent))
	require.NoError(t, truck.Load(later))

	require.NoError(t, StartRoute(truck, paths))
	assert.True(t, urgent.IsDelivered())
	assert.False(t, later.IsDelivered())
	assert.Equal(t, domain.LocationID(3), truck.Location())
	assert.Equal(t, []domain.LocationID{1}, truck.Destinations())

	require.NoError(t, RunRoute(truck, paths))
	assert.True(t, later.IsDelivered())
	assert.InDelta(t, 5.0, truck.Mileage(), 1e-9)
	assert.Equal(t, start.Add(5*time.Minute), truck.Clock())

	// the same cargo on a plain truck takes the nearer stop first
	plain := truckAt(1, 4, 60, false, start)
	require.NoError(t, plain.Load(newPkg("3", 3, timed(9, 0), "")))
	require.NoError(t, plain.Load(newPkg("4", 1, domain.EndOfDay(), "")))
	require.NoError(t, StartRoute(plain, paths))
	assert.InDelta(t, 3.0, plain.Mileage(), 1e-9)
}

func TestRunRouteTieGoesToLowestLocation(t *testing.T) {
	paths, err := ComputeShortestPaths(mustMatrix(t, [][]float64{
		{0, 3, 3},
		{3, 0, 1},
		{3, 1, 0},
	}))
	require.NoError(t, err)

	truck := truckAt(1, 2, 18, false, clock(8, 0))
	require.NoError(t, truck.Load(newPkg("1", 2, domain.EndOfDay(), "")))
	require.NoError(t, truck.Load(newPkg("2", 1, domain.EndOfDay(), "")))

	require.NoError(t, StartRoute(truck, paths))

	stops := truck.Stops()
	require.Len(t, stops, 2)
	assert.Equal(t, domain.LocationID(1), stops[0].Location)
	assert.Equal(t, domain.LocationID(2), stops[1].Location)
}

func TestSimulateRouteIsDryRun(t *testing.T) {
	paths := linePaths(t, 4, 1)
	start := clock(8, 0)
	truck := truckAt(2, 4, 60, true, start)
	require.NoError(t, truck.Load(newPkg("1", 3, timed(9, 0), "")))
	require.NoError(t, truck.Load(newPkg("2", 1, domain.EndOfDay(), "")))

	// full set, nearest first: 0->1->3->0
	assert.Equal(t, start.Add(6*time.Minute), SimulateRoute(truck, paths))

	assert.Equal(t, start, truck.Clock())
	assert.Zero(t, truck.Mileage())
	assert.Equal(t, domain.Hub, truck.Location())
	assert.Equal(t, 2, truck.CargoLen())
	assert.Equal(t, []domain.LocationID{1, 3}, truck.Destinations())
	assert.Empty(t, truck.Stops())
}

func TestSimulateRouteEmptyTruckAtHub(t *testing.T) {
	paths := linePaths(t, 3, 1)
	truck := truckAt(1, 4, 18, false, clock(8, 0))
	assert.Equal(t, clock(8, 0), SimulateRoute(truck, paths))
}
