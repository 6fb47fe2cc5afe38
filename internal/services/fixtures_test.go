package services

import (
	"delivery-route-sim/internal/adapters/distance"
	"delivery-route-sim/internal/domain"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func clock(h, m int) time.Time { return domain.At(testDay, h, m) }

func timed(h, m int) domain.Deadline { return domain.DeadlineAt(clock(h, m)) }

func newPkg(id string, dest domain.LocationID, deadline domain.Deadline, instructions string) *domain.Package {
	return domain.NewPackage(
		id,
		domain.Address{Street: fmt.Sprintf("%d Test Ave", dest)},
		dest,
		deadline,
		1,
		domain.ParseInstructions(testDay, instructions),
	)
}

// linePaths places location i at i*step miles from the hub on a straight road.
func linePaths(t *testing.T, n int, step float64) *ShortestPaths {
	t.Helper()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			d := i - j
			if d < 0 {
				d = -d
			}
			rows[i][j] = float64(d) * step
		}
	}
	m, err := domain.NewDistanceMatrix(rows)
	require.NoError(t, err)
	sp, err := ComputeShortestPaths(m)
	require.NoError(t, err)
	return sp
}

// lineNetwork is linePaths exposed through the NetworkSource port.
func lineNetwork(t *testing.T, streets []string, step float64) *distance.StaticNetwork {
	t.Helper()
	var pairs []distance.Pair
	for i := range streets {
		for j := i + 1; j < len(streets); j++ {
			pairs = append(pairs, distance.Pair{From: streets[i], To: streets[j], Miles: float64(j-i) * step})
		}
	}
	nw, err := distance.NewStaticNetwork(streets, pairs)
	require.NoError(t, err)
	return nw
}

func newLoaderFor(t *testing.T, paths *ShortestPaths, pkgs ...*domain.Package) *Loader {
	t.Helper()
	return NewLoader(pkgs, NewGroupIndex(pkgs, nil), paths, nil)
}

func truckAt(id, capacity int, speed float64, timeSensitive bool, start time.Time) *domain.Truck {
	tr := domain.NewTruck(id, capacity, speed, timeSensitive)
	tr.LoadTime = start
	tr.SetStartTime(start)
	return tr
}
