package services

import (
	"delivery-route-sim/internal/domain"
	"errors"
	"fmt"
)

var ErrEmptyNetwork = errors.New("distance matrix has no locations")

// All-pairs shortest distances with a next-hop table for path reconstruction.
type ShortestPaths struct {
	distances domain.DistanceMatrix
	next      [][]domain.LocationID
}

// ComputeShortestPaths runs Floyd-Warshall over the direct distances.
// The input is not modified.
func ComputeShortestPaths(direct domain.DistanceMatrix) (*ShortestPaths, error) {
	n := direct.Size()
	if n == 0 {
		return nil, fmt.Errorf("compute shortest paths: %w", ErrEmptyNetwork)
	}

	d := direct.Dense()
	next := make([][]domain.LocationID, n)
	for i := range n {
		next[i] = make([]domain.LocationID, n)
		for j := range n {
			if i == j {
				next[i][j] = domain.NoLocation
				continue
			}
			next[i][j] = domain.LocationID(j)
		}
	}

	for k := range n {
		for i := range n {
			ik := d.At(i, k)
			for j := range n {
				// Strict comparison keeps the direct edge on ties.
				if via := ik + d.At(k, j); via < d.At(i, j) {
					d.Set(i, j, via)
					next[i][j] = next[i][k]
				}
			}
		}
	}

	return &ShortestPaths{distances: domain.FromDense(d), next: next}, nil
}

func (p *ShortestPaths) Distances() domain.DistanceMatrix { return p.distances }

func (p *ShortestPaths) Size() int { return len(p.next) }

func (p *ShortestPaths) Distance(from, to domain.LocationID) float64 {
	return p.distances.At(from, to)
}

// NextHop returns the first location after from on the shortest path to to,
// or NoLocation when from == to.
func (p *ShortestPaths) NextHop(from, to domain.LocationID) domain.LocationID {
	return p.next[from][to]
}

// Path returns every location on the shortest path, both endpoints included.
func (p *ShortestPaths) Path(from, to domain.LocationID) []domain.LocationID {
	path := []domain.LocationID{from}
	for cur := from; cur != to && len(path) <= len(p.next); {
		cur = p.next[cur][to]
		if cur == domain.NoLocation {
			break
		}
		path = append(path, cur)
	}
	return path
}
