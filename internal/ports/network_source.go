package ports

import (
	"context"
	"delivery-route-sim/internal/domain"
)

// Road network for one service area: the address list and the direct
// travel distances between every pair of its locations.
type Network struct {
	Addresses *domain.AddressBook
	Distances domain.DistanceMatrix
}

// Contract for loading the road network the simulation runs on.
type NetworkSource interface {
	LoadNetwork(ctx context.Context) (Network, error)
}
