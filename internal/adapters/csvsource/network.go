package csvsource

import (
	"context"
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/platform/obs"
	"delivery-route-sim/internal/ports"
	"fmt"
)

// CSV-backed implementation of the NetworkSource port.
type NetworkSource struct {
	AddressesPath string
	DistancesPath string
}

func NewNetworkSource(addressesPath, distancesPath string) *NetworkSource {
	return &NetworkSource{AddressesPath: addressesPath, DistancesPath: distancesPath}
}

func (s *NetworkSource) LoadNetwork(ctx context.Context) (_ ports.Network, err error) {
	defer obs.Time(ctx, "network.csv.Load")(&err)

	if err := ctx.Err(); err != nil {
		return ports.Network{}, err
	}

	addresses, err := ReadAddresses(s.AddressesPath)
	if err != nil {
		return ports.Network{}, fmt.Errorf("load network: %w", err)
	}

	distances, err := ReadDistanceMatrix(s.DistancesPath)
	if err != nil {
		return ports.Network{}, fmt.Errorf("load network: %w", err)
	}

	if len(addresses) != distances.Size() {
		return ports.Network{}, fmt.Errorf("load network: %d addresses for a %dx%d matrix: %w",
			len(addresses), distances.Size(), distances.Size(), ErrMalformed)
	}

	return ports.Network{
		Addresses: domain.NewAddressBook(addresses),
		Distances: distances,
	}, nil
}
