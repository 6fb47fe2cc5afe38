package distance

import (
	"context"
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/ports"
	"fmt"
)

// Pair is one undirected leg of a static network.
type Pair struct {
	From, To string
	Miles    float64
}

// StaticNetwork is an in-memory NetworkSource built from address pairs.
// Every pair of addresses must be listed once; the hub is the first address.
type StaticNetwork struct {
	network ports.Network
}

func NewStaticNetwork(addresses []string, pairs []Pair) (*StaticNetwork, error) {
	book := domain.NewAddressBook(addresses)
	n := book.Len()

	rows := make([][]float64, n)
	seen := make([][]bool, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		seen[i] = make([]bool, n)
		seen[i][i] = true
	}

	for _, p := range pairs {
		from, err := book.Lookup(p.From)
		if err != nil {
			return nil, fmt.Errorf("static network: %w", err)
		}
		to, err := book.Lookup(p.To)
		if err != nil {
			return nil, fmt.Errorf("static network: %w", err)
		}
		rows[from][to], rows[to][from] = p.Miles, p.Miles
		seen[from][to], seen[to][from] = true, true
	}

	for i := range seen {
		for j := range seen[i] {
			if !seen[i][j] {
				return nil, fmt.Errorf("static network: missing pair %q -> %q", book.Street(domain.LocationID(i)), book.Street(domain.LocationID(j)))
			}
		}
	}

	m, err := domain.NewDistanceMatrix(rows)
	if err != nil {
		return nil, fmt.Errorf("static network: %w", err)
	}
	return &StaticNetwork{network: ports.Network{Addresses: book, Distances: m}}, nil
}

func (s *StaticNetwork) LoadNetwork(ctx context.Context) (ports.Network, error) {
	if err := ctx.Err(); err != nil {
		return ports.Network{}, err
	}
	return s.network, nil
}
