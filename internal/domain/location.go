package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Index of a delivery location in the distance matrix.
type LocationID int

const (
	// Hub is the depot every route starts from.
	Hub LocationID = 0
	// NoLocation marks a package whose destination is currently unknown.
	NoLocation LocationID = -1
)

var ErrUnknownAddress = errors.New("unknown address")

// Postal address as listed on a package record.
type Address struct {
	Street string
	City   string
	State  string
	Zip    string
}

// Bidirectional mapping between street addresses and location ids.
// Position in the source list is the location id.
type AddressBook struct {
	streets []string
	ids     map[string]LocationID
}

func NewAddressBook(streets []string) *AddressBook {
	b := &AddressBook{
		streets: make([]string, 0, len(streets)),
		ids:     make(map[string]LocationID, len(streets)),
	}
	for i, s := range streets {
		s = strings.TrimSpace(s)
		b.streets = append(b.streets, s)
		if _, dup := b.ids[normalizeStreet(s)]; !dup {
			b.ids[normalizeStreet(s)] = LocationID(i)
		}
	}
	return b
}

// Resolve a street address to its location id.
func (b *AddressBook) Lookup(street string) (LocationID, error) {
	id, ok := b.ids[normalizeStreet(street)]
	if !ok {
		return NoLocation, fmt.Errorf("address book: %q: %w", street, ErrUnknownAddress)
	}
	return id, nil
}

// Street returns the address for a location id, or "" when out of range.
func (b *AddressBook) Street(id LocationID) string {
	if id < 0 || int(id) >= len(b.streets) {
		return ""
	}
	return b.streets[id]
}

func (b *AddressBook) Len() int { return len(b.streets) }

func normalizeStreet(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
