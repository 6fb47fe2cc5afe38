package repositories

import (
	"context"
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/ports"
	"fmt"
	"slices"
	"sync"
)

// In-process implementation of the PackageRecordStore port.
type MemoryRecordStore struct {
	mu      sync.RWMutex
	records map[string]domain.PackageRecord
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: make(map[string]domain.PackageRecord)}
}

func (s *MemoryRecordStore) Put(ctx context.Context, rec domain.PackageRecord) error {
	if rec.PackageID == "" {
		return fmt.Errorf("put package record: %w", errEmptyID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.PackageID] = rec
	return nil
}

func (s *MemoryRecordStore) Get(ctx context.Context, packageID string) (domain.PackageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[packageID]
	if !ok {
		return domain.PackageRecord{}, fmt.Errorf("get package record %q: %w", packageID, ports.ErrRecordNotFound)
	}
	return rec, nil
}

func (s *MemoryRecordStore) List(ctx context.Context) ([]domain.PackageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.PackageRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sortRecords(out)
	return out, nil
}

func sortRecords(recs []domain.PackageRecord) {
	slices.SortFunc(recs, func(a, b domain.PackageRecord) int {
		return domain.ComparePackageIDs(a.PackageID, b.PackageID)
	})
}
