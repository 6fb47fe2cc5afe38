package ports

import (
	"context"
	"delivery-route-sim/internal/domain"
	"errors"
)

var ErrRecordNotFound = errors.New("package record not found")

// Port: key-value staging area for raw package rows, keyed by package id.
type PackageRecordStore interface {
	// Insert or replace a record.
	Put(ctx context.Context, rec domain.PackageRecord) error
	// Retrieve one record; ErrRecordNotFound when absent.
	Get(ctx context.Context, packageID string) (domain.PackageRecord, error)
	// Retrieve every record ordered by package id.
	List(ctx context.Context) ([]domain.PackageRecord, error)
}
