package repositories

import (
	"context"
	"database/sql"
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/ports"
	"errors"
	"fmt"
)

var errEmptyID = errors.New("package id must not be empty")

// Initialize the package record schema. The statement is portable between
// SQLite and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRecordsQuery := `
	CREATE TABLE IF NOT EXISTS package_records (
		package_id TEXT PRIMARY KEY,
		street TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		zip TEXT NOT NULL,
		deadline TEXT NOT NULL,
		weight TEXT NOT NULL,
		instructions TEXT NOT NULL
	);
	`

	if _, err := tx.ExecContext(ctx, createRecordsQuery); err != nil {
		return fmt.Errorf("init schema: create package_records: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Stage parsed package rows into any record store.
func SeedRecords(ctx context.Context, store ports.PackageRecordStore, records []domain.PackageRecord) error {
	for i, rec := range records {
		if rec.PackageID == "" {
			return fmt.Errorf("seed records: row %d: %w", i+1, errEmptyID)
		}
		if err := store.Put(ctx, rec); err != nil {
			return fmt.Errorf("seed records: %w", err)
		}
	}
	return nil
}
