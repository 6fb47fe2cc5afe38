package repositories

import (
	"context"
	"database/sql"
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/platform/obs"
	"delivery-route-sim/internal/ports"
	"errors"
	"fmt"
	"strings"
)

// SQL dialects differ only in bind parameter syntax for the queries below.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// SQL-backed implementation of the PackageRecordStore port.
type SQLRecordStore struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLRecordStore(db *sql.DB, dialect Dialect) *SQLRecordStore {
	return &SQLRecordStore{DB: db, Dialect: dialect}
}

// bind rewrites ? placeholders to $n for Postgres.
func (s *SQLRecordStore) bind(q string) string {
	if s.Dialect != Postgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLRecordStore) Put(ctx context.Context, rec domain.PackageRecord) (err error) {
	defer obs.Time(ctx, "records.sql.Put")(&err)

	if s.DB == nil {
		return errors.New("sql record store: DB is nil")
	}
	if rec.PackageID == "" {
		return fmt.Errorf("put package record: %w", errEmptyID)
	}

	query := s.bind(`
	INSERT INTO package_records (
		package_id,
		street,
		city,
		state,
		zip,
		deadline,
		weight,
		instructions
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (package_id) DO UPDATE SET
		street = excluded.street,
		city = excluded.city,
		state = excluded.state,
		zip = excluded.zip,
		deadline = excluded.deadline,
		weight = excluded.weight,
		instructions = excluded.instructions;
	`)

	_, err = s.DB.ExecContext(ctx, query,
		rec.PackageID, rec.Street, rec.City, rec.State, rec.Zip, rec.Deadline, rec.Weight, rec.Instructions)
	if err != nil {
		return fmt.Errorf("put package record %q: %w", rec.PackageID, err)
	}
	return nil
}

func (s *SQLRecordStore) Get(ctx context.Context, packageID string) (domain.PackageRecord, error) {
	if s.DB == nil {
		return domain.PackageRecord{}, errors.New("sql record store: DB is nil")
	}

	query := s.bind(`
	SELECT package_id, street, city, state, zip, deadline, weight, instructions
	FROM package_records
	WHERE package_id = ?;
	`)

	rec, err := scanRecord(s.DB.QueryRowContext(ctx, query, packageID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PackageRecord{}, fmt.Errorf("get package record %q: %w", packageID, ports.ErrRecordNotFound)
	}
	if err != nil {
		return domain.PackageRecord{}, fmt.Errorf("get package record %q: %w", packageID, err)
	}
	return rec, nil
}

// Return all records; ids are text so ordering is applied in Go.
func (s *SQLRecordStore) List(ctx context.Context) (_ []domain.PackageRecord, err error) {
	defer obs.Time(ctx, "records.sql.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql record store: DB is nil")
	}

	query := `
	SELECT package_id, street, city, state, zip, deadline, weight, instructions
	FROM package_records;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list package records: query package_records table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.PackageRecord, 0, 64)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list package records: scan row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list package records: row iteration: %w", err)
	}

	sortRecords(out)
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (domain.PackageRecord, error) {
	var rec domain.PackageRecord
	err := row.Scan(&rec.PackageID, &rec.Street, &rec.City, &rec.State, &rec.Zip, &rec.Deadline, &rec.Weight, &rec.Instructions)
	return rec, err
}
