package csvsource

import (
	"delivery-route-sim/internal/domain"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const packageColumns = 8

var ErrMalformed = errors.New("malformed csv input")

// ReadAddresses reads the ordered location list. The file holds either a
// single row of addresses or one address per row; only the first line of a
// multi-line cell is kept.
func ReadAddresses(path string) ([]string, error) {
	rows, err := readAll(path)
	if err != nil {
		return nil, fmt.Errorf("read addresses: %w", err)
	}
	return ParseAddresses(rows)
}

func ParseAddresses(rows [][]string) ([]string, error) {
	var cells []string
	switch {
	case len(rows) == 0:
		return nil, fmt.Errorf("parse addresses: no rows: %w", ErrMalformed)
	case len(rows) == 1:
		cells = rows[0]
	default:
		for _, r := range rows {
			if len(r) > 0 {
				cells = append(cells, r[0])
			}
		}
	}

	out := make([]string, 0, len(cells))
	for i, c := range cells {
		line, _, _ := strings.Cut(c, "\n")
		line = strings.TrimSpace(line)
		if line == "" {
			return nil, fmt.Errorf("parse addresses: empty address at position %d: %w", i, ErrMalformed)
		}
		out = append(out, line)
	}
	return out, nil
}

// ReadDistanceMatrix reads a row-major distance table with no header.
// Blank cells are filled from the transposed cell so lower-triangular tables
// are accepted.
func ReadDistanceMatrix(path string) (domain.DistanceMatrix, error) {
	rows, err := readAll(path)
	if err != nil {
		return domain.DistanceMatrix{}, fmt.Errorf("read distance matrix: %w", err)
	}
	return ParseDistanceMatrix(rows)
}

func ParseDistanceMatrix(rows [][]string) (domain.DistanceMatrix, error) {
	n := len(rows)
	values := make([][]float64, n)
	for i, r := range rows {
		if len(r) > n {
			return domain.DistanceMatrix{}, fmt.Errorf("parse distance matrix: row %d has %d columns for %d rows: %w", i, len(r), n, domain.ErrMatrixNotSquare)
		}
		values[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			cell := ""
			if j < len(r) {
				cell = strings.TrimSpace(r[j])
			}
			if cell == "" {
				values[i][j] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return domain.DistanceMatrix{}, fmt.Errorf("parse distance matrix: cell (%d,%d) %q: %w", i, j, cell, ErrMalformed)
			}
			values[i][j] = v
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if !math.IsNaN(values[i][j]) {
				continue
			}
			switch {
			case i == j:
				values[i][j] = 0
			case !math.IsNaN(values[j][i]):
				values[i][j] = values[j][i]
			default:
				return domain.DistanceMatrix{}, fmt.Errorf("parse distance matrix: no distance between %d and %d: %w", i, j, ErrMalformed)
			}
		}
	}

	m, err := domain.NewDistanceMatrix(values)
	if err != nil {
		return domain.DistanceMatrix{}, fmt.Errorf("parse distance matrix: %w", err)
	}
	return m, nil
}

// ReadPackageRecords reads package rows: id, address, city, state, zip,
// deadline, weight, special instructions. A leading header row is skipped.
func ReadPackageRecords(path string) ([]domain.PackageRecord, error) {
	rows, err := readAll(path)
	if err != nil {
		return nil, fmt.Errorf("read package records: %w", err)
	}
	return ParsePackageRecords(rows)
}

func ParsePackageRecords(rows [][]string) ([]domain.PackageRecord, error) {
	if len(rows) > 0 && isHeader(rows[0]) {
		rows = rows[1:]
	}

	out := make([]domain.PackageRecord, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for i, r := range rows {
		if len(r) < packageColumns-1 {
			return nil, fmt.Errorf("parse package records: row %d has %d columns, want %d: %w", i+1, len(r), packageColumns, ErrMalformed)
		}
		cell := func(k int) string {
			if k < len(r) {
				return strings.TrimSpace(r[k])
			}
			return ""
		}

		rec := domain.PackageRecord{
			PackageID:    cell(0),
			Street:       cell(1),
			City:         cell(2),
			State:        cell(3),
			Zip:          cell(4),
			Deadline:     cell(5),
			Weight:       cell(6),
			Instructions: cell(7),
		}
		if rec.PackageID == "" {
			return nil, fmt.Errorf("parse package records: row %d: empty package id: %w", i+1, ErrMalformed)
		}
		if _, dup := seen[rec.PackageID]; dup {
			return nil, fmt.Errorf("parse package records: row %d: duplicate package id %q: %w", i+1, rec.PackageID, ErrMalformed)
		}
		seen[rec.PackageID] = struct{}{}
		out = append(out, rec)
	}
	return out, nil
}

func isHeader(r []string) bool {
	if len(r) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(r[0]))
	return first == "id" || strings.HasPrefix(first, "package")
}

func readAll(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	rows, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}
	return rows, nil
}

func parse(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return rows, nil
}
