package db

import (
	"context"

	"github.com/garnizeh/zelar/internal/sqlerr"
)

// Scanner is the row interface shared by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// FetchAll runs a read in its own session and materialises every row with scan.
// It returns an empty, non-nil slice when nothing matches.
func FetchAll[T any](ctx context.Context, m *Manager, scan func(Scanner) (T, error), query string, args ...any) ([]T, error) {
	s, err := m.Session(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	rows, err := s.Query(ctx, query, args...)
	if err != nil {
		return nil, m.fail("fetch all", sqlerr.Wrap("fetch all", err))
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, m.fail("scan", sqlerr.Wrap("scan", err))
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, m.fail("fetch all", sqlerr.Wrap("fetch all", err))
	}

	return out, nil
}

// FetchOne runs a read in its own session and scans the first row.
// It returns nil, nil when nothing matches.
func FetchOne[T any](ctx context.Context, m *Manager, scan func(Scanner) (T, error), query string, args ...any) (*T, error) {
	s, err := m.Session(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	rows, err := s.Query(ctx, query, args...)
	if err != nil {
		return nil, m.fail("fetch one", sqlerr.Wrap("fetch one", err))
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, m.fail("fetch one", sqlerr.Wrap("fetch one", err))
		}
		return nil, nil
	}
	v, err := scan(rows)
	if err != nil {
		return nil, m.fail("scan", sqlerr.Wrap("scan", err))
	}
	return &v, nil
}
