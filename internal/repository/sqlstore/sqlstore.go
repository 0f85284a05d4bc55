// Package sqlstore implements the repository interfaces on top of db.Manager.
// Every method is one statement run through the manager, so each call gets
// its own session and failures arrive as *sqlerr.Error values.
package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/garnizeh/zelar/internal/db"
	"github.com/garnizeh/zelar/pkg/repository"
)

// Store implements repository interfaces using the connection manager.
type Store struct {
	m *db.Manager
}

// Ensure Store implements the public interfaces.
var _ repository.UserRepo = (*Store)(nil)
var _ repository.GuardianRepo = (*Store)(nil)
var _ repository.ResidentRepo = (*Store)(nil)
var _ repository.ItemRepo = (*Store)(nil)

// ErrNilEntity is returned when a write receives a nil model.
var ErrNilEntity = errors.New("entity is nil")

func New(m *db.Manager) *Store {
	return &Store{m: m}
}

// timestamp scans TIMESTAMP columns from either driver: pgx yields time.Time,
// the embedded driver may hand back the textual CURRENT_TIMESTAMP form.
type timestamp struct {
	value time.Time
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.value = time.Time{}
		return nil
	case time.Time:
		t.value = v
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	}
	return fmt.Errorf("unsupported timestamp type %T", src)
}

func (t *timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			t.value = v
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

func nullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}
