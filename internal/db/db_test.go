package db_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/garnizeh/zelar/internal/db"
	"github.com/garnizeh/zelar/internal/sqlerr"
	"github.com/rs/zerolog"
)

func newManager(t *testing.T) *db.Manager {
	t.Helper()
	m := db.New(db.Options{URL: filepath.Join(t.TempDir(), "zelar.db"), MaxOpenConns: 4}, zerolog.New(io.Discard))
	t.Cleanup(func() { m.Close() })
	return m
}

func TestNew_IsLazy(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	if m.Connected() {
		t.Fatalf("New should not connect")
	}
	if m.Dialect() != db.SQLite {
		t.Fatalf("unexpected dialect: %q", m.Dialect())
	}
	if got := m.Stats(); got.OpenConnections != 0 {
		t.Fatalf("expected zero stats before connect, got %+v", got)
	}

	if _, err := m.Execute(ctx, `CREATE TABLE t (id INTEGER PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("first Execute should connect lazily: %v", err)
	}
	if !m.Connected() {
		t.Fatalf("expected Manager to be connected after first use")
	}

	// Connect on a connected Manager is a no-op
	if err := m.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
}

func TestConnect_Failure(t *testing.T) {
	ctx := context.Background()
	bad := filepath.Join(t.TempDir(), "missing", "dir", "zelar.db")
	m := db.New(db.Options{URL: bad, PingTimeout: time.Second}, zerolog.New(io.Discard))
	defer m.Close()

	err := m.Connect(ctx)
	if !errors.Is(err, sqlerr.ErrConnection) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if m.Connected() {
		t.Fatalf("Manager must stay unconnected after a failed connect")
	}

	if _, err := db.Open(ctx, db.Options{URL: bad}, zerolog.New(io.Discard)); !errors.Is(err, sqlerr.ErrConnection) {
		t.Fatalf("Open: expected connection error, got %v", err)
	}
	if err := m.HealthCheck(ctx); !errors.Is(err, sqlerr.ErrConnection) {
		t.Fatalf("HealthCheck: expected connection error, got %v", err)
	}
}

type row struct {
	ID   int64
	Name string
}

func scanRow(s db.Scanner) (row, error) {
	var r row
	err := s.Scan(&r.ID, &r.Name)
	return r, err
}

func TestExecute_Fetch(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	if _, err := m.Execute(ctx, `CREATE TABLE items (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT UNIQUE NOT NULL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	empty, err := db.FetchAll(ctx, m, scanRow, `SELECT id, name FROM items`)
	if err != nil {
		t.Fatalf("FetchAll on empty table: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}

	id, err := m.InsertReturningID(ctx, `INSERT INTO items (name) VALUES ($1) RETURNING id`, "foo")
	if err != nil {
		t.Fatalf("InsertReturningID: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}
	if _, err := m.Execute(ctx, `INSERT INTO items (name) VALUES ($1)`, "bar"); err != nil {
		t.Fatalf("insert bar: %v", err)
	}

	all, err := db.FetchAll(ctx, m, scanRow, `SELECT id, name FROM items ORDER BY name`)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(all) != 2 || all[0].Name != "bar" || all[1].Name != "foo" {
		t.Fatalf("unexpected rows: %+v", all)
	}

	one, err := db.FetchOne(ctx, m, scanRow, `SELECT id, name FROM items WHERE id = $1`, id)
	if err != nil {
		t.Fatalf("FetchOne: %v", err)
	}
	if one == nil || one.Name != "foo" {
		t.Fatalf("unexpected row: %+v", one)
	}

	none, err := db.FetchOne(ctx, m, scanRow, `SELECT id, name FROM items WHERE id = $1`, 9999)
	if err != nil || none != nil {
		t.Fatalf("expected nil, nil for missing row, got %+v, %v", none, err)
	}

	if err := m.ExecuteAffecting(ctx, `UPDATE items SET name = $1 WHERE id = $2`, "baz", 9999); !errors.Is(err, sqlerr.ErrQuery) {
		t.Fatalf("expected query error for unaffected update, got %v", err)
	}

	_, err = m.Execute(ctx, `INSERT INTO items (name) VALUES ($1)`, "foo")
	if !errors.Is(err, sqlerr.ErrConstraintViolation) || !sqlerr.Is(err, sqlerr.UniqueViolation) {
		t.Fatalf("expected unique violation, got %v", err)
	}

	if err := m.HealthCheck(ctx); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestExecute_FailureReleasesConnection(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	_, err := m.Execute(ctx, `INSERT INTO no_such_table (x) VALUES (1)`)
	if !errors.Is(err, sqlerr.ErrQuery) {
		t.Fatalf("expected query error, got %v", err)
	}
	if _, err := db.FetchAll(ctx, m, scanRow, `SELECT nope FROM nowhere`); !errors.Is(err, sqlerr.ErrQuery) {
		t.Fatalf("expected query error from FetchAll, got %v", err)
	}
	if in := m.Stats().InUse; in != 0 {
		t.Fatalf("connections still in use after failures: %d", in)
	}
}

func TestSession_RollsBackUncommitted(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	if _, err := m.Execute(ctx, `CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	s, err := m.Session(ctx)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if err := s.Begin(ctx); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := s.Exec(ctx, `INSERT INTO items (name) VALUES ($1)`, "ghost"); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	rows, err := db.FetchAll(ctx, m, scanRow, `SELECT id, name FROM items`)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("uncommitted insert was persisted: %+v", rows)
	}
}

func TestManager_ConcurrentLazyConnect(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- m.HealthCheck(ctx)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("HealthCheck: %v", err)
		}
	}
}

func TestClose_AllowsReconnect(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	if err := m.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if m.Connected() {
		t.Fatalf("expected Manager to be unconnected after Close")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close on a closed Manager: %v", err)
	}
	if err := m.HealthCheck(ctx); err != nil {
		t.Fatalf("HealthCheck after Close should reconnect: %v", err)
	}
}

func TestPool_KeepsIdleConnections(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	for range 3 {
		if _, err := m.Execute(ctx, `CREATE TABLE IF NOT EXISTS t (id INTEGER PRIMARY KEY)`); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}
	st := m.Stats()
	if st.Idle == 0 {
		t.Fatalf("expected the released connection to stay idle, got %+v", st)
	}
	if st.MaxIdleClosed != 0 {
		t.Fatalf("connections discarded on release: %+v", st)
	}
}

func TestPool_RecyclesConnections(t *testing.T) {
	ctx := context.Background()
	m := db.New(db.Options{
		URL:          filepath.Join(t.TempDir(), "zelar.db"),
		MaxOpenConns: 2,
		MaxIdleConns: 2,
		RecycleAfter: 50 * time.Millisecond,
	}, zerolog.New(io.Discard))
	t.Cleanup(func() { m.Close() })

	if err := m.HealthCheck(ctx); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		time.Sleep(100 * time.Millisecond)
		if err := m.HealthCheck(ctx); err != nil {
			t.Fatalf("HealthCheck: %v", err)
		}
		st := m.Stats()
		if st.MaxLifetimeClosed+st.MaxIdleTimeClosed > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("no connection recycled after RecycleAfter: %+v", st)
		}
	}
}
