// Package db owns the process-wide connection pool.
//
// A Manager is constructed explicitly and injected into the repositories.
// Every logical operation borrows its own Session (one pooled connection),
// runs one statement, commits when it writes, and releases the connection
// before returning. Failures are logged once here and returned as typed
// sqlerr errors; nothing is retried.
package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync"
	"time"

	"github.com/garnizeh/zelar/internal/config"
	"github.com/garnizeh/zelar/internal/sqlerr"
	"github.com/rs/zerolog"
)

// Options configures the pool. Zero values fall back to the defaults below.
type Options struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	RecycleAfter time.Duration
	PingTimeout  time.Duration
}

const (
	defaultMaxOpenConns = 10
	defaultMaxIdleConns = 5
)

// OptionsFromConfig maps the database section of the configuration.
func OptionsFromConfig(cfg config.DatabaseConfig) Options {
	return Options{
		URL:          cfg.URL,
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
		RecycleAfter: cfg.RecycleAfter,
		PingTimeout:  cfg.PingTimeout,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = defaultMaxOpenConns
	}
	if o.MaxIdleConns <= 0 || o.MaxIdleConns > o.MaxOpenConns {
		o.MaxIdleConns = min(defaultMaxIdleConns, o.MaxOpenConns)
	}
	if o.RecycleAfter <= 0 {
		o.RecycleAfter = config.DefaultRecycleAfter
	}
	if o.PingTimeout <= 0 {
		o.PingTimeout = config.DefaultPingTimeout
	}
	return o
}

// Manager is the single handle to the database.
type Manager struct {
	opts       Options
	dialect    Dialect
	driverName string
	dsn        string
	log        zerolog.Logger

	mu   sync.Mutex
	conn *sql.DB
}

// New builds an unconnected Manager; the first Session connects lazily.
func New(opts Options, logger zerolog.Logger) *Manager {
	opts = opts.withDefaults()
	dialect, dsn := ParseDSN(opts.URL)
	return &Manager{
		opts:       opts,
		dialect:    dialect,
		driverName: dialect.DriverName(),
		dsn:        dsn,
		log:        logger.With().Str("component", "db").Str("dialect", string(dialect)).Logger(),
	}
}

// Open builds a Manager and connects it immediately.
func Open(ctx context.Context, opts Options, logger zerolog.Logger) (*Manager, error) {
	m := New(opts, logger)
	if err := m.Connect(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Dialect reports the SQL flavour selected from the connection string.
func (m *Manager) Dialect() Dialect {
	return m.dialect
}

// Connected reports whether the pool has been created.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil
}

// Connect creates the pool and verifies it with a ping. Calling it on a
// connected Manager is a no-op. On failure the Manager stays unconnected.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.connectLocked(ctx)
	return err
}

func (m *Manager) connectLocked(ctx context.Context) (*sql.DB, error) {
	if m.conn != nil {
		return m.conn, nil
	}

	conn, err := sql.Open(m.driverName, m.dsn)
	if err != nil {
		return nil, m.fail("connect", sqlerr.Connection("connect", fmt.Errorf("failed to open db: %w", err)))
	}

	conn.SetMaxOpenConns(m.opts.MaxOpenConns)
	conn.SetMaxIdleConns(m.opts.MaxIdleConns)
	conn.SetConnMaxLifetime(m.opts.RecycleAfter)
	conn.SetConnMaxIdleTime(m.opts.RecycleAfter)

	pingCtx, cancel := context.WithTimeout(ctx, m.opts.PingTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, m.fail("connect", sqlerr.Connection("connect", fmt.Errorf("failed to ping db: %w", err)))
	}

	m.conn = conn
	m.log.Info().
		Str("dsn", Redact(m.dsn)).
		Int("max_open_conns", m.opts.MaxOpenConns).
		Dur("recycle_after", m.opts.RecycleAfter).
		Msg("connected to the database")
	return conn, nil
}

func (m *Manager) pool(ctx context.Context) (*sql.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectLocked(ctx)
}

// Session borrows one pooled connection and checks that it is alive.
// A connection that fails the check is discarded and replaced once.
// The caller must Close the session.
func (m *Manager) Session(ctx context.Context) (*Session, error) {
	pool, err := m.pool(ctx)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for range 2 {
		c, err := pool.Conn(ctx)
		if err != nil {
			return nil, m.fail("session", sqlerr.Connection("session", err))
		}
		if err := c.PingContext(ctx); err != nil {
			lastErr = err
			// hand the dead connection back to the driver for disposal
			_ = c.Raw(func(any) error { return driver.ErrBadConn })
			c.Close()
			continue
		}
		return &Session{conn: c}, nil
	}

	return nil, m.fail("session", sqlerr.Connection("session", fmt.Errorf("liveness check failed: %w", lastErr)))
}

// Execute runs one write statement in its own transaction and commits it.
func (m *Manager) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	s, err := m.Session(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err := s.Begin(ctx); err != nil {
		return nil, m.fail("begin", sqlerr.Wrap("begin", err))
	}
	res, err := s.Exec(ctx, query, args...)
	if err != nil {
		return nil, m.fail("execute", sqlerr.Wrap("execute", err))
	}
	if err := s.Commit(); err != nil {
		return nil, m.fail("commit", sqlerr.Wrap("commit", err))
	}
	return res, nil
}

// InsertReturningID runs an INSERT ... RETURNING id statement and commits it.
func (m *Manager) InsertReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	s, err := m.Session(ctx)
	if err != nil {
		return 0, err
	}
	defer s.Close()

	if err := s.Begin(ctx); err != nil {
		return 0, m.fail("begin", sqlerr.Wrap("begin", err))
	}
	var id int64
	if err := s.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, m.fail("insert", sqlerr.Wrap("insert", err))
	}
	if err := s.Commit(); err != nil {
		return 0, m.fail("commit", sqlerr.Wrap("commit", err))
	}
	return id, nil
}

// ExecuteAffecting is Execute that reports sql.ErrNoRows when no row changed.
func (m *Manager) ExecuteAffecting(ctx context.Context, query string, args ...any) error {
	res, err := m.Execute(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return m.fail("rows affected", sqlerr.Wrap("rows affected", err))
	}
	if n == 0 {
		return sqlerr.Wrap("execute", sql.ErrNoRows)
	}
	return nil
}

// HealthCheck pings the pool, connecting first when needed.
func (m *Manager) HealthCheck(ctx context.Context) error {
	pool, err := m.pool(ctx)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, m.opts.PingTimeout)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		return sqlerr.Connection("health check", err)
	}
	return nil
}

// Stats returns pool statistics; the zero value when unconnected.
func (m *Manager) Stats() sql.DBStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return sql.DBStats{}
	}
	return m.conn.Stats()
}

// Close releases the pool. The Manager can reconnect afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return nil
	}
	m.log.Info().Msg("closing database connection pool")
	err := m.conn.Close()
	m.conn = nil
	return err
}

// fail logs err once at the point of occurrence and returns it.
func (m *Manager) fail(op string, err error) error {
	m.log.Error().Err(err).Str("op", op).Str("kind", sqlerr.KindOf(err).String()).Msg("database operation failed")
	return err
}
