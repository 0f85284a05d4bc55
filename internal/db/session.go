package db

import (
	"context"
	"database/sql"
	"errors"
)

// Session is a unit of work bound to one pooled connection.
// It is not safe for concurrent use.
type Session struct {
	conn *sql.Conn
	tx   *sql.Tx
}

// Begin opens a transaction; subsequent statements run inside it.
func (s *Session) Begin(ctx context.Context) error {
	if s.tx != nil {
		return errors.New("db: session already has an open transaction")
	}
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	s.tx = tx
	return nil
}

// Commit commits the open transaction.
func (s *Session) Commit() error {
	if s.tx == nil {
		return errors.New("db: no transaction to commit")
	}
	err := s.tx.Commit()
	s.tx = nil
	return err
}

func (s *Session) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.tx != nil {
		return s.tx.ExecContext(ctx, query, args...)
	}
	return s.conn.ExecContext(ctx, query, args...)
}

func (s *Session) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if s.tx != nil {
		return s.tx.QueryContext(ctx, query, args...)
	}
	return s.conn.QueryContext(ctx, query, args...)
}

func (s *Session) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	if s.tx != nil {
		return s.tx.QueryRowContext(ctx, query, args...)
	}
	return s.conn.QueryRowContext(ctx, query, args...)
}

// Close rolls back an uncommitted transaction and returns the connection
// to the pool. It is safe to call more than once.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
