// Package sqlerr classifies database driver errors into the three kinds callers
// act on: connection failures, constraint violations and every other query error.
//
// Both drivers the service runs on are understood:
//   - Postgres errors (pgconn.PgError) by SQLSTATE class
//   - embedded SQLite errors (sqlite.Error) by primary and extended result code
package sqlerr

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Kind is the coarse error category.
type Kind int

const (
	KindQuery Kind = iota
	KindConnection
	KindConstraint
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindConstraint:
		return "constraint"
	default:
		return "query"
	}
}

// Code refines KindConstraint errors.
type Code string

const (
	Other               Code = ""
	UniqueViolation     Code = "unique_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	CheckViolation      Code = "check_violation"
	NotNullViolation    Code = "not_null_violation"
)

// Sentinels for errors.Is. Any *Error matches the sentinel of its Kind.
var (
	ErrConnection          = errors.New("database connection error")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrQuery               = errors.New("query error")
)

// Error is the typed failure returned by the connection manager.
type Error struct {
	Kind       Kind
	Code       Code
	Op         string
	Table      string
	Constraint string
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.Op != "" {
		b.WriteString(" during ")
		b.WriteString(e.Op)
	}
	if e.Code != Other {
		b.WriteString(" (")
		b.WriteString(string(e.Code))
		if e.Constraint != "" {
			b.WriteString(" on ")
			b.WriteString(e.Constraint)
		}
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrConnection:
		return e.Kind == KindConnection
	case ErrConstraintViolation:
		return e.Kind == KindConstraint
	case ErrQuery:
		return e.Kind == KindQuery
	}
	return false
}

// KindOf reports the Kind of err, defaulting to KindQuery for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindQuery
}

// Connection marks err as a connection failure regardless of its origin.
func Connection(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e.Kind == KindConnection {
		return err
	}
	return &Error{Kind: KindConnection, Op: op, Err: err}
}

// Wrap classifies a driver error. Already-classified errors are returned unchanged.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return ConvertPgError(op, pgerr)
	}

	var serr *sqlite.Error
	if errors.As(err, &serr) {
		return ConvertSQLiteError(op, serr)
	}

	if isConnectionFailure(err) {
		return &Error{Kind: KindConnection, Op: op, Err: err}
	}

	return &Error{Kind: KindQuery, Op: op, Err: err}
}

// ConvertPgError maps a Postgres SQLSTATE onto Kind and Code.
func ConvertPgError(op string, src *pgconn.PgError) *Error {
	out := &Error{
		Kind:       KindQuery,
		Op:         op,
		Table:      src.TableName,
		Constraint: src.ConstraintName,
		Err:        src,
	}

	switch {
	case strings.HasPrefix(src.Code, "23"):
		out.Kind = KindConstraint
		out.Code = MapCode(src.Code)
	case strings.HasPrefix(src.Code, "08"), src.Code == "57P01", src.Code == "57P03":
		// connection exception class, admin shutdown, cannot connect now
		out.Kind = KindConnection
	}

	return out
}

// MapCode maps an integrity-constraint SQLSTATE onto a Code.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23505":
		return UniqueViolation
	case "23503":
		return ForeignKeyViolation
	case "23514":
		return CheckViolation
	case "23502":
		return NotNullViolation
	default:
		return Other
	}
}

// ConvertSQLiteError maps SQLite result codes onto Kind and Code.
func ConvertSQLiteError(op string, src *sqlite.Error) *Error {
	out := &Error{Kind: KindQuery, Op: op, Err: src}

	code := src.Code()
	switch code & 0xff {
	case sqlite3.SQLITE_CONSTRAINT:
		out.Kind = KindConstraint
		out.Code = mapSQLiteConstraint(code, src.Error())
	case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB:
		out.Kind = KindConnection
	}

	return out
}

func mapSQLiteConstraint(code int, msg string) Code {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return UniqueViolation
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ForeignKeyViolation
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return CheckViolation
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return NotNullViolation
	}

	// extended result codes disabled: fall back to the message text
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return UniqueViolation
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ForeignKeyViolation
	case strings.Contains(msg, "CHECK constraint failed"):
		return CheckViolation
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return NotNullViolation
	}
	return Other
}

func isConnectionFailure(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr)
}

// Is reports whether err is a constraint violation with the given code.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindConstraint && e.Code == code
}

// Describe renders a short, user-facing message for err.
func Describe(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "an error occurred while processing your request"
	}

	switch e.Kind {
	case KindConnection:
		return "the database is unavailable"
	case KindConstraint:
		switch e.Code {
		case UniqueViolation:
			return "a record with this identifier already exists"
		case ForeignKeyViolation:
			return "the referenced record does not exist"
		case CheckViolation:
			return "one or more values do not meet required conditions"
		case NotNullViolation:
			return "a required field is missing"
		}
		return "the record violates a storage constraint"
	}
	return fmt.Sprintf("the %s could not be completed", opOrDefault(e.Op))
}

func opOrDefault(op string) string {
	if op == "" {
		return "operation"
	}
	return op
}
