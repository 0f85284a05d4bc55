package db

import (
	"net/url"
	"regexp"
	"strings"

	// pgx database/sql driver, registered as "pgx"
	_ "github.com/jackc/pgx/v5/stdlib"
	// embedded SQLite driver, registered as "sqlite"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL flavour behind a connection string.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DriverName returns the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

var kvPairRegex = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// sqlitePragmas are applied by the driver on every new connection.
// foreign_keys is required for ON DELETE CASCADE; busy_timeout lets
// parallel writers wait instead of failing with SQLITE_BUSY.
var sqlitePragmas = []string{"foreign_keys(1)", "busy_timeout(5000)"}

// ParseDSN detects the dialect of raw and returns the DSN in the form the driver expects.
// Postgres URLs (postgres://, postgresql://) and lib/pq key=value lists select Postgres;
// anything else is a SQLite path, optionally prefixed with sqlite:// or sqlite:.
func ParseDSN(raw string) (Dialect, string) {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return Postgres, s
	}
	if kvPairRegex.MatchString(s) {
		cleaned := strings.Join(strings.Fields(s), " ")
		if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
			cleaned += " sslmode=disable"
		}
		return Postgres, cleaned
	}

	switch {
	case strings.HasPrefix(lower, "sqlite://"):
		s = s[len("sqlite://"):]
	case strings.HasPrefix(lower, "sqlite:"):
		s = s[len("sqlite:"):]
	}
	return SQLite, withSQLitePragmas(s)
}

func withSQLitePragmas(dsn string) string {
	path, query, _ := strings.Cut(dsn, "?")
	values, err := url.ParseQuery(query)
	if err != nil {
		values = url.Values{}
	}

	have := map[string]bool{}
	for _, p := range values["_pragma"] {
		name, _, _ := strings.Cut(p, "(")
		have[strings.ToLower(name)] = true
	}
	for _, p := range sqlitePragmas {
		name, _, _ := strings.Cut(p, "(")
		if !have[name] {
			values.Add("_pragma", p)
		}
	}

	return path + "?" + values.Encode()
}

// Redact masks the password of a DSN for logging.
func Redact(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "***")
			return u.String()
		}
	}
	return passwordPairRegex.ReplaceAllString(dsn, `${1}***`)
}

var passwordPairRegex = regexp.MustCompile(`(?i)(password=)([^\s&]+)`)
