package db

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/garnizeh/zelar/internal/password"
)

// Default administrator seeded into an empty installation.
const (
	DefaultAdminName     = "Administrador"
	DefaultAdminEmail    = "admin@zelar.com"
	DefaultAdminPassword = "admin123"
)

// EnsureSchema creates the tables that do not exist yet and seeds the default
// administrator. The DDL is read from migrations/<dialect>/*.sql in fsys and
// applied in file-name order, so referenced tables come first. Running it
// again is a no-op.
func EnsureSchema(ctx context.Context, m *Manager, fsys fs.FS) error {
	dir := path.Join("migrations", string(m.Dialect()))

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, fname := range files {
		b, err := fs.ReadFile(fsys, path.Join(dir, fname))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", fname, err)
		}
		if _, err := m.Execute(ctx, string(b)); err != nil {
			return fmt.Errorf("apply %s: %w", fname, err)
		}
		m.log.Debug().Str("file", fname).Msg("schema statement applied")
	}

	created, err := EnsureDefaultAdmin(ctx, m)
	if err != nil {
		return err
	}
	m.log.Info().Int("tables", len(files)).Bool("admin_created", created).Msg("schema ready")
	return nil
}

// EnsureDefaultAdmin inserts the default administrator unless an account
// with the administrator role already exists. It reports whether a row was created.
func EnsureDefaultAdmin(ctx context.Context, m *Manager) (bool, error) {
	existing, err := FetchOne(ctx, m, func(s Scanner) (int64, error) {
		var id int64
		err := s.Scan(&id)
		return id, err
	}, `SELECT id FROM usuarios WHERE tipo_usuario = 'administrador' LIMIT 1`)
	if err != nil {
		return false, fmt.Errorf("look up administrator: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	hash, err := password.Hash(DefaultAdminPassword)
	if err != nil {
		return false, fmt.Errorf("hash default password: %w", err)
	}

	if _, err := m.Execute(ctx,
		`INSERT INTO usuarios (nome, email, senha_hash, tipo_usuario) VALUES ($1, $2, $3, 'administrador')`,
		DefaultAdminName, DefaultAdminEmail, hash,
	); err != nil {
		return false, fmt.Errorf("create default administrator: %w", err)
	}

	m.log.Info().Str("email", DefaultAdminEmail).Msg("default administrator created")
	return true, nil
}
