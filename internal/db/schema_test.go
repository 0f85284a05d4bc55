package db_test

import (
	"context"
	"testing"
	"testing/fstest"

	dbfs "github.com/garnizeh/zelar/db"
	"github.com/garnizeh/zelar/internal/db"
	"github.com/garnizeh/zelar/internal/password"
)

func TestEnsureSchema_Idempotent(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	if err := db.EnsureSchema(ctx, m, dbfs.Migrations); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := db.EnsureSchema(ctx, m, dbfs.Migrations); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}

	tables, err := db.FetchAll(ctx, m, func(s db.Scanner) (string, error) {
		var name string
		err := s.Scan(&name)
		return name, err
	}, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		t.Fatalf("list tables: %v", err)
	}
	want := []string{"idosos", "itens_pessoais", "responsaveis", "usuarios"}
	if len(tables) != len(want) {
		t.Fatalf("unexpected tables: %v", tables)
	}
	for i := range want {
		if tables[i] != want[i] {
			t.Fatalf("unexpected tables: got %v want %v", tables, want)
		}
	}

	admins, err := db.FetchAll(ctx, m, func(s db.Scanner) (string, error) {
		var hash string
		err := s.Scan(&hash)
		return hash, err
	}, `SELECT senha_hash FROM usuarios WHERE email = $1 AND tipo_usuario = 'administrador'`, db.DefaultAdminEmail)
	if err != nil {
		t.Fatalf("look up admin: %v", err)
	}
	if len(admins) != 1 {
		t.Fatalf("expected exactly one default admin, got %d", len(admins))
	}
	if admins[0] == db.DefaultAdminPassword || !password.Verify(admins[0], db.DefaultAdminPassword) {
		t.Fatalf("default admin password is not stored as a matching hash")
	}
}

func TestEnsureDefaultAdmin_SkipsWhenAdminExists(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	if err := db.EnsureSchema(ctx, m, dbfs.Migrations); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	// an admin under a different email still counts
	if _, err := m.Execute(ctx, `DELETE FROM usuarios`); err != nil {
		t.Fatalf("clear users: %v", err)
	}
	if _, err := m.Execute(ctx,
		`INSERT INTO usuarios (nome, email, senha_hash, tipo_usuario) VALUES ('Chefe', 'chefe@zelar.com', 'x', 'administrador')`,
	); err != nil {
		t.Fatalf("insert admin: %v", err)
	}

	created, err := db.EnsureDefaultAdmin(ctx, m)
	if err != nil {
		t.Fatalf("EnsureDefaultAdmin: %v", err)
	}
	if created {
		t.Fatalf("default admin must not be created when an administrator exists")
	}
}

func TestEnsureSchema_MissingMigrations(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	if err := db.EnsureSchema(ctx, m, fstest.MapFS{}); err == nil {
		t.Fatalf("expected error for missing migrations dir")
	}
}
