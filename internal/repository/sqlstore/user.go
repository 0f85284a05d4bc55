package sqlstore

import (
	"context"
	"fmt"

	"github.com/garnizeh/zelar/internal/db"
	"github.com/garnizeh/zelar/internal/password"
	"github.com/garnizeh/zelar/pkg/models"
)

const userColumns = `id, nome, email, senha_hash, tipo_usuario, ativo, criado_em, atualizado_em`

func scanUser(s db.Scanner) (models.User, error) {
	var u models.User
	var role string
	var created, updated timestamp
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Active, &created, &updated); err != nil {
		return u, err
	}
	u.Role = models.Role(role)
	u.CreatedAt = created.value
	u.UpdatedAt = updated.value
	return u, nil
}

// CreateUser hashes the password and inserts the account.
func (st *Store) CreateUser(ctx context.Context, u models.NewUser) (int64, error) {
	hash, err := password.Hash(u.Password)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	return st.m.InsertReturningID(ctx,
		`INSERT INTO usuarios (nome, email, senha_hash, tipo_usuario) VALUES ($1, $2, $3, $4) RETURNING id`,
		u.Name, u.Email, hash, string(u.Role),
	)
}

// GetByEmail returns the active user with the given email, hash included.
func (st *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.FetchOne(ctx, st.m, scanUser,
		`SELECT `+userColumns+` FROM usuarios WHERE email = $1 AND ativo = TRUE`, email)
}

// ListUsers returns active users, newest first.
func (st *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	return db.FetchAll(ctx, st.m, scanUser,
		`SELECT `+userColumns+` FROM usuarios WHERE ativo = TRUE ORDER BY criado_em DESC, id DESC`)
}

// UpdateUser rewrites name, email and role. When newPassword is set it is
// hashed and replaces the stored hash; u.PasswordHash is never written.
func (st *Store) UpdateUser(ctx context.Context, u *models.User, newPassword string) error {
	if u == nil {
		return fmt.Errorf("update user: %w", ErrNilEntity)
	}

	var hash string
	if newPassword != "" {
		h, err := password.Hash(newPassword)
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		hash = h
	}

	return st.m.ExecuteAffecting(ctx,
		`UPDATE usuarios SET nome = $1, email = $2, tipo_usuario = $3,
			senha_hash = COALESCE(NULLIF($4, ''), senha_hash),
			atualizado_em = CURRENT_TIMESTAMP
		WHERE id = $5`,
		u.Name, u.Email, string(u.Role), hash, u.ID,
	)
}

func (st *Store) SetUserActive(ctx context.Context, id int64, active bool) error {
	return st.m.ExecuteAffecting(ctx,
		`UPDATE usuarios SET ativo = $1, atualizado_em = CURRENT_TIMESTAMP WHERE id = $2`, active, id)
}
