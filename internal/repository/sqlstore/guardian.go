package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/zelar/internal/db"
	"github.com/garnizeh/zelar/pkg/models"
)

func scanGuardian(s db.Scanner) (models.Guardian, error) {
	var g models.Guardian
	var phone, email, relationship, address sql.NullString
	var created timestamp
	if err := s.Scan(&g.ID, &g.Name, &phone, &email, &relationship, &address, &created); err != nil {
		return g, err
	}
	g.Phone = nullString(phone)
	g.Email = nullString(email)
	g.Relationship = nullString(relationship)
	g.Address = nullString(address)
	g.CreatedAt = created.value
	return g, nil
}

func (st *Store) CreateGuardian(ctx context.Context, g *models.Guardian) (int64, error) {
	if g == nil {
		return 0, fmt.Errorf("create guardian: %w", ErrNilEntity)
	}

	return st.m.InsertReturningID(ctx,
		`INSERT INTO responsaveis (nome, telefone, email, parentesco, endereco) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		g.Name, g.Phone, g.Email, g.Relationship, g.Address,
	)
}

func (st *Store) ListGuardians(ctx context.Context) ([]models.Guardian, error) {
	return db.FetchAll(ctx, st.m, scanGuardian,
		`SELECT id, nome, telefone, email, parentesco, endereco, criado_em FROM responsaveis ORDER BY nome`)
}
