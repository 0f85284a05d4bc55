package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/zelar/internal/db"
	"github.com/garnizeh/zelar/pkg/models"
)

const residentColumns = `i.id, i.nome_completo, i.idade, i.documento, i.foto_path, i.responsavel_id,
	i.observacoes, i.ativo, i.criado_em, i.atualizado_em, r.nome, r.telefone`

// scanResident reads residentColumns, followed by the guardian email when withEmail is set.
func scanResident(withEmail bool) func(db.Scanner) (models.Resident, error) {
	return func(s db.Scanner) (models.Resident, error) {
		var res models.Resident
		var photo, notes, gName, gPhone, gEmail sql.NullString
		var guardianID sql.NullInt64
		var created, updated timestamp

		dest := []any{
			&res.ID, &res.FullName, &res.Age, &res.Document, &photo, &guardianID,
			&notes, &res.Active, &created, &updated, &gName, &gPhone,
		}
		if withEmail {
			dest = append(dest, &gEmail)
		}
		if err := s.Scan(dest...); err != nil {
			return res, err
		}

		res.PhotoPath = nullString(photo)
		res.Notes = nullString(notes)
		res.GuardianID = nullInt64Ptr(guardianID)
		res.CreatedAt = created.value
		res.UpdatedAt = updated.value
		res.GuardianName = nullStringPtr(gName)
		res.GuardianPhone = nullStringPtr(gPhone)
		res.GuardianEmail = nullStringPtr(gEmail)
		return res, nil
	}
}

func (st *Store) CreateResident(ctx context.Context, r *models.Resident) (int64, error) {
	if r == nil {
		return 0, fmt.Errorf("create resident: %w", ErrNilEntity)
	}

	return st.m.InsertReturningID(ctx,
		`INSERT INTO idosos (nome_completo, idade, documento, foto_path, responsavel_id, observacoes)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		r.FullName, r.Age, r.Document, r.PhotoPath, r.GuardianID, r.Notes,
	)
}

// ListResidents returns active residents with their guardian's name and phone.
func (st *Store) ListResidents(ctx context.Context) ([]models.Resident, error) {
	return db.FetchAll(ctx, st.m, scanResident(false),
		`SELECT `+residentColumns+`
		FROM idosos i
		LEFT JOIN responsaveis r ON i.responsavel_id = r.id
		WHERE i.ativo = TRUE
		ORDER BY i.nome_completo`)
}

// GetResidentByID returns the active resident with id, or nil when there is none.
func (st *Store) GetResidentByID(ctx context.Context, id int64) (*models.Resident, error) {
	return db.FetchOne(ctx, st.m, scanResident(true),
		`SELECT `+residentColumns+`, r.email
		FROM idosos i
		LEFT JOIN responsaveis r ON i.responsavel_id = r.id
		WHERE i.id = $1 AND i.ativo = TRUE`, id)
}

func (st *Store) UpdateResident(ctx context.Context, r *models.Resident) error {
	if r == nil {
		return fmt.Errorf("update resident: %w", ErrNilEntity)
	}

	return st.m.ExecuteAffecting(ctx,
		`UPDATE idosos SET nome_completo = $1, idade = $2, documento = $3, foto_path = $4,
			responsavel_id = $5, observacoes = $6, atualizado_em = CURRENT_TIMESTAMP
		WHERE id = $7`,
		r.FullName, r.Age, r.Document, r.PhotoPath, r.GuardianID, r.Notes, r.ID,
	)
}

func (st *Store) SetResidentActive(ctx context.Context, id int64, active bool) error {
	return st.m.ExecuteAffecting(ctx,
		`UPDATE idosos SET ativo = $1, atualizado_em = CURRENT_TIMESTAMP WHERE id = $2`, active, id)
}
