package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/zelar/internal/db"
	"github.com/garnizeh/zelar/pkg/models"
)

func scanItem(s db.Scanner) (models.Item, error) {
	var it models.Item
	var residentID sql.NullInt64
	var description, category, condition sql.NullString
	var quantity sql.NullInt64
	var created timestamp
	if err := s.Scan(&it.ID, &residentID, &it.Name, &description, &category, &quantity, &condition, &created); err != nil {
		return it, err
	}
	it.ResidentID = residentID.Int64
	it.Description = nullString(description)
	it.Category = nullString(category)
	it.Quantity = int(quantity.Int64)
	it.Condition = nullString(condition)
	it.CreatedAt = created.value
	return it, nil
}

// CreateItem inserts a personal item. A zero Quantity is stored as 1 and an
// empty Condition as "bom".
func (st *Store) CreateItem(ctx context.Context, it *models.Item) (int64, error) {
	if it == nil {
		return 0, fmt.Errorf("create item: %w", ErrNilEntity)
	}

	quantity := it.Quantity
	if quantity == 0 {
		quantity = models.DefaultQuantity
	}
	condition := it.Condition
	if condition == "" {
		condition = models.ConditionGood
	}

	return st.m.InsertReturningID(ctx,
		`INSERT INTO itens_pessoais (idoso_id, nome_item, descricao, categoria, quantidade, estado_conservacao)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		it.ResidentID, it.Name, it.Description, it.Category, quantity, condition,
	)
}

func (st *Store) ListItemsByResident(ctx context.Context, residentID int64) ([]models.Item, error) {
	return db.FetchAll(ctx, st.m, scanItem,
		`SELECT id, idoso_id, nome_item, descricao, categoria, quantidade, estado_conservacao, criado_em
		FROM itens_pessoais
		WHERE idoso_id = $1
		ORDER BY categoria, nome_item`, residentID)
}
