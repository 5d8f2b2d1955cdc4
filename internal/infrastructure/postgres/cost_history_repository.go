package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var _ repository.CostHistoryRepository = (*CostHistoryRepo)(nil)

// CostHistoryRepo historial inmutable de costos de ingredientes.
type CostHistoryRepo struct {
	q Querier
}

func NewCostHistoryRepository(q Querier) *CostHistoryRepo {
	return &CostHistoryRepo{q: q}
}

func (r *CostHistoryRepo) Create(ctx context.Context, c *entity.IngredientCostChange) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ingredient_cost_changes (id, ingredient_id, cost_before, cost_after, affected_products, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.IngredientID, c.CostBefore, c.CostAfter, c.AffectedProducts, c.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cost change: %w", err)
	}
	return nil
}

func (r *CostHistoryRepo) ListByIngredient(ctx context.Context, ingredientID string) ([]*entity.IngredientCostChange, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, ingredient_id, cost_before, cost_after, affected_products, changed_at
		FROM ingredient_cost_changes WHERE ingredient_id = $1
		ORDER BY changed_at DESC, id DESC`, ingredientID)
	if err != nil {
		return nil, fmt.Errorf("list cost changes: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.IngredientCostChange, 0)
	for rows.Next() {
		var c entity.IngredientCostChange
		if err := rows.Scan(&c.ID, &c.IngredientID, &c.CostBefore, &c.CostAfter, &c.AffectedProducts, &c.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan cost change: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
