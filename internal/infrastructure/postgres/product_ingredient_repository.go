package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var _ repository.ProductIngredientRepository = (*ProductIngredientRepo)(nil)

// LEFT JOIN: una línea huérfana se devuelve con ingrediente nulo en lugar de desaparecer.
const lineSelect = `
	SELECT pi.id, pi.product_id, pi.ingredient_id, pi.quantity_used, pi.cost_total,
	       i.id, i.name, i.cost_per_unit, i.unit, i.created_at, i.updated_at
	FROM product_ingredients pi
	LEFT JOIN ingredients i ON i.id = pi.ingredient_id`

// ProductIngredientRepo líneas de receta sobre PostgreSQL.
type ProductIngredientRepo struct {
	q Querier
}

// NewProductIngredientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductIngredientRepository(q Querier) *ProductIngredientRepo {
	return &ProductIngredientRepo{q: q}
}

// CreateBatch inserta las líneas en un solo viaje (pgx.Batch).
func (r *ProductIngredientRepo) CreateBatch(ctx context.Context, rows []*entity.ProductIngredient) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(`
			INSERT INTO product_ingredients (id, product_id, ingredient_id, quantity_used, cost_total)
			VALUES ($1, $2, $3, $4, $5)`,
			row.ID, row.ProductID, row.IngredientID, row.QuantityUsed, row.CostTotal,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range rows {
		if _, err := br.Exec(); err != nil {
			return lineInsertError(err)
		}
	}
	return nil
}

func lineInsertError(err error) error {
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return fmt.Errorf("insert product ingredient: %w", err)
}

// ListByProduct líneas del producto ordenadas por nombre de ingrediente.
func (r *ProductIngredientRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.ProductIngredientLine, error) {
	return r.list(ctx, lineSelect+` WHERE pi.product_id = $1 ORDER BY i.name ASC NULLS FIRST, pi.id ASC`, productID)
}

// ListByProducts líneas de varios productos, agrupadas por producto y ordenadas por nombre de ingrediente.
func (r *ProductIngredientRepo) ListByProducts(ctx context.Context, productIDs []string) ([]*entity.ProductIngredientLine, error) {
	if len(productIDs) == 0 {
		return []*entity.ProductIngredientLine{}, nil
	}
	return r.list(ctx, lineSelect+` WHERE pi.product_id = ANY($1) ORDER BY pi.product_id, i.name ASC NULLS FIRST, pi.id ASC`, productIDs)
}

func (r *ProductIngredientRepo) list(ctx context.Context, query string, args ...any) ([]*entity.ProductIngredientLine, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list product ingredients: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.ProductIngredientLine, 0)
	for rows.Next() {
		var (
			line                 entity.ProductIngredientLine
			ingID, ingName, unit *string
			costPerUnit          decimal.NullDecimal
			createdAt, updatedAt *time.Time
		)
		if err := rows.Scan(
			&line.ID, &line.ProductID, &line.IngredientID, &line.QuantityUsed, &line.CostTotal,
			&ingID, &ingName, &costPerUnit, &unit, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product ingredient: %w", err)
		}
		if ingID != nil {
			line.Ingredient = &entity.Ingredient{
				ID:          *ingID,
				Name:        deref(ingName),
				CostPerUnit: costPerUnit.Decimal,
				Unit:        deref(unit),
				CreatedAt:   derefTime(createdAt),
				UpdatedAt:   derefTime(updatedAt),
			}
		}
		list = append(list, &line)
	}
	return list, rows.Err()
}

// UpdateCost actualiza el costo derivado de una línea.
func (r *ProductIngredientRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error {
	if _, err := r.q.Exec(ctx, `UPDATE product_ingredients SET cost_total = $2 WHERE id = $1`, id, cost); err != nil {
		return fmt.Errorf("update product ingredient cost: %w", err)
	}
	return nil
}

// DeleteByProduct elimina todas las líneas del producto.
func (r *ProductIngredientRepo) DeleteByProduct(ctx context.Context, productID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_ingredients WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete product ingredients: %w", err)
	}
	return nil
}

// ListProductIDsByIngredient IDs distintos de productos que usan el ingrediente.
func (r *ProductIngredientRepo) ListProductIDsByIngredient(ctx context.Context, ingredientID string) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT DISTINCT product_id FROM product_ingredients WHERE ingredient_id = $1 ORDER BY product_id`,
		ingredientID,
	)
	if err != nil {
		return nil, fmt.Errorf("list products by ingredient: %w", err)
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
