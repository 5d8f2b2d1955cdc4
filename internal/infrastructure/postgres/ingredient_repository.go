package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var _ repository.IngredientRepository = (*IngredientRepo)(nil)

const ingredientColumns = `id, name, cost_per_unit, unit, created_at, updated_at`

// IngredientRepo implementación del puerto IngredientRepository sobre PostgreSQL (usable con pool o tx).
type IngredientRepo struct {
	q Querier
}

// NewIngredientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIngredientRepository(q Querier) *IngredientRepo {
	return &IngredientRepo{q: q}
}

// Create persiste un nuevo ingrediente.
func (r *IngredientRepo) Create(ctx context.Context, ing *entity.Ingredient) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ingredients (id, name, cost_per_unit, unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		ing.ID, ing.Name, ing.CostPerUnit, ing.Unit, ing.CreatedAt, ing.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert ingredient: %w", err)
	}
	return nil
}

// GetByID obtiene un ingrediente por ID.
func (r *IngredientRepo) GetByID(ctx context.Context, id string) (*entity.Ingredient, error) {
	return r.get(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila: dos cambios de costo concurrentes del mismo ingrediente se serializan.
func (r *IngredientRepo) GetForUpdate(ctx context.Context, id string) (*entity.Ingredient, error) {
	return r.get(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE id = $1 FOR UPDATE`, id)
}

func (r *IngredientRepo) get(ctx context.Context, query, id string) (*entity.Ingredient, error) {
	ing, err := scanIngredient(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return ing, nil
}

// GetByIDs consulta masiva en un solo viaje.
func (r *IngredientRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Ingredient, error) {
	if len(ids) == 0 {
		return []*entity.Ingredient{}, nil
	}
	return r.list(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE id = ANY($1)`, ids)
}

// List ingredientes por nombre.
func (r *IngredientRepo) List(ctx context.Context) ([]*entity.Ingredient, error) {
	return r.list(ctx, `SELECT `+ingredientColumns+` FROM ingredients ORDER BY name ASC, id ASC`)
}

func (r *IngredientRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Ingredient, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Ingredient, 0)
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		list = append(list, ing)
	}
	return list, rows.Err()
}

// Update actualiza nombre, costo unitario y unidad.
func (r *IngredientRepo) Update(ctx context.Context, ing *entity.Ingredient) error {
	_, err := r.q.Exec(ctx,
		`UPDATE ingredients SET name = $2, cost_per_unit = $3, unit = $4, updated_at = $5 WHERE id = $1`,
		ing.ID, ing.Name, ing.CostPerUnit, ing.Unit, ing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update ingredient: %w", err)
	}
	return nil
}

// Delete elimina un ingrediente. Si alguna receta lo referencia la FK lo impide.
func (r *IngredientRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrIngredientInUse
		}
		return fmt.Errorf("delete ingredient: %w", err)
	}
	return nil
}

// CountUsage número de líneas de receta que usan el ingrediente.
func (r *IngredientRepo) CountUsage(ctx context.Context, id string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM product_ingredients WHERE ingredient_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count ingredient usage: %w", err)
	}
	return n, nil
}

func scanIngredient(row pgx.Row) (*entity.Ingredient, error) {
	var ing entity.Ingredient
	if err := row.Scan(&ing.ID, &ing.Name, &ing.CostPerUnit, &ing.Unit, &ing.CreatedAt, &ing.UpdatedAt); err != nil {
		return nil, err
	}
	return &ing, nil
}
