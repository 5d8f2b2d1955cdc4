package repository

import (
	"context"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// IngredientRepository define el puerto de persistencia para Ingredient (DIP).
// Los Get devuelven (nil, nil) cuando el registro no existe.
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *entity.Ingredient) error
	GetByID(ctx context.Context, id string) (*entity.Ingredient, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Ingredient, error)
	// GetByIDs consulta masiva en un solo viaje; omite los IDs inexistentes.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Ingredient, error)
	List(ctx context.Context) ([]*entity.Ingredient, error)
	Update(ctx context.Context, ingredient *entity.Ingredient) error
	Delete(ctx context.Context, id string) error
	// CountUsage número de líneas de receta que referencian el ingrediente.
	CountUsage(ctx context.Context, id string) (int, error)
}
