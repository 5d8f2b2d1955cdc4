package repository

import (
	"context"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// CostHistoryRepository historial de cambios de costo unitario de ingredientes (solo inserción).
type CostHistoryRepository interface {
	Create(ctx context.Context, change *entity.IngredientCostChange) error
	// ListByIngredient más reciente primero.
	ListByIngredient(ctx context.Context, ingredientID string) ([]*entity.IngredientCostChange, error)
}
