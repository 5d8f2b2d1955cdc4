package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateIngredientRequest entrada para crear un ingrediente.
type CreateIngredientRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=255"`
	CostPerUnit *decimal.Decimal `json:"cost_per_unit" validate:"required,gte=0"`
	Unit        string           `json:"unit" validate:"required,min=1,max=50"`
}

// UpdateIngredientRequest actualización parcial; solo un cambio efectivo de cost_per_unit propaga.
type UpdateIngredientRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	CostPerUnit *decimal.Decimal `json:"cost_per_unit" validate:"omitempty,gte=0"`
	Unit        *string          `json:"unit" validate:"omitempty,min=1,max=50"`
}

// IngredientResponse salida de un ingrediente.
type IngredientResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
	Unit        string          `json:"unit"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// UpdateIngredientResponse ingrediente actualizado más los productos recalculados.
type UpdateIngredientResponse struct {
	IngredientResponse
	UpdatedProductIDs []string `json:"updated_product_ids,omitempty"`
	Message           string   `json:"message,omitempty"`
}

// IngredientCostChangeResponse entrada del historial de costos.
type IngredientCostChangeResponse struct {
	ID               string          `json:"id"`
	IngredientID     string          `json:"ingredient_id"`
	CostBefore       decimal.Decimal `json:"cost_before"`
	CostAfter        decimal.Decimal `json:"cost_after"`
	AffectedProducts int             `json:"affected_products"`
	ChangedAt        time.Time       `json:"changed_at"`
}
