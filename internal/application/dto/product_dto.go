package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductIngredientInput línea de receta en la entrada.
type ProductIngredientInput struct {
	IngredientID string           `json:"ingredient_id" validate:"required"`
	QuantityUsed *decimal.Decimal `json:"quantity_used" validate:"required,gt=0"`
}

// CreateProductRequest entrada para crear un producto; las líneas son opcionales.
type CreateProductRequest struct {
	Name         string                   `json:"name" validate:"required,min=1,max=255"`
	SellingPrice *decimal.Decimal         `json:"selling_price" validate:"required,gte=0"`
	Ingredients  []ProductIngredientInput `json:"ingredients" validate:"omitempty,dive"`
}

// UpdateProductRequest entrada para actualizar un producto (sin costo: es derivado).
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=255"`
	SellingPrice *decimal.Decimal `json:"selling_price" validate:"omitempty,gte=0"`
}

// ReplaceProductIngredientsRequest reemplazo completo de la receta.
type ReplaceProductIngredientsRequest struct {
	Ingredients []ProductIngredientInput `json:"ingredients" validate:"dive"`
}

// ProductIngredientResponse línea de receta con su costo derivado.
type ProductIngredientResponse struct {
	ID             string          `json:"id"`
	IngredientID   string          `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Unit           string          `json:"unit"`
	CostPerUnit    decimal.Decimal `json:"cost_per_unit"`
	QuantityUsed   decimal.Decimal `json:"quantity_used"`
	CostTotal      decimal.Decimal `json:"cost_total"`
}

// ProductResponse salida de un producto con su receta y margen.
type ProductResponse struct {
	ID           string                      `json:"id"`
	Name         string                      `json:"name"`
	SellingPrice decimal.Decimal             `json:"selling_price"`
	CostTotal    decimal.Decimal             `json:"cost_total"`
	ProfitMargin decimal.Decimal             `json:"profit_margin"`
	Ingredients  []ProductIngredientResponse `json:"ingredients"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
