package entity

import "github.com/shopspring/decimal"

// ProductIngredient línea de receta: cuánto de un ingrediente usa un producto.
// Única por (ProductID, IngredientID). CostTotal = costo unitario del ingrediente * QuantityUsed.
type ProductIngredient struct {
	ID           string
	ProductID    string
	IngredientID string
	QuantityUsed decimal.Decimal
	CostTotal    decimal.Decimal
}

// ProductIngredientLine línea junto con el ingrediente vigente.
// Ingredient es nil si la fila apunta a un ingrediente inexistente (estado inconsistente).
type ProductIngredientLine struct {
	ProductIngredient
	Ingredient *Ingredient
}
