package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// IngredientCostChange registro inmutable de un cambio de costo unitario.
// Se escribe en la misma transacción que la actualización del ingrediente.
type IngredientCostChange struct {
	ID               string
	IngredientID     string
	CostBefore       decimal.Decimal
	CostAfter        decimal.Decimal
	AffectedProducts int
	ChangedAt        time.Time
}
