package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ingredient insumo de panadería con costo por unidad (ej. harina 0.05 por gramo).
// Un cambio de CostPerUnit invalida el costo derivado de todo producto que lo use.
type Ingredient struct {
	ID          string
	Name        string
	CostPerUnit decimal.Decimal
	Unit        string // gram, piece, ml...
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
