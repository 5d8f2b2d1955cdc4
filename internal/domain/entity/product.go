package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/pkg/money"
)

// Product producto terminado compuesto por ingredientes.
// CostTotal es derivado: siempre la suma de los CostTotal de sus líneas; nunca lo escribe el cliente.
type Product struct {
	ID           string
	Name         string
	SellingPrice decimal.Decimal // precio de venta
	CostTotal    decimal.Decimal // costo de receta (derivado)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfitMargin precio de venta menos costo.
func (p *Product) ProfitMargin() decimal.Decimal {
	return money.Margin(p.SellingPrice, p.CostTotal)
}

// ProductDetail producto con sus líneas de receta (ordenadas por nombre de ingrediente).
type ProductDetail struct {
	Product
	Ingredients []ProductIngredientLine
}
