// Package costing implementa el cálculo de costo de receta (servicio de dominio puro).
//
//	CostoLínea    = CostoUnitario * CantidadUsada
//	CostoProducto = Σ CostoLínea
//
// Ejemplo: harina 0.05*200 + azúcar 0.03*100 + fresa 0.50*10 = 10.00 + 3.00 + 5.00 = 18.00
package costing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/pkg/money"
	"github.com/shopspring/decimal"
)

// IngredientLookup consulta masiva de ingredientes por ID.
// Los IDs inexistentes simplemente no aparecen en el resultado.
type IngredientLookup interface {
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Ingredient, error)
}

// Line entrada del cálculo: ingrediente y cantidad usada.
type Line struct {
	IngredientID string
	QuantityUsed decimal.Decimal
}

// LineCost línea con su costo calculado.
type LineCost struct {
	IngredientID string
	QuantityUsed decimal.Decimal
	CostTotal    decimal.Decimal
}

// Result costo total y costo por línea, en el orden de entrada.
type Result struct {
	TotalCost decimal.Decimal
	Lines     []LineCost
}

// Calculate calcula el costo de cada línea con el costo unitario vigente y la suma total.
// Hace una sola consulta a lookup sin importar la cantidad de líneas; sin líneas no consulta.
func Calculate(ctx context.Context, lines []Line, lookup IngredientLookup) (*Result, error) {
	if len(lines) == 0 {
		return &Result{TotalCost: decimal.Zero, Lines: []LineCost{}}, nil
	}

	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if !money.IsPositive(l.QuantityUsed) {
			return nil, &domain.InvalidQuantityError{IngredientID: l.IngredientID, Quantity: l.QuantityUsed}
		}
		if _, ok := seen[l.IngredientID]; ok {
			continue
		}
		seen[l.IngredientID] = struct{}{}
		ids = append(ids, l.IngredientID)
	}

	ingredients, err := lookup.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("consultar ingredientes: %w", err)
	}
	costPerUnit := make(map[string]decimal.Decimal, len(ingredients))
	for _, ing := range ingredients {
		costPerUnit[ing.ID] = ing.CostPerUnit
	}

	var missing []string
	for _, id := range ids {
		if _, ok := costPerUnit[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.IngredientNotFoundError{IDs: missing}
	}

	result := &Result{Lines: make([]LineCost, 0, len(lines))}
	costs := make([]decimal.Decimal, 0, len(lines))
	for _, l := range lines {
		cost := money.Mul(costPerUnit[l.IngredientID], l.QuantityUsed)
		result.Lines = append(result.Lines, LineCost{
			IngredientID: l.IngredientID,
			QuantityUsed: l.QuantityUsed,
			CostTotal:    cost,
		})
		costs = append(costs, cost)
	}
	result.TotalCost = money.Sum(costs...)
	return result, nil
}
