package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/domain"
	domaincosting "github.com/jhoicas/Costeo-api/internal/domain/costing"
	"github.com/jhoicas/Costeo-api/pkg/money"
)

var maxEffort = decimal.RequireFromString("9999.99")

// cleanText recorta espacios y valida longitud en runas.
func cleanText(field, value string, max int) (string, error) {
	v := strings.TrimSpace(value)
	n := utf8.RuneCountInString(v)
	if n == 0 {
		return "", domain.NewValidationError(field + " es requerido")
	}
	if n > max {
		return "", domain.NewValidationError(fmt.Sprintf("%s admite máximo %d caracteres", field, max))
	}
	return v, nil
}

func nonNegative(field string, d *decimal.Decimal) (decimal.Decimal, error) {
	if d == nil {
		return decimal.Zero, domain.NewValidationError(field + " es requerido")
	}
	if !money.IsNonNegative(*d) {
		return decimal.Zero, domain.NewValidationError(field + " no puede ser negativo")
	}
	if !money.FitsPlaces(*d, money.InputPlaces) {
		return decimal.Zero, domain.NewValidationError(fmt.Sprintf("%s admite máximo %d decimales", field, money.InputPlaces))
	}
	return *d, nil
}

// normalizeEffort valida el rango y lo lleva a 2 decimales.
func normalizeEffort(d *decimal.Decimal) (decimal.Decimal, error) {
	e, err := nonNegative("effort", d)
	if err != nil {
		return e, err
	}
	e = e.Round(2)
	if e.GreaterThan(maxEffort) {
		return decimal.Zero, domain.NewValidationError("effort admite máximo 9999.99")
	}
	return e, nil
}

// recipeLines valida las líneas de receta en el borde: ingrediente requerido, cantidad > 0
// y sin ingredientes repetidos.
func recipeLines(in []dto.ProductIngredientInput) ([]domaincosting.Line, error) {
	lines := make([]domaincosting.Line, 0, len(in))
	seen := make(map[string]bool, len(in))
	var dups, problems []string
	for i, l := range in {
		id := strings.TrimSpace(l.IngredientID)
		if id == "" {
			problems = append(problems, fmt.Sprintf("ingredients[%d].ingredient_id es requerido", i))
			continue
		}
		if l.QuantityUsed == nil || !money.IsPositive(*l.QuantityUsed) {
			problems = append(problems, fmt.Sprintf("ingredients[%d].quantity_used debe ser mayor que cero", i))
			continue
		}
		if !money.FitsPlaces(*l.QuantityUsed, money.InputPlaces) {
			problems = append(problems, fmt.Sprintf("ingredients[%d].quantity_used admite máximo %d decimales", i, money.InputPlaces))
			continue
		}
		if reported, ok := seen[id]; ok {
			if !reported {
				dups = append(dups, id)
				seen[id] = true
			}
			continue
		}
		seen[id] = false
		lines = append(lines, domaincosting.Line{IngredientID: id, QuantityUsed: *l.QuantityUsed})
	}
	if len(problems) > 0 {
		return nil, domain.NewValidationError(problems...)
	}
	if len(dups) > 0 {
		return nil, &domain.DuplicateIngredientError{IDs: dups}
	}
	return lines, nil
}
