// Package money concentra la aritmética decimal usada para costos, precios y cantidades.
// Nunca se usa float64 para dinero: los totales se acumulan con shopspring/decimal.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DisplayPlaces decimales usados al presentar montos (respuestas, PDF).
const DisplayPlaces = 2

// InputPlaces máximo de decimales aceptados en costos, precios y cantidades de entrada.
const InputPlaces = 6

// Mul multiplica costo unitario por cantidad sin pérdida de precisión.
func Mul(costPerUnit, quantity decimal.Decimal) decimal.Decimal {
	return costPerUnit.Mul(quantity)
}

// Sum suma los valores en el orden recibido. Sin valores devuelve cero.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Margin devuelve precio de venta menos costo total (puede ser negativo).
func Margin(sellingPrice, costTotal decimal.Decimal) decimal.Decimal {
	return sellingPrice.Sub(costTotal)
}

// IsPositive indica d > 0.
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(decimal.Zero)
}

// IsNonNegative indica d >= 0.
func IsNonNegative(d decimal.Decimal) bool {
	return !d.IsNegative()
}

// FitsPlaces indica que d no tiene más de places decimales significativos ("1.500000000" sí cabe en 1).
func FitsPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// Parse convierte texto ("0.05", "1,5") a decimal. Acepta coma como separador decimal.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("money: valor vacío")
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("money: %q no es un decimal válido: %w", s, err)
	}
	return d, nil
}

// Format redondea a DisplayPlaces y agrega separador de miles (1234.5 -> "1,234.50").
func Format(d decimal.Decimal) string {
	s := d.StringFixed(DisplayPlaces)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}
