package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrIngredientInUse = errors.New("el ingrediente está en uso por uno o más productos")
	ErrNoProject       = errors.New("no existe un proyecto; cree uno primero")
)

// IngredientNotFoundError uno o más ingredientes referenciados no existen.
// IDs enumera todos los faltantes, no solo el primero.
type IngredientNotFoundError struct {
	IDs []string
}

func (e *IngredientNotFoundError) Error() string {
	return fmt.Sprintf("ingredientes no encontrados: %s", strings.Join(e.IDs, ", "))
}

// Is permite errors.Is(err, ErrNotFound).
func (e *IngredientNotFoundError) Is(target error) bool { return target == ErrNotFound }

// ProductNotFoundError el producto a recalcular no existe.
type ProductNotFoundError struct {
	ID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("producto no encontrado: %s", e.ID)
}

func (e *ProductNotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvalidQuantityError una línea llegó al calculador con cantidad <= 0.
// La validación de borde debió rechazarla antes; indica un contrato violado.
type InvalidQuantityError struct {
	IngredientID string
	Quantity     decimal.Decimal
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("cantidad inválida %s para ingrediente %s: debe ser mayor que cero", e.Quantity.String(), e.IngredientID)
}

func (e *InvalidQuantityError) Is(target error) bool { return target == ErrInvalidInput }

// ValidationError error de entrada con detalle por campo.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "entrada inválida: " + strings.Join(e.Fields, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError construye un ValidationError a partir de mensajes por campo.
func NewValidationError(fields ...string) error {
	return &ValidationError{Fields: fields}
}

// DuplicateIngredientError la receta repite un ingrediente; (producto, ingrediente) es único.
type DuplicateIngredientError struct {
	IDs []string
}

func (e *DuplicateIngredientError) Error() string {
	return fmt.Sprintf("ingredientes duplicados en la receta: %s", strings.Join(e.IDs, ", "))
}

func (e *DuplicateIngredientError) Is(target error) bool { return target == ErrInvalidInput }
