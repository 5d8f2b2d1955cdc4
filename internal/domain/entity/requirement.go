package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Requirement requerimiento con esfuerzo estimado (2 decimales). Inactivo = excluido del esfuerzo total.
type Requirement struct {
	ID          string
	ProjectID   string
	Number      int
	Description string
	Effort      decimal.Decimal
	IsActive    bool
	CreatedAt   time.Time
}

// RequirementStats resumen de requerimientos del proyecto.
type RequirementStats struct {
	Total             int
	Active            int
	Inactive          int
	TotalActiveEffort decimal.Decimal
}
