package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectRequest entrada para crear o renombrar el proyecto.
type ProjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// ProjectResponse salida del proyecto.
type ProjectResponse struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	NextRequirementNumber int       `json:"next_requirement_number"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// CreateRequirementRequest entrada para crear un requerimiento.
type CreateRequirementRequest struct {
	Description string           `json:"description" validate:"required,min=1,max=500"`
	Effort      *decimal.Decimal `json:"effort" validate:"required,gte=0,lte=9999.99"`
}

// UpdateRequirementRequest actualización parcial de un requerimiento.
type UpdateRequirementRequest struct {
	Description *string          `json:"description" validate:"omitempty,min=1,max=500"`
	Effort      *decimal.Decimal `json:"effort" validate:"omitempty,gte=0,lte=9999.99"`
	IsActive    *bool            `json:"is_active"`
}

// RequirementResponse salida de un requerimiento.
type RequirementResponse struct {
	ID          string          `json:"id"`
	Number      int             `json:"number"`
	Description string          `json:"description"`
	Effort      decimal.Decimal `json:"effort"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RequirementSummaryResponse totales del proyecto.
type RequirementSummaryResponse struct {
	Total             int             `json:"total"`
	Active            int             `json:"active"`
	Inactive          int             `json:"inactive"`
	TotalActiveEffort decimal.Decimal `json:"total_active_effort"`
}

// ProjectExport documento de exportación/importación del proyecto.
type ProjectExport struct {
	ProjectName  string              `json:"project_name" validate:"required,min=1,max=100"`
	Requirements []RequirementExport `json:"requirements" validate:"dive"`
	ExportDate   time.Time           `json:"export_date"`
}

// RequirementExport requerimiento dentro del documento de exportación.
type RequirementExport struct {
	Number      int              `json:"number" validate:"omitempty,gte=1"`
	Description string           `json:"description" validate:"required,min=1,max=500"`
	Effort      *decimal.Decimal `json:"effort" validate:"required,gte=0,lte=9999.99"`
	IsActive    bool             `json:"is_active"`
}
