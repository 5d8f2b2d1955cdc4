package ports

import (
	"context"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// CostSheetGenerator genera la hoja de costos (PDF) de un producto.
type CostSheetGenerator interface {
	GenerateCostSheet(ctx context.Context, detail *entity.ProductDetail) ([]byte, error)
}
