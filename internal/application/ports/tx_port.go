package ports

import (
	"context"

	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

// Repositories agrupa los repositorios atados a una misma conexión o transacción.
type Repositories struct {
	Ingredients        repository.IngredientRepository
	Products           repository.ProductRepository
	ProductIngredients repository.ProductIngredientRepository
	CostHistory        repository.CostHistoryRepository
	Projects           repository.ProjectRepository
	Requirements       repository.RequirementRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error (o el commit falla) todo lo escrito se revierte.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}
