package sqlite

import (
	"context"

	"gorm.io/gorm"

	"github.com/jhoicas/Costeo-api/internal/application/ports"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// NewRepositories repositorios atados a db (conexión o transacción).
func NewRepositories(db *gorm.DB) ports.Repositories {
	return ports.Repositories{
		Ingredients:        NewIngredientRepository(db),
		Products:           NewProductRepository(db),
		ProductIngredients: NewProductIngredientRepository(db),
		CostHistory:        NewCostHistoryRepository(db),
		Projects:           NewProjectRepository(db),
		Requirements:       NewRequirementRepository(db),
	}
}

// TxRunner ejecuta callbacks dentro de una transacción gorm.
type TxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run confirma si fn devuelve nil; cualquier error (o panic) revierte.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
