package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Costeo-api/internal/application/ports"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// NewRepositories repositorios atados a q (pool o tx).
func NewRepositories(q Querier) ports.Repositories {
	return ports.Repositories{
		Ingredients:        NewIngredientRepository(q),
		Products:           NewProductRepository(q),
		ProductIngredients: NewProductIngredientRepository(q),
		CostHistory:        NewCostHistoryRepository(q),
		Projects:           NewProjectRepository(q),
		Requirements:       NewRequirementRepository(q),
	}
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.Repositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
