// Package costing mantiene la consistencia de los costos derivados producto/ingrediente.
// Todas las operaciones reciben los repositorios de la transacción del caller (ports.Repositories)
// y nunca abren ni confirman transacciones por su cuenta.
package costing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/application/ports"
	"github.com/jhoicas/Costeo-api/internal/domain"
	domaincosting "github.com/jhoicas/Costeo-api/internal/domain/costing"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/pkg/money"
)

// Service recalculador de productos y propagador de cambios de costo de ingredientes.
type Service struct {
	metrics ports.CostingMetrics
	log     zerolog.Logger
}

// NewService construye el servicio. metrics puede ser nil.
func NewService(metrics ports.CostingMetrics, log zerolog.Logger) *Service {
	if metrics == nil {
		metrics = ports.NopCostingMetrics{}
	}
	return &Service{metrics: metrics, log: log.With().Str("component", "costing").Logger()}
}

// RecalculateProduct recalcula el costo de cada línea con el costo unitario vigente,
// persiste cada línea y luego el total del producto. Devuelve el detalle releído,
// con líneas ordenadas por nombre de ingrediente.
func (s *Service) RecalculateProduct(ctx context.Context, repos ports.Repositories, productID string) (*entity.ProductDetail, error) {
	// Bloquea el producto: dos recálculos concurrentes del mismo producto se serializan.
	product, err := repos.Products.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.ProductNotFoundError{ID: productID}
	}

	lines, err := repos.ProductIngredients.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		if err := repos.Products.UpdateCost(ctx, productID, decimal.Zero); err != nil {
			return nil, err
		}
		s.metrics.ProductRecalculated(triggerFrom(ctx))
		return s.LoadDetail(ctx, repos, productID)
	}

	var missing []string
	for _, line := range lines {
		if line.Ingredient == nil {
			missing = append(missing, line.IngredientID)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.IngredientNotFoundError{IDs: missing}
	}

	costs := make([]decimal.Decimal, 0, len(lines))
	for _, line := range lines {
		cost := money.Mul(line.Ingredient.CostPerUnit, line.QuantityUsed)
		if err := repos.ProductIngredients.UpdateCost(ctx, line.ID, cost); err != nil {
			return nil, err
		}
		costs = append(costs, cost)
	}
	total := money.Sum(costs...)
	if err := repos.Products.UpdateCost(ctx, productID, total); err != nil {
		return nil, err
	}

	s.metrics.ProductRecalculated(triggerFrom(ctx))
	s.log.Debug().Str("product_id", productID).Str("cost_total", total.String()).Int("lines", len(lines)).Msg("producto recalculado")
	return s.LoadDetail(ctx, repos, productID)
}

// PropagateIngredientChange recalcula, en secuencia, cada producto distinto que usa el ingrediente.
// Devuelve los IDs afectados; vacío si ningún producto lo usa.
func (s *Service) PropagateIngredientChange(ctx context.Context, repos ports.Repositories, ingredientID string) ([]string, error) {
	ids, err := repos.ProductIngredients.ListProductIDsByIngredient(ctx, ingredientID)
	if err != nil {
		return nil, err
	}
	ids = distinct(ids)

	ctx = withTrigger(ctx, ports.TriggerIngredientCost)
	for _, id := range ids {
		if _, err := s.RecalculateProduct(ctx, repos, id); err != nil {
			return nil, fmt.Errorf("recalcular producto %s: %w", id, err)
		}
	}

	s.metrics.IngredientPropagated(len(ids))
	s.log.Info().Str("ingredient_id", ingredientID).Int("products", len(ids)).Msg("costo de ingrediente propagado")
	return ids, nil
}

// LoadDetail lee el producto y sus líneas (ordenadas por nombre de ingrediente).
func (s *Service) LoadDetail(ctx context.Context, repos ports.Repositories, productID string) (*entity.ProductDetail, error) {
	product, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.ProductNotFoundError{ID: productID}
	}
	lines, err := repos.ProductIngredients.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]entity.ProductIngredientLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, *l)
	}
	return &entity.ProductDetail{Product: *product, Ingredients: out}, nil
}

// RowsFor construye las líneas a persistir a partir del resultado del calculador.
func RowsFor(productID string, result *domaincosting.Result, newID func() string) []*entity.ProductIngredient {
	rows := make([]*entity.ProductIngredient, 0, len(result.Lines))
	for _, l := range result.Lines {
		rows = append(rows, &entity.ProductIngredient{
			ID:           newID(),
			ProductID:    productID,
			IngredientID: l.IngredientID,
			QuantityUsed: l.QuantityUsed,
			CostTotal:    l.CostTotal,
		})
	}
	return rows
}

func distinct(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

type triggerKey struct{}

func withTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, triggerKey{}, trigger)
}

// WithManualTrigger marca el contexto como recálculo solicitado explícitamente.
func WithManualTrigger(ctx context.Context) context.Context {
	return withTrigger(ctx, ports.TriggerManual)
}

func triggerFrom(ctx context.Context) string {
	if v, ok := ctx.Value(triggerKey{}).(string); ok {
		return v
	}
	return ports.TriggerManual
}
