package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Costeo-api/internal/application/costing"
	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/ports"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// IngredientUseCase casos de uso de ingredientes. Un cambio efectivo de costo unitario
// recalcula, en la misma transacción, todos los productos que lo usan.
type IngredientUseCase struct {
	repos   ports.Repositories
	tx      ports.TxRunner
	costing *costing.Service
	cache   ports.ProductCache
	log     zerolog.Logger
}

// NewIngredientUseCase construye el caso de uso. cache puede ser nil.
func NewIngredientUseCase(repos ports.Repositories, tx ports.TxRunner, svc *costing.Service, cache ports.ProductCache, log zerolog.Logger) *IngredientUseCase {
	if cache == nil {
		cache = ports.NopProductCache{}
	}
	return &IngredientUseCase{repos: repos, tx: tx, costing: svc, cache: cache, log: log}
}

// Create crea un ingrediente.
func (uc *IngredientUseCase) Create(ctx context.Context, in dto.CreateIngredientRequest) (*dto.IngredientResponse, error) {
	name, err := cleanText("name", in.Name, 255)
	if err != nil {
		return nil, err
	}
	unit, err := cleanText("unit", in.Unit, 50)
	if err != nil {
		return nil, err
	}
	cost, err := nonNegative("cost_per_unit", in.CostPerUnit)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	ing := &entity.Ingredient{
		ID:          uuid.New().String(),
		Name:        name,
		CostPerUnit: cost,
		Unit:        unit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repos.Ingredients.Create(ctx, ing); err != nil {
		return nil, err
	}
	return toIngredientResponse(ing), nil
}

// GetByID obtiene un ingrediente.
func (uc *IngredientUseCase) GetByID(ctx context.Context, id string) (*dto.IngredientResponse, error) {
	ing, err := uc.repos.Ingredients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, ingredientNotFound(id)
	}
	return toIngredientResponse(ing), nil
}

// List lista ingredientes ordenados por nombre.
func (uc *IngredientUseCase) List(ctx context.Context) ([]dto.IngredientResponse, error) {
	list, err := uc.repos.Ingredients.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.IngredientResponse, 0, len(list))
	for _, ing := range list {
		out = append(out, *toIngredientResponse(ing))
	}
	return out, nil
}

// Update aplica una actualización parcial. Si cost_per_unit cambia, registra el historial y
// propaga el nuevo costo a todos los productos afectados antes de confirmar.
func (uc *IngredientUseCase) Update(ctx context.Context, id string, in dto.UpdateIngredientRequest) (*dto.UpdateIngredientResponse, error) {
	var (
		updated  *entity.Ingredient
		affected []string
		stale    []string
	)
	err := uc.tx.Run(ctx, func(repos ports.Repositories) error {
		ing, err := repos.Ingredients.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if ing == nil {
			return ingredientNotFound(id)
		}
		prevName, prevUnit := ing.Name, ing.Unit
		if in.Name != nil {
			if ing.Name, err = cleanText("name", *in.Name, 255); err != nil {
				return err
			}
		}
		if in.Unit != nil {
			if ing.Unit, err = cleanText("unit", *in.Unit, 50); err != nil {
				return err
			}
		}
		before := ing.CostPerUnit
		costChanging := false
		if in.CostPerUnit != nil {
			cost, err := nonNegative("cost_per_unit", in.CostPerUnit)
			if err != nil {
				return err
			}
			costChanging = !cost.Equal(before)
			ing.CostPerUnit = cost
		}
		ing.UpdatedAt = time.Now().UTC()
		if err := repos.Ingredients.Update(ctx, ing); err != nil {
			return err
		}
		updated = ing
		if !costChanging {
			// Nombre y unidad viajan dentro del producto cacheado.
			if ing.Name == prevName && ing.Unit == prevUnit {
				return nil
			}
			stale, err = repos.ProductIngredients.ListProductIDsByIngredient(ctx, id)
			return err
		}

		ids, err := uc.costing.PropagateIngredientChange(ctx, repos, id)
		if err != nil {
			return err
		}
		affected = ids
		return repos.CostHistory.Create(ctx, &entity.IngredientCostChange{
			ID:               uuid.New().String(),
			IngredientID:     id,
			CostBefore:       before,
			CostAfter:        ing.CostPerUnit,
			AffectedProducts: len(ids),
			ChangedAt:        ing.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, append(affected, stale...))
	out := &dto.UpdateIngredientResponse{IngredientResponse: *toIngredientResponse(updated)}
	if len(affected) > 0 {
		out.UpdatedProductIDs = affected
		out.Message = fmt.Sprintf("Costos actualizados para %d producto(s)", len(affected))
	}
	return out, nil
}

// Delete elimina un ingrediente que ningún producto usa.
func (uc *IngredientUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(repos ports.Repositories) error {
		ing, err := repos.Ingredients.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if ing == nil {
			return ingredientNotFound(id)
		}
		n, err := repos.Ingredients.CountUsage(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrIngredientInUse
		}
		return repos.Ingredients.Delete(ctx, id)
	})
}

// CostHistory historial de cambios de costo, más reciente primero.
func (uc *IngredientUseCase) CostHistory(ctx context.Context, id string) ([]dto.IngredientCostChangeResponse, error) {
	ing, err := uc.repos.Ingredients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, ingredientNotFound(id)
	}
	changes, err := uc.repos.CostHistory.ListByIngredient(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.IngredientCostChangeResponse, 0, len(changes))
	for _, c := range changes {
		out = append(out, dto.IngredientCostChangeResponse{
			ID:               c.ID,
			IngredientID:     c.IngredientID,
			CostBefore:       c.CostBefore,
			CostAfter:        c.CostAfter,
			AffectedProducts: c.AffectedProducts,
			ChangedAt:        c.ChangedAt,
		})
	}
	return out, nil
}

// invalidate descarta de la caché los productos tocados. Se llama después del commit;
// un fallo de la caché no revierte nada, solo se registra.
func (uc *IngredientUseCase) invalidate(ctx context.Context, productIDs []string) {
	if len(productIDs) == 0 {
		return
	}
	if err := uc.cache.Invalidate(ctx, productIDs...); err != nil {
		uc.log.Warn().Err(err).Strs("product_ids", productIDs).Msg("no se pudo invalidar la caché de productos")
	}
}

// ingredientNotFound para operaciones directas sobre un ingrediente (404), distinto de
// IngredientNotFoundError que señala referencias rotas dentro de una receta.
func ingredientNotFound(id string) error {
	return fmt.Errorf("ingrediente %s: %w", id, domain.ErrNotFound)
}

func toIngredientResponse(ing *entity.Ingredient) *dto.IngredientResponse {
	return &dto.IngredientResponse{
		ID:          ing.ID,
		Name:        ing.Name,
		CostPerUnit: ing.CostPerUnit,
		Unit:        ing.Unit,
		CreatedAt:   ing.CreatedAt,
		UpdatedAt:   ing.UpdatedAt,
	}
}
