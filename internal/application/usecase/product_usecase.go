package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/application/costing"
	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/ports"
	"github.com/jhoicas/Costeo-api/internal/domain"
	domaincosting "github.com/jhoicas/Costeo-api/internal/domain/costing"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// ProductUseCase casos de uso de productos. CostTotal es derivado: solo lo escriben
// el calculador y el recalculador, nunca el cliente.
type ProductUseCase struct {
	repos   ports.Repositories
	tx      ports.TxRunner
	costing *costing.Service
	cache   ports.ProductCache
	sheets  ports.CostSheetGenerator
	log     zerolog.Logger
}

// NewProductUseCase construye el caso de uso. cache puede ser nil.
func NewProductUseCase(repos ports.Repositories, tx ports.TxRunner, svc *costing.Service, cache ports.ProductCache, sheets ports.CostSheetGenerator, log zerolog.Logger) *ProductUseCase {
	if cache == nil {
		cache = ports.NopProductCache{}
	}
	return &ProductUseCase{repos: repos, tx: tx, costing: svc, cache: cache, sheets: sheets, log: log}
}

// Create crea el producto con su receta. El costo se calcula antes de escribir nada:
// si falta un ingrediente no queda ni producto ni líneas.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name, err := cleanText("name", in.Name, 255)
	if err != nil {
		return nil, err
	}
	price, err := nonNegative("selling_price", in.SellingPrice)
	if err != nil {
		return nil, err
	}
	lines, err := recipeLines(in.Ingredients)
	if err != nil {
		return nil, err
	}

	var detail *entity.ProductDetail
	err = uc.tx.Run(ctx, func(repos ports.Repositories) error {
		res, err := domaincosting.Calculate(ctx, lines, repos.Ingredients)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		product := &entity.Product{
			ID:           uuid.New().String(),
			Name:         name,
			SellingPrice: price,
			CostTotal:    res.TotalCost,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		if err := repos.ProductIngredients.CreateBatch(ctx, costing.RowsFor(product.ID, res, newID)); err != nil {
			return err
		}
		detail, err = uc.costing.LoadDetail(ctx, repos, product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", detail.ID).Str("cost_total", detail.CostTotal.String()).Msg("producto creado")
	return toProductResponse(detail), nil
}

// GetByID obtiene el producto con su receta; lee primero de la caché si está configurada.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var cached dto.ProductResponse
	if ok, err := uc.cache.Get(ctx, id, &cached); err != nil {
		uc.log.Warn().Err(err).Str("product_id", id).Msg("lectura de caché fallida")
	} else if ok {
		return &cached, nil
	}

	version, verr := uc.cache.Version(ctx, id)
	detail, err := uc.costing.LoadDetail(ctx, uc.repos, id)
	if err != nil {
		return nil, err
	}
	out := toProductResponse(detail)
	if verr != nil {
		uc.log.Warn().Err(verr).Str("product_id", id).Msg("lectura de versión de caché fallida")
	} else if err := uc.cache.Set(ctx, id, version, out); err != nil {
		uc.log.Warn().Err(err).Str("product_id", id).Msg("escritura de caché fallida")
	}
	return out, nil
}

// List lista productos por nombre, cada uno con sus líneas ordenadas por nombre de ingrediente.
func (uc *ProductUseCase) List(ctx context.Context) (*dto.ProductListResponse, error) {
	products, err := uc.repos.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	byProduct := make(map[string][]entity.ProductIngredientLine, len(products))
	if len(ids) > 0 {
		lines, err := uc.repos.ProductIngredients.ListByProducts(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, l := range lines {
			byProduct[l.ProductID] = append(byProduct[l.ProductID], *l)
		}
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *toProductResponse(&entity.ProductDetail{Product: *p, Ingredients: byProduct[p.ID]}))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}, nil
}

// Update modifica nombre y/o precio de venta. El costo no cambia.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var detail *entity.ProductDetail
	err := uc.tx.Run(ctx, func(repos ports.Repositories) error {
		product, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return &domain.ProductNotFoundError{ID: id}
		}
		if in.Name != nil {
			if product.Name, err = cleanText("name", *in.Name, 255); err != nil {
				return err
			}
		}
		if in.SellingPrice != nil {
			if product.SellingPrice, err = nonNegative("selling_price", in.SellingPrice); err != nil {
				return err
			}
		}
		product.UpdatedAt = time.Now().UTC()
		if err := repos.Products.Update(ctx, product); err != nil {
			return err
		}
		detail, err = uc.costing.LoadDetail(ctx, repos, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, id)
	return toProductResponse(detail), nil
}

// ReplaceIngredients reemplaza la receta completa y recalcula el costo del producto.
func (uc *ProductUseCase) ReplaceIngredients(ctx context.Context, id string, in dto.ReplaceProductIngredientsRequest) (*dto.ProductResponse, error) {
	lines, err := recipeLines(in.Ingredients)
	if err != nil {
		return nil, err
	}
	var detail *entity.ProductDetail
	err = uc.tx.Run(ctx, func(repos ports.Repositories) error {
		product, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return &domain.ProductNotFoundError{ID: id}
		}
		res, err := domaincosting.Calculate(ctx, lines, repos.Ingredients)
		if err != nil {
			return err
		}
		if err := repos.ProductIngredients.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		if err := repos.ProductIngredients.CreateBatch(ctx, costing.RowsFor(id, res, newID)); err != nil {
			return err
		}
		if err := repos.Products.UpdateCost(ctx, id, res.TotalCost); err != nil {
			return err
		}
		detail, err = uc.costing.LoadDetail(ctx, repos, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, id)
	return toProductResponse(detail), nil
}

// Recalculate fuerza el recálculo del producto con los costos vigentes.
func (uc *ProductUseCase) Recalculate(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var detail *entity.ProductDetail
	err := uc.tx.Run(ctx, func(repos ports.Repositories) error {
		var err error
		detail, err = uc.costing.RecalculateProduct(costing.WithManualTrigger(ctx), repos, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, id)
	return toProductResponse(detail), nil
}

// Delete elimina el producto y sus líneas.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	err := uc.tx.Run(ctx, func(repos ports.Repositories) error {
		product, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return &domain.ProductNotFoundError{ID: id}
		}
		return repos.Products.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.invalidate(ctx, id)
	return nil
}

// CostSheet genera la hoja de costos en PDF.
func (uc *ProductUseCase) CostSheet(ctx context.Context, id string) ([]byte, error) {
	detail, err := uc.costing.LoadDetail(ctx, uc.repos, id)
	if err != nil {
		return nil, err
	}
	return uc.sheets.GenerateCostSheet(ctx, detail)
}

func (uc *ProductUseCase) invalidate(ctx context.Context, ids ...string) {
	if err := uc.cache.Invalidate(ctx, ids...); err != nil {
		uc.log.Warn().Err(err).Strs("product_ids", ids).Msg("no se pudo invalidar la caché de productos")
	}
}

func newID() string { return uuid.New().String() }

func toProductResponse(d *entity.ProductDetail) *dto.ProductResponse {
	lines := make([]dto.ProductIngredientResponse, 0, len(d.Ingredients))
	for _, l := range d.Ingredients {
		item := dto.ProductIngredientResponse{
			ID:           l.ID,
			IngredientID: l.IngredientID,
			QuantityUsed: l.QuantityUsed,
			CostTotal:    l.CostTotal,
			CostPerUnit:  decimal.Zero,
		}
		if l.Ingredient != nil {
			item.IngredientName = l.Ingredient.Name
			item.Unit = l.Ingredient.Unit
			item.CostPerUnit = l.Ingredient.CostPerUnit
		}
		lines = append(lines, item)
	}
	return &dto.ProductResponse{
		ID:           d.ID,
		Name:         d.Name,
		SellingPrice: d.SellingPrice,
		CostTotal:    d.CostTotal,
		ProfitMargin: d.ProfitMargin(),
		Ingredients:  lines,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
