package repository

import (
	"context"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	// Update modifica nombre y precio de venta. CostTotal solo cambia vía UpdateCost.
	Update(ctx context.Context, product *entity.Product) error
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
	// Delete elimina el producto; sus líneas de receta se eliminan en cascada.
	Delete(ctx context.Context, id string) error
}

// ProductIngredientRepository puerto para las líneas de receta (propiedad exclusiva del producto).
type ProductIngredientRepository interface {
	CreateBatch(ctx context.Context, rows []*entity.ProductIngredient) error
	// ListByProduct devuelve las líneas con su ingrediente, ordenadas por nombre de ingrediente.
	ListByProduct(ctx context.Context, productID string) ([]*entity.ProductIngredientLine, error)
	ListByProducts(ctx context.Context, productIDs []string) ([]*entity.ProductIngredientLine, error)
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
	DeleteByProduct(ctx context.Context, productID string) error
	// ListProductIDsByIngredient IDs distintos de productos que usan el ingrediente.
	ListProductIDsByIngredient(ctx context.Context, ingredientID string) ([]string, error)
}
