package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository           = (*ProductRepo)(nil)
	_ repository.ProductIngredientRepository = (*ProductIngredientRepo)(nil)
)

// ProductRepo implementación de ProductRepository sobre gorm.
type ProductRepo struct {
	db *gorm.DB
}

// NewProductRepository construye el repositorio.
func NewProductRepository(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	m := productModel{
		ID:           p.ID,
		Name:         p.Name,
		SellingPrice: p.SellingPrice,
		CostTotal:    p.CostTotal,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert product: %w", translate(err, nil))
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var list []productModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return toProduct(&list[0]), nil
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	var list []productModel
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]*entity.Product, 0, len(list))
	for i := range list {
		out = append(out, toProduct(&list[i]))
	}
	return out, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	err := r.db.WithContext(ctx).Model(&productModel{}).Where("id = ?", p.ID).Updates(map[string]any{
		"name":          p.Name,
		"selling_price": p.SellingPrice,
		"updated_at":    p.UpdatedAt,
	}).Error
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	err := r.db.WithContext(ctx).Model(&productModel{}).Where("id = ?", productID).Updates(map[string]any{
		"cost_total": cost,
		"updated_at": time.Now().UTC(),
	}).Error
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	return nil
}

// Delete borra primero las líneas: no depende de que el PRAGMA de claves foráneas esté activo.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("product_id = ?", id).Delete(&productIngredientModel{}).Error; err != nil {
		return fmt.Errorf("delete product ingredients: %w", err)
	}
	if err := db.Where("id = ?", id).Delete(&productModel{}).Error; err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// ProductIngredientRepo líneas de receta sobre gorm.
type ProductIngredientRepo struct {
	db *gorm.DB
}

// NewProductIngredientRepository construye el repositorio.
func NewProductIngredientRepository(db *gorm.DB) *ProductIngredientRepo {
	return &ProductIngredientRepo{db: db}
}

func (r *ProductIngredientRepo) CreateBatch(ctx context.Context, rows []*entity.ProductIngredient) error {
	if len(rows) == 0 {
		return nil
	}
	models := make([]productIngredientModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, productIngredientModel{
			ID:           row.ID,
			ProductID:    row.ProductID,
			IngredientID: row.IngredientID,
			QuantityUsed: row.QuantityUsed,
			CostTotal:    row.CostTotal,
		})
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return fmt.Errorf("insert product ingredients: %w", translate(err, nil))
	}
	return nil
}

func (r *ProductIngredientRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.ProductIngredientLine, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("product_ingredients.product_id = ?", productID))
}

func (r *ProductIngredientRepo) ListByProducts(ctx context.Context, productIDs []string) ([]*entity.ProductIngredientLine, error) {
	if len(productIDs) == 0 {
		return []*entity.ProductIngredientLine{}, nil
	}
	return r.list(ctx, r.db.WithContext(ctx).Where("product_ingredients.product_id IN ?", productIDs))
}

// list ordena por nombre de ingrediente; una línea huérfana conserva Ingredient == nil.
func (r *ProductIngredientRepo) list(_ context.Context, q *gorm.DB) ([]*entity.ProductIngredientLine, error) {
	var rows []productIngredientModel
	err := q.Select("product_ingredients.*").
		Joins("LEFT JOIN ingredients ON ingredients.id = product_ingredients.ingredient_id").
		Preload("Ingredient").
		Order("product_ingredients.product_id ASC").
		Order("ingredients.name ASC").
		Order("product_ingredients.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list product ingredients: %w", err)
	}
	out := make([]*entity.ProductIngredientLine, 0, len(rows))
	for i := range rows {
		out = append(out, toLine(&rows[i]))
	}
	return out, nil
}

func (r *ProductIngredientRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error {
	err := r.db.WithContext(ctx).Model(&productIngredientModel{}).Where("id = ?", id).Update("cost_total", cost).Error
	if err != nil {
		return fmt.Errorf("update product ingredient cost: %w", err)
	}
	return nil
}

func (r *ProductIngredientRepo) DeleteByProduct(ctx context.Context, productID string) error {
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&productIngredientModel{}).Error; err != nil {
		return fmt.Errorf("delete product ingredients: %w", err)
	}
	return nil
}

func (r *ProductIngredientRepo) ListProductIDsByIngredient(ctx context.Context, ingredientID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&productIngredientModel{}).
		Where("ingredient_id = ?", ingredientID).
		Distinct().Order("product_id ASC").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list products by ingredient: %w", err)
	}
	return ids, nil
}
