package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var _ repository.IngredientRepository = (*IngredientRepo)(nil)

// IngredientRepo implementación de IngredientRepository sobre gorm (db o tx).
type IngredientRepo struct {
	db *gorm.DB
}

// NewIngredientRepository construye el repositorio.
func NewIngredientRepository(db *gorm.DB) *IngredientRepo {
	return &IngredientRepo{db: db}
}

func (r *IngredientRepo) Create(ctx context.Context, ing *entity.Ingredient) error {
	m := ingredientModel{
		ID:          ing.ID,
		Name:        ing.Name,
		CostPerUnit: ing.CostPerUnit,
		Unit:        ing.Unit,
		CreatedAt:   ing.CreatedAt,
		UpdatedAt:   ing.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert ingredient: %w", translate(err, nil))
	}
	return nil
}

func (r *IngredientRepo) GetByID(ctx context.Context, id string) (*entity.Ingredient, error) {
	var list []ingredientModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return toIngredient(&list[0]), nil
}

// GetForUpdate con una sola conexión la transacción ya es exclusiva.
func (r *IngredientRepo) GetForUpdate(ctx context.Context, id string) (*entity.Ingredient, error) {
	return r.GetByID(ctx, id)
}

func (r *IngredientRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Ingredient, error) {
	if len(ids) == 0 {
		return []*entity.Ingredient{}, nil
	}
	var list []ingredientModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get ingredients: %w", err)
	}
	out := make([]*entity.Ingredient, 0, len(list))
	for i := range list {
		out = append(out, toIngredient(&list[i]))
	}
	return out, nil
}

func (r *IngredientRepo) List(ctx context.Context) ([]*entity.Ingredient, error) {
	var list []ingredientModel
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	out := make([]*entity.Ingredient, 0, len(list))
	for i := range list {
		out = append(out, toIngredient(&list[i]))
	}
	return out, nil
}

func (r *IngredientRepo) Update(ctx context.Context, ing *entity.Ingredient) error {
	err := r.db.WithContext(ctx).Model(&ingredientModel{}).Where("id = ?", ing.ID).Updates(map[string]any{
		"name":          ing.Name,
		"cost_per_unit": ing.CostPerUnit,
		"unit":          ing.Unit,
		"updated_at":    ing.UpdatedAt,
	}).Error
	if err != nil {
		return fmt.Errorf("update ingredient: %w", translate(err, nil))
	}
	return nil
}

func (r *IngredientRepo) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ingredientModel{}).Error
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", translate(err, domain.ErrIngredientInUse))
	}
	return nil
}

func (r *IngredientRepo) CountUsage(ctx context.Context, id string) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&productIngredientModel{}).Where("ingredient_id = ?", id).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count ingredient usage: %w", err)
	}
	return int(n), nil
}
