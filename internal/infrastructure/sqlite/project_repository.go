package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var (
	_ repository.ProjectRepository     = (*ProjectRepo)(nil)
	_ repository.RequirementRepository = (*RequirementRepo)(nil)
	_ repository.CostHistoryRepository = (*CostHistoryRepo)(nil)
)

// ProjectRepo proyecto único sobre gorm.
type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	m := projectModel{
		ID:                    p.ID,
		Name:                  p.Name,
		NextRequirementNumber: p.NextRequirementNumber,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert project: %w", translate(err, nil))
	}
	return nil
}

func (r *ProjectRepo) GetCurrent(ctx context.Context) (*entity.Project, error) {
	var list []projectModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(1).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return toProject(&list[0]), nil
}

func (r *ProjectRepo) GetCurrentForUpdate(ctx context.Context) (*entity.Project, error) {
	return r.GetCurrent(ctx)
}

func (r *ProjectRepo) Update(ctx context.Context, p *entity.Project) error {
	err := r.db.WithContext(ctx).Model(&projectModel{}).Where("id = ?", p.ID).Updates(map[string]any{
		"name":                    p.Name,
		"next_requirement_number": p.NextRequirementNumber,
		"updated_at":              p.UpdatedAt,
	}).Error
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

func (r *ProjectRepo) DeleteAll(ctx context.Context) (int64, error) {
	db := r.db.WithContext(ctx)
	if err := db.Exec("DELETE FROM requirements").Error; err != nil {
		return 0, fmt.Errorf("delete requirements: %w", err)
	}
	res := db.Exec("DELETE FROM projects")
	if res.Error != nil {
		return 0, fmt.Errorf("delete projects: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// RequirementRepo requerimientos sobre gorm.
type RequirementRepo struct {
	db *gorm.DB
}

func NewRequirementRepository(db *gorm.DB) *RequirementRepo {
	return &RequirementRepo{db: db}
}

func (r *RequirementRepo) Create(ctx context.Context, req *entity.Requirement) error {
	m := requirementModel{
		ID:          req.ID,
		ProjectID:   req.ProjectID,
		Number:      req.Number,
		Description: req.Description,
		Effort:      req.Effort,
		IsActive:    req.IsActive,
		CreatedAt:   req.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert requirement: %w", translate(err, nil))
	}
	return nil
}

func (r *RequirementRepo) GetByID(ctx context.Context, id string) (*entity.Requirement, error) {
	var list []requirementModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get requirement: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return toRequirement(&list[0]), nil
}

func (r *RequirementRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.Requirement, error) {
	var list []requirementModel
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("number ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	out := make([]*entity.Requirement, 0, len(list))
	for i := range list {
		out = append(out, toRequirement(&list[i]))
	}
	return out, nil
}

func (r *RequirementRepo) Update(ctx context.Context, req *entity.Requirement) error {
	err := r.db.WithContext(ctx).Model(&requirementModel{}).Where("id = ?", req.ID).Updates(map[string]any{
		"description": req.Description,
		"effort":      req.Effort,
		"is_active":   req.IsActive,
	}).Error
	if err != nil {
		return fmt.Errorf("update requirement: %w", err)
	}
	return nil
}

func (r *RequirementRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&requirementModel{}).Error; err != nil {
		return fmt.Errorf("delete requirement: %w", err)
	}
	return nil
}

// CostHistoryRepo historial de costos sobre gorm (solo inserción).
type CostHistoryRepo struct {
	db *gorm.DB
}

func NewCostHistoryRepository(db *gorm.DB) *CostHistoryRepo {
	return &CostHistoryRepo{db: db}
}

func (r *CostHistoryRepo) Create(ctx context.Context, c *entity.IngredientCostChange) error {
	m := costChangeModel{
		ID:               c.ID,
		IngredientID:     c.IngredientID,
		CostBefore:       c.CostBefore,
		CostAfter:        c.CostAfter,
		AffectedProducts: c.AffectedProducts,
		ChangedAt:        c.ChangedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert cost change: %w", err)
	}
	return nil
}

func (r *CostHistoryRepo) ListByIngredient(ctx context.Context, ingredientID string) ([]*entity.IngredientCostChange, error) {
	var list []costChangeModel
	err := r.db.WithContext(ctx).Where("ingredient_id = ?", ingredientID).
		Order("changed_at DESC").Order("id DESC").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list cost changes: %w", err)
	}
	out := make([]*entity.IngredientCostChange, 0, len(list))
	for _, m := range list {
		out = append(out, &entity.IngredientCostChange{
			ID:               m.ID,
			IngredientID:     m.IngredientID,
			CostBefore:       m.CostBefore,
			CostAfter:        m.CostAfter,
			AffectedProducts: m.AffectedProducts,
			ChangedAt:        m.ChangedAt,
		})
	}
	return out, nil
}
