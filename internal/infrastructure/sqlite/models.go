package sqlite

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// Los decimales se guardan como TEXT: con afinidad NUMERIC SQLite los convertiría a REAL.

type ingredientModel struct {
	ID          string          `gorm:"primaryKey;type:text"`
	Name        string          `gorm:"type:text;not null;index"`
	CostPerUnit decimal.Decimal `gorm:"type:text;not null"`
	Unit        string          `gorm:"type:text;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ingredientModel) TableName() string { return "ingredients" }

type productModel struct {
	ID           string          `gorm:"primaryKey;type:text"`
	Name         string          `gorm:"type:text;not null;index"`
	SellingPrice decimal.Decimal `gorm:"type:text;not null"`
	CostTotal    decimal.Decimal `gorm:"type:text;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (productModel) TableName() string { return "products" }

type productIngredientModel struct {
	ID           string           `gorm:"primaryKey;type:text"`
	ProductID    string           `gorm:"type:text;not null;uniqueIndex:ux_product_ingredient"`
	IngredientID string           `gorm:"type:text;not null;uniqueIndex:ux_product_ingredient;index"`
	QuantityUsed decimal.Decimal  `gorm:"type:text;not null"`
	CostTotal    decimal.Decimal  `gorm:"type:text;not null"`
	Product      *productModel    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Ingredient   *ingredientModel `gorm:"foreignKey:IngredientID;constraint:OnDelete:RESTRICT"`
}

func (productIngredientModel) TableName() string { return "product_ingredients" }

type costChangeModel struct {
	ID               string          `gorm:"primaryKey;type:text"`
	IngredientID     string          `gorm:"type:text;not null;index"`
	CostBefore       decimal.Decimal `gorm:"type:text;not null"`
	CostAfter        decimal.Decimal `gorm:"type:text;not null"`
	AffectedProducts int             `gorm:"not null"`
	ChangedAt        time.Time       `gorm:"not null"`
}

func (costChangeModel) TableName() string { return "ingredient_cost_changes" }

type projectModel struct {
	ID                    string `gorm:"primaryKey;type:text"`
	Name                  string `gorm:"type:text;not null"`
	NextRequirementNumber int    `gorm:"not null;default:1"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (projectModel) TableName() string { return "projects" }

type requirementModel struct {
	ID          string          `gorm:"primaryKey;type:text"`
	ProjectID   string          `gorm:"type:text;not null;uniqueIndex:ux_project_number"`
	Number      int             `gorm:"not null;uniqueIndex:ux_project_number"`
	Description string          `gorm:"type:text;not null"`
	Effort      decimal.Decimal `gorm:"type:text;not null"`
	IsActive    bool            `gorm:"not null"`
	CreatedAt   time.Time
	Project     *projectModel `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (requirementModel) TableName() string { return "requirements" }

func toIngredient(m *ingredientModel) *entity.Ingredient {
	return &entity.Ingredient{
		ID:          m.ID,
		Name:        m.Name,
		CostPerUnit: m.CostPerUnit,
		Unit:        m.Unit,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toProduct(m *productModel) *entity.Product {
	return &entity.Product{
		ID:           m.ID,
		Name:         m.Name,
		SellingPrice: m.SellingPrice,
		CostTotal:    m.CostTotal,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toLine(m *productIngredientModel) *entity.ProductIngredientLine {
	line := &entity.ProductIngredientLine{
		ProductIngredient: entity.ProductIngredient{
			ID:           m.ID,
			ProductID:    m.ProductID,
			IngredientID: m.IngredientID,
			QuantityUsed: m.QuantityUsed,
			CostTotal:    m.CostTotal,
		},
	}
	if m.Ingredient != nil {
		line.Ingredient = toIngredient(m.Ingredient)
	}
	return line
}

func toProject(m *projectModel) *entity.Project {
	return &entity.Project{
		ID:                    m.ID,
		Name:                  m.Name,
		NextRequirementNumber: m.NextRequirementNumber,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

func toRequirement(m *requirementModel) *entity.Requirement {
	return &entity.Requirement{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		Number:      m.Number,
		Description: m.Description,
		Effort:      m.Effort,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
	}
}
