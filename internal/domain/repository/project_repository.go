package repository

import (
	"context"

	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// ProjectRepository puerto del proyecto único. GetCurrent devuelve el más reciente o nil.
type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	GetCurrent(ctx context.Context) (*entity.Project, error)
	GetCurrentForUpdate(ctx context.Context) (*entity.Project, error)
	Update(ctx context.Context, project *entity.Project) error
	// DeleteAll elimina todos los proyectos y, en cascada, sus requerimientos.
	DeleteAll(ctx context.Context) (int64, error)
}

// RequirementRepository puerto de requerimientos.
type RequirementRepository interface {
	Create(ctx context.Context, requirement *entity.Requirement) error
	GetByID(ctx context.Context, id string) (*entity.Requirement, error)
	// ListByProject ordenados por Number ascendente.
	ListByProject(ctx context.Context, projectID string) ([]*entity.Requirement, error)
	Update(ctx context.Context, requirement *entity.Requirement) error
	Delete(ctx context.Context, id string) error
}
