package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/ports"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

// RequirementUseCase proyecto único y sus requerimientos.
// Los números de requerimiento salen de Project.NextRequirementNumber y nunca se reutilizan.
type RequirementUseCase struct {
	repos ports.Repositories
	tx    ports.TxRunner
	log   zerolog.Logger
	now   func() time.Time
}

// NewRequirementUseCase construye el caso de uso.
func NewRequirementUseCase(repos ports.Repositories, tx ports.TxRunner, log zerolog.Logger) *RequirementUseCase {
	return &RequirementUseCase{repos: repos, tx: tx, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// GetProject devuelve el proyecto actual.
func (uc *RequirementUseCase) GetProject(ctx context.Context) (*dto.ProjectResponse, error) {
	p, err := uc.currentProject(ctx, uc.repos)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(p), nil
}

// CreateProject crea un proyecto nuevo; el anterior y sus requerimientos se eliminan.
func (uc *RequirementUseCase) CreateProject(ctx context.Context, in dto.ProjectRequest) (*dto.ProjectResponse, error) {
	name, err := cleanText("name", in.Name, 100)
	if err != nil {
		return nil, err
	}
	var created *entity.Project
	err = uc.tx.Run(ctx, func(repos ports.Repositories) error {
		var err error
		created, err = uc.replaceProject(ctx, repos, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toProjectResponse(created), nil
}

// UpdateProject renombra el proyecto actual.
func (uc *RequirementUseCase) UpdateProject(ctx context.Context, in dto.ProjectRequest) (*dto.ProjectResponse, error) {
	name, err := cleanText("name", in.Name, 100)
	if err != nil {
		return nil, err
	}
	var updated *entity.Project
	err = uc.tx.Run(ctx, func(repos ports.Repositories) error {
		p, err := repos.Projects.GetCurrentForUpdate(ctx)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNoProject
		}
		p.Name = name
		p.UpdatedAt = uc.now()
		if err := repos.Projects.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProjectResponse(updated), nil
}

// DeleteProject elimina el proyecto y todos sus requerimientos.
func (uc *RequirementUseCase) DeleteProject(ctx context.Context) error {
	n, err := uc.repos.Projects.DeleteAll(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNoProject
	}
	return nil
}

// List requerimientos del proyecto por número ascendente.
func (uc *RequirementUseCase) List(ctx context.Context) ([]dto.RequirementResponse, error) {
	p, err := uc.currentProject(ctx, uc.repos)
	if err != nil {
		return nil, err
	}
	list, err := uc.repos.Requirements.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RequirementResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toRequirementResponse(r))
	}
	return out, nil
}

// Create agrega un requerimiento activo con el siguiente número del proyecto.
func (uc *RequirementUseCase) Create(ctx context.Context, in dto.CreateRequirementRequest) (*dto.RequirementResponse, error) {
	desc, err := cleanText("description", in.Description, 500)
	if err != nil {
		return nil, err
	}
	effort, err := normalizeEffort(in.Effort)
	if err != nil {
		return nil, err
	}
	var created *entity.Requirement
	err = uc.tx.Run(ctx, func(repos ports.Repositories) error {
		p, err := repos.Projects.GetCurrentForUpdate(ctx)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNoProject
		}
		created, err = uc.addRequirement(ctx, repos, p, desc, effort, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toRequirementResponse(created), nil
}

// GetByID obtiene un requerimiento.
func (uc *RequirementUseCase) GetByID(ctx context.Context, id string) (*dto.RequirementResponse, error) {
	r, err := uc.requirement(ctx, uc.repos, id)
	if err != nil {
		return nil, err
	}
	return toRequirementResponse(r), nil
}

// Update actualización parcial de descripción, esfuerzo o estado.
func (uc *RequirementUseCase) Update(ctx context.Context, id string, in dto.UpdateRequirementRequest) (*dto.RequirementResponse, error) {
	var updated *entity.Requirement
	err := uc.tx.Run(ctx, func(repos ports.Repositories) error {
		r, err := uc.requirement(ctx, repos, id)
		if err != nil {
			return err
		}
		if in.Description != nil {
			if r.Description, err = cleanText("description", *in.Description, 500); err != nil {
				return err
			}
		}
		if in.Effort != nil {
			if r.Effort, err = normalizeEffort(in.Effort); err != nil {
				return err
			}
		}
		if in.IsActive != nil {
			r.IsActive = *in.IsActive
		}
		if err := repos.Requirements.Update(ctx, r); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRequirementResponse(updated), nil
}

// Toggle invierte el estado activo.
func (uc *RequirementUseCase) Toggle(ctx context.Context, id string) (*dto.RequirementResponse, error) {
	var toggled *entity.Requirement
	err := uc.tx.Run(ctx, func(repos ports.Repositories) error {
		r, err := uc.requirement(ctx, repos, id)
		if err != nil {
			return err
		}
		r.IsActive = !r.IsActive
		if err := repos.Requirements.Update(ctx, r); err != nil {
			return err
		}
		toggled = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRequirementResponse(toggled), nil
}

// Delete elimina un requerimiento; su número no se vuelve a asignar.
func (uc *RequirementUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.requirement(ctx, uc.repos, id); err != nil {
		return err
	}
	return uc.repos.Requirements.Delete(ctx, id)
}

// Summary totales: cantidad, activos, inactivos y esfuerzo de los activos.
func (uc *RequirementUseCase) Summary(ctx context.Context) (*dto.RequirementSummaryResponse, error) {
	p, err := uc.currentProject(ctx, uc.repos)
	if err != nil {
		return nil, err
	}
	list, err := uc.repos.Requirements.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	s := Stats(list)
	return &dto.RequirementSummaryResponse{
		Total:             s.Total,
		Active:            s.Active,
		Inactive:          s.Inactive,
		TotalActiveEffort: s.TotalActiveEffort,
	}, nil
}

// Stats calcula el resumen de una lista de requerimientos.
func Stats(list []*entity.Requirement) entity.RequirementStats {
	s := entity.RequirementStats{TotalActiveEffort: decimal.Zero}
	for _, r := range list {
		s.Total++
		if r.IsActive {
			s.Active++
			s.TotalActiveEffort = s.TotalActiveEffort.Add(r.Effort)
		} else {
			s.Inactive++
		}
	}
	return s
}

// Export documento con el nombre del proyecto y sus requerimientos.
func (uc *RequirementUseCase) Export(ctx context.Context) (*dto.ProjectExport, error) {
	p, err := uc.currentProject(ctx, uc.repos)
	if err != nil {
		return nil, err
	}
	list, err := uc.repos.Requirements.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out := &dto.ProjectExport{
		ProjectName:  p.Name,
		Requirements: make([]dto.RequirementExport, 0, len(list)),
		ExportDate:   uc.now(),
	}
	for _, r := range list {
		effort := r.Effort
		out.Requirements = append(out.Requirements, dto.RequirementExport{
			Number:      r.Number,
			Description: r.Description,
			Effort:      &effort,
			IsActive:    r.IsActive,
		})
	}
	return out, nil
}

// Import reemplaza el proyecto actual por el del documento. Los requerimientos se
// renumeran desde 1 en el orden recibido. Todo o nada.
func (uc *RequirementUseCase) Import(ctx context.Context, in dto.ProjectExport) (*dto.ProjectResponse, error) {
	name, err := cleanText("project_name", in.ProjectName, 100)
	if err != nil {
		return nil, err
	}
	type item struct {
		desc   string
		effort decimal.Decimal
		active bool
	}
	items := make([]item, 0, len(in.Requirements))
	for i, r := range in.Requirements {
		desc, err := cleanText(fmt.Sprintf("requirements[%d].description", i), r.Description, 500)
		if err != nil {
			return nil, err
		}
		effort, err := normalizeEffort(r.Effort)
		if err != nil {
			return nil, fmt.Errorf("requirements[%d]: %w", i, err)
		}
		items = append(items, item{desc: desc, effort: effort, active: r.IsActive})
	}

	var created *entity.Project
	err = uc.tx.Run(ctx, func(repos ports.Repositories) error {
		p, err := uc.replaceProject(ctx, repos, name)
		if err != nil {
			return err
		}
		for _, it := range items {
			if _, err := uc.addRequirement(ctx, repos, p, it.desc, it.effort, it.active); err != nil {
				return err
			}
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("project_id", created.ID).Int("requirements", len(items)).Msg("proyecto importado")
	return toProjectResponse(created), nil
}

func (uc *RequirementUseCase) replaceProject(ctx context.Context, repos ports.Repositories, name string) (*entity.Project, error) {
	if _, err := repos.Projects.DeleteAll(ctx); err != nil {
		return nil, err
	}
	now := uc.now()
	p := &entity.Project{
		ID:                    uuid.New().String(),
		Name:                  name,
		NextRequirementNumber: 1,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := repos.Projects.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// addRequirement asigna el número y avanza el contador del proyecto (bloqueado por el caller).
func (uc *RequirementUseCase) addRequirement(ctx context.Context, repos ports.Repositories, p *entity.Project, desc string, effort decimal.Decimal, active bool) (*entity.Requirement, error) {
	r := &entity.Requirement{
		ID:          uuid.New().String(),
		ProjectID:   p.ID,
		Number:      p.NextRequirementNumber,
		Description: desc,
		Effort:      effort,
		IsActive:    active,
		CreatedAt:   uc.now(),
	}
	p.NextRequirementNumber++
	p.UpdatedAt = r.CreatedAt
	if err := repos.Projects.Update(ctx, p); err != nil {
		return nil, err
	}
	if err := repos.Requirements.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (uc *RequirementUseCase) currentProject(ctx context.Context, repos ports.Repositories) (*entity.Project, error) {
	p, err := repos.Projects.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNoProject
	}
	return p, nil
}

func (uc *RequirementUseCase) requirement(ctx context.Context, repos ports.Repositories, id string) (*entity.Requirement, error) {
	r, err := repos.Requirements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("requerimiento %s: %w", id, domain.ErrNotFound)
	}
	return r, nil
}

func toProjectResponse(p *entity.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:                    p.ID,
		Name:                  p.Name,
		NextRequirementNumber: p.NextRequirementNumber,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func toRequirementResponse(r *entity.Requirement) *dto.RequirementResponse {
	return &dto.RequirementResponse{
		ID:          r.ID,
		Number:      r.Number,
		Description: r.Description,
		Effort:      r.Effort,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
	}
}
