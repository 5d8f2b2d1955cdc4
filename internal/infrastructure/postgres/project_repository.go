package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/domain/repository"
)

var (
	_ repository.ProjectRepository     = (*ProjectRepo)(nil)
	_ repository.RequirementRepository = (*RequirementRepo)(nil)
)

const (
	projectColumns     = `id, name, next_requirement_number, created_at, updated_at`
	requirementColumns = `id, project_id, number, description, effort, is_active, created_at`
)

// ProjectRepo proyecto único sobre PostgreSQL.
type ProjectRepo struct {
	q Querier
}

func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO projects (id, name, next_requirement_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, p.NextRequirementNumber, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepo) GetCurrent(ctx context.Context) (*entity.Project, error) {
	return r.get(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC LIMIT 1`)
}

// GetCurrentForUpdate bloquea el proyecto: la asignación de números de requerimiento se serializa.
func (r *ProjectRepo) GetCurrentForUpdate(ctx context.Context) (*entity.Project, error) {
	return r.get(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC LIMIT 1 FOR UPDATE`)
}

func (r *ProjectRepo) get(ctx context.Context, query string) (*entity.Project, error) {
	var p entity.Project
	err := r.q.QueryRow(ctx, query).Scan(&p.ID, &p.Name, &p.NextRequirementNumber, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (r *ProjectRepo) Update(ctx context.Context, p *entity.Project) error {
	_, err := r.q.Exec(ctx,
		`UPDATE projects SET name = $2, next_requirement_number = $3, updated_at = $4 WHERE id = $1`,
		p.ID, p.Name, p.NextRequirementNumber, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// DeleteAll elimina los proyectos; ON DELETE CASCADE elimina sus requerimientos.
func (r *ProjectRepo) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM projects`)
	if err != nil {
		return 0, fmt.Errorf("delete projects: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// RequirementRepo requerimientos sobre PostgreSQL.
type RequirementRepo struct {
	q Querier
}

func NewRequirementRepository(q Querier) *RequirementRepo {
	return &RequirementRepo{q: q}
}

func (r *RequirementRepo) Create(ctx context.Context, req *entity.Requirement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO requirements (id, project_id, number, description, effort, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		req.ID, req.ProjectID, req.Number, req.Description, req.Effort, req.IsActive, req.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert requirement: %w", err)
	}
	return nil
}

func (r *RequirementRepo) GetByID(ctx context.Context, id string) (*entity.Requirement, error) {
	var req entity.Requirement
	err := r.q.QueryRow(ctx, `SELECT `+requirementColumns+` FROM requirements WHERE id = $1`, id).Scan(
		&req.ID, &req.ProjectID, &req.Number, &req.Description, &req.Effort, &req.IsActive, &req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get requirement: %w", err)
	}
	return &req, nil
}

func (r *RequirementRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.Requirement, error) {
	rows, err := r.q.Query(ctx, `SELECT `+requirementColumns+` FROM requirements WHERE project_id = $1 ORDER BY number ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Requirement, 0)
	for rows.Next() {
		var req entity.Requirement
		if err := rows.Scan(&req.ID, &req.ProjectID, &req.Number, &req.Description, &req.Effort, &req.IsActive, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan requirement: %w", err)
		}
		list = append(list, &req)
	}
	return list, rows.Err()
}

func (r *RequirementRepo) Update(ctx context.Context, req *entity.Requirement) error {
	_, err := r.q.Exec(ctx,
		`UPDATE requirements SET description = $2, effort = $3, is_active = $4 WHERE id = $1`,
		req.ID, req.Description, req.Effort, req.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update requirement: %w", err)
	}
	return nil
}

func (r *RequirementRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM requirements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete requirement: %w", err)
	}
	return nil
}
