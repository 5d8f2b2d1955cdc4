package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/usecase"
)

// ProjectHandler maneja el proyecto actual y sus requerimientos.
type ProjectHandler struct {
	uc *usecase.RequirementUseCase
}

// NewProjectHandler construye el handler.
func NewProjectHandler(uc *usecase.RequirementUseCase) *ProjectHandler {
	return &ProjectHandler{uc: uc}
}

// GetProject godoc
// @Summary      Obtener el proyecto actual
// @Tags         project
// @Produce      json
// @Success      200  {object}  dto.ProjectResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/project [get]
func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	out, err := h.uc.GetProject(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateProject godoc
// @Summary      Crear proyecto (reemplaza el existente y sus requerimientos)
// @Tags         project
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProjectRequest  true  "Nombre del proyecto"
// @Success      201   {object}  dto.ProjectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/project [post]
func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	var in dto.ProjectRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateProject(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateProject godoc
// @Summary      Renombrar el proyecto
// @Tags         project
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProjectRequest  true  "Nombre del proyecto"
// @Success      200   {object}  dto.ProjectResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/project [put]
func (h *ProjectHandler) UpdateProject(c *fiber.Ctx) error {
	var in dto.ProjectRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateProject(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteProject godoc
// @Summary      Eliminar el proyecto y sus requerimientos
// @Tags         project
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/project [delete]
func (h *ProjectHandler) DeleteProject(c *fiber.Ctx) error {
	if err := h.uc.DeleteProject(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Export godoc
// @Summary      Exportar proyecto y requerimientos
// @Tags         project
// @Produce      json
// @Success      200  {object}  dto.ProjectExport
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/project/export [get]
func (h *ProjectHandler) Export(c *fiber.Ctx) error {
	out, err := h.uc.Export(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="proyecto.json"`)
	return c.JSON(out)
}

// Import godoc
// @Summary      Importar proyecto (reemplaza el actual)
// @Tags         project
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProjectExport  true  "Documento exportado"
// @Success      200   {object}  dto.ProjectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/project/import [post]
func (h *ProjectHandler) Import(c *fiber.Ctx) error {
	var in dto.ProjectExport
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Import(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListRequirements godoc
// @Summary      Listar requerimientos (por número)
// @Tags         requirements
// @Produce      json
// @Success      200  {array}  dto.RequirementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requirements [get]
func (h *ProjectHandler) ListRequirements(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateRequirement godoc
// @Summary      Crear requerimiento
// @Tags         requirements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequirementRequest  true  "Datos del requerimiento"
// @Success      201   {object}  dto.RequirementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/requirements [post]
func (h *ProjectHandler) CreateRequirement(c *fiber.Ctx) error {
	var in dto.CreateRequirementRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetRequirement godoc
// @Summary      Obtener requerimiento
// @Tags         requirements
// @Produce      json
// @Param        id   path  string  true  "ID del requerimiento"
// @Success      200  {object}  dto.RequirementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requirements/{id} [get]
func (h *ProjectHandler) GetRequirement(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateRequirement godoc
// @Summary      Actualizar requerimiento
// @Tags         requirements
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del requerimiento"
// @Param        body  body  dto.UpdateRequirementRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.RequirementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/requirements/{id} [put]
func (h *ProjectHandler) UpdateRequirement(c *fiber.Ctx) error {
	var in dto.UpdateRequirementRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ToggleRequirement godoc
// @Summary      Activar/desactivar requerimiento
// @Tags         requirements
// @Produce      json
// @Param        id   path  string  true  "ID del requerimiento"
// @Success      200  {object}  dto.RequirementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requirements/{id}/toggle [patch]
func (h *ProjectHandler) ToggleRequirement(c *fiber.Ctx) error {
	out, err := h.uc.Toggle(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteRequirement godoc
// @Summary      Eliminar requerimiento (su número no se reutiliza)
// @Tags         requirements
// @Param        id   path  string  true  "ID del requerimiento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requirements/{id} [delete]
func (h *ProjectHandler) DeleteRequirement(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Summary godoc
// @Summary      Resumen de requerimientos
// @Tags         requirements
// @Produce      json
// @Success      200  {object}  dto.RequirementSummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requirements/summary [get]
func (h *ProjectHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
