package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/domain"
)

var errInvalidBody = errors.New("cuerpo inválido")

// writeError traduce un error de dominio a su respuesta HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var (
		missing    *domain.IngredientNotFoundError
		duplicated *domain.DuplicateIngredientError
		quantity   *domain.InvalidQuantityError
		validation *domain.ValidationError
	)
	switch {
	case errors.Is(err, errInvalidBody):
		return respond(c, fiber.StatusBadRequest, "INVALID_BODY", err.Error())
	case errors.As(err, &missing):
		return respond(c, fiber.StatusBadRequest, "INGREDIENT_NOT_FOUND", err.Error(), missing.IDs...)
	case errors.As(err, &duplicated):
		return respond(c, fiber.StatusBadRequest, "DUPLICATE_INGREDIENT", err.Error(), duplicated.IDs...)
	case errors.As(err, &quantity):
		return respond(c, fiber.StatusBadRequest, "INVALID_QUANTITY", err.Error())
	case errors.As(err, &validation):
		return respond(c, fiber.StatusBadRequest, "VALIDATION", "entrada inválida", validation.Fields...)
	case errors.Is(err, domain.ErrIngredientInUse):
		return respond(c, fiber.StatusConflict, "INGREDIENT_IN_USE", err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		return respond(c, fiber.StatusConflict, "DUPLICATE", err.Error())
	case errors.Is(err, domain.ErrConflict):
		return respond(c, fiber.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, domain.ErrNoProject):
		return respond(c, fiber.StatusNotFound, "NO_PROJECT", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return respond(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return respond(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	}
	zerolog.Ctx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
	return respond(c, fiber.StatusInternalServerError, "INTERNAL", "error interno del servidor")
}

func respond(c *fiber.Ctx, status int, code, message string, details ...string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message, Details: details})
}

// ErrorHandler para errores que no pasan por los handlers (ruta inexistente, método no permitido, pánicos).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		}
		return respond(c, fe.Code, code, fe.Message)
	}
	return writeError(c, err)
}
