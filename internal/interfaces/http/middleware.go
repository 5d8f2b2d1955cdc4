package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// requestMetrics contrato mínimo del colector HTTP; lo implementa *metrics.HTTP.
type requestMetrics interface {
	InFlightAdd(delta float64)
	Observe(method, route string, status int, millis float64)
}

// RequestLogger registra cada petición y deja un logger con request_id en el contexto de usuario.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.Get(fiber.HeaderXRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set(fiber.HeaderXRequestID, reqID)

		l := log.With().Str("request_id", reqID).Logger()
		c.SetUserContext(l.WithContext(c.UserContext()))

		err := c.Next()
		status := statusOf(c, err)
		ev := l.Info()
		if status >= fiber.StatusInternalServerError {
			ev = l.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("petición http")
		return err
	}
}

// Metrics mide latencia y conteo por ruta registrada (no por path, para acotar la cardinalidad).
func Metrics(m requestMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.InFlightAdd(1)
		defer m.InFlightAdd(-1)

		err := c.Next()
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "/" && r.Path != "" {
			route = r.Path
		}
		m.Observe(c.Method(), route, statusOf(c, err), float64(time.Since(start).Microseconds())/1000)
		return err
	}
}

// statusOf el status final; si el handler devolvió error lo resolverá el ErrorHandler.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
