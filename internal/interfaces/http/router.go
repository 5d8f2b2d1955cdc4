package http

import (
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Costeo-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName       string
	IngredientUC  *usecase.IngredientUseCase
	ProductUC     *usecase.ProductUseCase
	RequirementUC *usecase.RequirementUseCase
	Log           zerolog.Logger
	// HTTPMetrics y Gatherer son opcionales; sin Gatherer no se expone /metrics.
	HTTPMetrics requestMetrics
	Gatherer    prometheus.Gatherer
	MetricsPath string
	SwaggerFile string
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Log))
	if deps.HTTPMetrics != nil {
		app.Use(Metrics(deps.HTTPMetrics))
	}

	// Swagger UI: http://localhost:<port>/docs (solo si el archivo existe)
	if deps.SwaggerFile != "" {
		if _, err := os.Stat(deps.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: deps.SwaggerFile,
				Path:     "docs",
				Title:    "Costeo API",
			}))
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Gatherer != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	ingredients := api.Group("/ingredients")
	ingredientHandler := NewIngredientHandler(deps.IngredientUC)
	ingredients.Get("/", ingredientHandler.List)
	ingredients.Post("/", ingredientHandler.Create)
	ingredients.Get("/:id", ingredientHandler.GetByID)
	ingredients.Put("/:id", ingredientHandler.Update)
	ingredients.Delete("/:id", ingredientHandler.Delete)
	ingredients.Get("/:id/cost-history", ingredientHandler.CostHistory)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Put("/:id/ingredients", productHandler.ReplaceIngredients)
	products.Post("/:id/recalculate", productHandler.Recalculate)
	products.Get("/:id/cost-sheet", productHandler.CostSheet)

	projectHandler := NewProjectHandler(deps.RequirementUC)
	project := api.Group("/project")
	project.Get("/", projectHandler.GetProject)
	project.Post("/", projectHandler.CreateProject)
	project.Put("/", projectHandler.UpdateProject)
	project.Delete("/", projectHandler.DeleteProject)
	project.Get("/export", projectHandler.Export)
	project.Post("/import", projectHandler.Import)

	requirements := api.Group("/requirements")
	// /summary antes de /:id
	requirements.Get("/summary", projectHandler.Summary)
	requirements.Get("/", projectHandler.ListRequirements)
	requirements.Post("/", projectHandler.CreateRequirement)
	requirements.Get("/:id", projectHandler.GetRequirement)
	requirements.Put("/:id", projectHandler.UpdateRequirement)
	requirements.Patch("/:id/toggle", projectHandler.ToggleRequirement)
	requirements.Delete("/:id", projectHandler.DeleteRequirement)
}
