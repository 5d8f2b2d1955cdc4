package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costeo-api/internal/application/costing"
	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/usecase"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/Costeo-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp arma la API completa sobre SQLite en memoria, sin caché.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := sqlite.OpenInMemory("http_" + uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	log := zerolog.Nop()
	reg := prometheus.NewRegistry()
	repos := sqlite.NewRepositories(db)
	tx := sqlite.NewTxRunner(db)
	svc := costing.NewService(metrics.NewCosting("test", reg), log)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AppName:       "costeo-test",
		IngredientUC:  usecase.NewIngredientUseCase(repos, tx, svc, nil, log),
		ProductUC:     usecase.NewProductUseCase(repos, tx, svc, nil, pdf.NewMarotoCostSheetGenerator("test"), log),
		RequirementUC: usecase.NewRequirementUseCase(repos, tx, log),
		Log:           log,
		HTTPMetrics:   metrics.NewHTTP("test", reg),
		Gatherer:      reg,
	})
	return app
}

// doJSON lanza la petición y devuelve status y cuerpo.
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func createIngredient(t *testing.T, app *fiber.App, name, cost string) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/ingredients", fiber.Map{
		"name": name, "cost_per_unit": cost, "unit": "gram",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	return decode[dto.IngredientResponse](t, body).ID
}

type bakery struct {
	flour, sugar, strawberry, cake string
}

// seedBakery: harina 0.05, azúcar 0.03, fresa 0.50; pastel 200/100/10 = 18.00.
func seedBakery(t *testing.T, app *fiber.App) bakery {
	t.Helper()
	b := bakery{
		flour:      createIngredient(t, app, "Flour", "0.05"),
		sugar:      createIngredient(t, app, "Sugar", "0.03"),
		strawberry: createIngredient(t, app, "Strawberry", "0.50"),
	}
	status, body := doJSON(t, app, http.MethodPost, "/api/products", fiber.Map{
		"name":          "Strawberry Cake",
		"selling_price": "35",
		"ingredients": []fiber.Map{
			{"ingredient_id": b.flour, "quantity_used": "200"},
			{"ingredient_id": b.sugar, "quantity_used": "100"},
			{"ingredient_id": b.strawberry, "quantity_used": "10"},
		},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	b.cake = decode[dto.ProductResponse](t, body).ID
	return b
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos e ingredientes
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateProduct_CalculaCostoYMargen(t *testing.T) {
	app := buildTestApp(t)
	b := seedBakery(t, app)

	status, body := doJSON(t, app, http.MethodGet, "/api/products/"+b.cake, nil)
	require.Equal(t, http.StatusOK, status)
	p := decode[dto.ProductResponse](t, body)

	assert.True(t, p.CostTotal.Equal(dec("18")), "cost_total %s", p.CostTotal)
	assert.True(t, p.ProfitMargin.Equal(dec("17")))
	require.Len(t, p.Ingredients, 3)
	assert.Equal(t, "Flour", p.Ingredients[0].IngredientName)
	assert.Equal(t, "Strawberry", p.Ingredients[1].IngredientName)
	assert.Equal(t, "Sugar", p.Ingredients[2].IngredientName)
	assert.True(t, p.Ingredients[0].CostTotal.Equal(dec("10")))
}

func TestCreateProduct_IngredienteInexistenteNoEscribeNada(t *testing.T) {
	app := buildTestApp(t)
	flour := createIngredient(t, app, "Flour", "0.05")

	status, body := doJSON(t, app, http.MethodPost, "/api/products", fiber.Map{
		"name":          "Ghost Bread",
		"selling_price": "10",
		"ingredients": []fiber.Map{
			{"ingredient_id": flour, "quantity_used": "100"},
			{"ingredient_id": "non-existent-id", "quantity_used": "5"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	errResp := decode[dto.ErrorResponse](t, body)
	assert.Equal(t, "INGREDIENT_NOT_FOUND", errResp.Code)
	assert.Equal(t, []string{"non-existent-id"}, errResp.Details)

	status, body = doJSON(t, app, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, decode[dto.ProductListResponse](t, body).Total)
}

func TestCreateProduct_Validaciones(t *testing.T) {
	app := buildTestApp(t)
	flour := createIngredient(t, app, "Flour", "0.05")

	cases := map[string]struct {
		body fiber.Map
		code string
	}{
		"cantidad cero": {
			body: fiber.Map{"name": "Bread", "selling_price": "5", "ingredients": []fiber.Map{{"ingredient_id": flour, "quantity_used": "0"}}},
			code: "VALIDATION",
		},
		"ingrediente repetido": {
			body: fiber.Map{"name": "Bread", "selling_price": "5", "ingredients": []fiber.Map{
				{"ingredient_id": flour, "quantity_used": "1"},
				{"ingredient_id": flour, "quantity_used": "2"},
			}},
			code: "DUPLICATE_INGREDIENT",
		},
		"sin nombre": {
			body: fiber.Map{"selling_price": "5"},
			code: "VALIDATION",
		},
		"precio negativo": {
			body: fiber.Map{"name": "Bread", "selling_price": "-1"},
			code: "VALIDATION",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			status, body := doJSON(t, app, http.MethodPost, "/api/products", tc.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, body).Code)
		})
	}
}

func TestCreateProduct_CuerpoInvalido(t *testing.T) {
	app := buildTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateIngredient_PropagaAProductos(t *testing.T) {
	app := buildTestApp(t)
	b := seedBakery(t, app)

	status, body := doJSON(t, app, http.MethodPut, "/api/ingredients/"+b.flour, fiber.Map{"cost_per_unit": "0.06"})
	require.Equal(t, http.StatusOK, status, string(body))
	upd := decode[dto.UpdateIngredientResponse](t, body)
	assert.Equal(t, []string{b.cake}, upd.UpdatedProductIDs)
	assert.Equal(t, "Costos actualizados para 1 producto(s)", upd.Message)

	_, body = doJSON(t, app, http.MethodGet, "/api/products/"+b.cake, nil)
	p := decode[dto.ProductResponse](t, body)
	assert.True(t, p.CostTotal.Equal(dec("20")), "cost_total %s", p.CostTotal)

	_, body = doJSON(t, app, http.MethodGet, "/api/ingredients/"+b.flour+"/cost-history", nil)
	history := decode[[]dto.IngredientCostChangeResponse](t, body)
	require.Len(t, history, 1)
	assert.True(t, history[0].CostBefore.Equal(dec("0.05")))
	assert.True(t, history[0].CostAfter.Equal(dec("0.06")))
	assert.Equal(t, 1, history[0].AffectedProducts)
}

func TestUpdateIngredient_SoloNombreNoPropaga(t *testing.T) {
	app := buildTestApp(t)
	b := seedBakery(t, app)

	status, body := doJSON(t, app, http.MethodPut, "/api/ingredients/"+b.flour, fiber.Map{"name": "  Wheat Flour  ", "cost_per_unit": "0.05"})
	require.Equal(t, http.StatusOK, status)
	upd := decode[dto.UpdateIngredientResponse](t, body)
	assert.Equal(t, "Wheat Flour", upd.Name)
	assert.Empty(t, upd.UpdatedProductIDs)
	assert.Empty(t, upd.Message)
}

func TestDeleteIngredient_EnUsoRetorna409(t *testing.T) {
	app := buildTestApp(t)
	b := seedBakery(t, app)

	status, body := doJSON(t, app, http.MethodDelete, "/api/ingredients/"+b.sugar, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INGREDIENT_IN_USE", decode[dto.ErrorResponse](t, body).Code)

	unused := createIngredient(t, app, "Salt", "0.01")
	status, _ = doJSON(t, app, http.MethodDelete, "/api/ingredients/"+unused, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = doJSON(t, app, http.MethodGet, "/api/ingredients/"+unused, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestReplaceIngredients(t *testing.T) {
	app := buildTestApp(t)
	b := seedBakery(t, app)

	status, body := doJSON(t, app, http.MethodPut, "/api/products/"+b.cake+"/ingredients", fiber.Map{
		"ingredients": []fiber.Map{{"ingredient_id": b.sugar, "quantity_used": "50"}},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	p := decode[dto.ProductResponse](t, body)
	assert.True(t, p.CostTotal.Equal(dec("1.5")))
	require.Len(t, p.Ingredients, 1)

	status, body = doJSON(t, app, http.MethodPut, "/api/products/"+b.cake+"/ingredients", fiber.Map{
		"ingredients": []fiber.Map{
			{"ingredient_id": b.sugar, "quantity_used": "1"},
			{"ingredient_id": b.sugar, "quantity_used": "1"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "DUPLICATE_INGREDIENT", decode[dto.ErrorResponse](t, body).Code)
}

func TestProducto_Inexistente404(t *testing.T) {
	app := buildTestApp(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/products/ghost"},
		{http.MethodPost, "/api/products/ghost/recalculate"},
		{http.MethodDelete, "/api/products/ghost"},
		{http.MethodGet, "/api/products/ghost/cost-sheet"},
	} {
		status, _ := doJSON(t, app, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusNotFound, status, tc.method+" "+tc.path)
	}
}

func TestCostSheet_DevuelvePDF(t *testing.T) {
	app := buildTestApp(t)
	b := seedBakery(t, app)

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+b.cake+"/cost-sheet", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Proyecto y requerimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirements_NumeracionNoSeReutiliza(t *testing.T) {
	app := buildTestApp(t)

	status, _ := doJSON(t, app, http.MethodGet, "/api/requirements", nil)
	assert.Equal(t, http.StatusNotFound, status, "sin proyecto")

	status, _ = doJSON(t, app, http.MethodPost, "/api/project", fiber.Map{"name": "Panadería"})
	require.Equal(t, http.StatusCreated, status)

	var ids []string
	for _, d := range []string{"Login", "Reportes"} {
		status, body := doJSON(t, app, http.MethodPost, "/api/requirements", fiber.Map{"description": d, "effort": "3.456"})
		require.Equal(t, http.StatusCreated, status, string(body))
		r := decode[dto.RequirementResponse](t, body)
		assert.True(t, r.Effort.Equal(dec("3.46")))
		ids = append(ids, r.ID)
	}
	status, _ = doJSON(t, app, http.MethodDelete, "/api/requirements/"+ids[1], nil)
	require.Equal(t, http.StatusNoContent, status)

	_, body := doJSON(t, app, http.MethodPost, "/api/requirements", fiber.Map{"description": "Exportar", "effort": "1"})
	assert.Equal(t, 3, decode[dto.RequirementResponse](t, body).Number)

	status, body = doJSON(t, app, http.MethodPatch, "/api/requirements/"+ids[0]+"/toggle", nil)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, decode[dto.RequirementResponse](t, body).IsActive)

	_, body = doJSON(t, app, http.MethodGet, "/api/requirements/summary", nil)
	s := decode[dto.RequirementSummaryResponse](t, body)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, 1, s.Inactive)
	assert.True(t, s.TotalActiveEffort.Equal(dec("1")))
}

func TestProject_ExportImport(t *testing.T) {
	app := buildTestApp(t)
	status, body := doJSON(t, app, http.MethodPost, "/api/project/import", fiber.Map{
		"project_name": "Importado",
		"requirements": []fiber.Map{
			{"number": 7, "description": "Uno", "effort": "2", "is_active": true},
			{"number": 9, "description": "Dos", "effort": "4", "is_active": false},
		},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, 3, decode[dto.ProjectResponse](t, body).NextRequirementNumber)

	status, body = doJSON(t, app, http.MethodGet, "/api/project/export", nil)
	require.Equal(t, http.StatusOK, status)
	exp := decode[dto.ProjectExport](t, body)
	assert.Equal(t, "Importado", exp.ProjectName)
	require.Len(t, exp.Requirements, 2)
	assert.Equal(t, 1, exp.Requirements[0].Number)
	assert.Equal(t, 2, exp.Requirements[1].Number)
	assert.False(t, exp.Requirements[1].IsActive)

	status, body = doJSON(t, app, http.MethodPost, "/api/project/import", fiber.Map{
		"project_name": "Roto",
		"requirements": []fiber.Map{{"description": "", "effort": "1"}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	_, body = doJSON(t, app, http.MethodGet, "/api/project", nil)
	assert.Equal(t, "Importado", decode[dto.ProjectResponse](t, body).Name, "un import inválido no toca el proyecto")
}

// ──────────────────────────────────────────────────────────────────────────────
// Operación
// ──────────────────────────────────────────────────────────────────────────────

func TestHealthYMetrics(t *testing.T) {
	app := buildTestApp(t)

	status, body := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "costeo-test")

	seedBakery(t, app)
	status, body = doJSON(t, app, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "test_http_requests_total")

	status, body = doJSON(t, app, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, body).Code)
}
