package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costeo-api/internal/application/costing"
	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/ports"
	"github.com/jhoicas/Costeo-api/internal/application/usecase"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/cache"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/sqlite"
)

type env struct {
	repos        ports.Repositories
	ingredients  *usecase.IngredientUseCase
	products     *usecase.ProductUseCase
	requirements *usecase.RequirementUseCase
	redis        *miniredis.Miniredis
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := sqlite.OpenInMemory("usecase_" + uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	productCache := cache.NewProductCache(client, time.Minute)

	log := zerolog.Nop()
	repos := sqlite.NewRepositories(db)
	tx := sqlite.NewTxRunner(db)
	svc := costing.NewService(nil, log)
	return &env{
		repos:        repos,
		ingredients:  usecase.NewIngredientUseCase(repos, tx, svc, productCache, log),
		products:     usecase.NewProductUseCase(repos, tx, svc, productCache, nil, log),
		requirements: usecase.NewRequirementUseCase(repos, tx, log),
		redis:        mr,
	}
}

func d(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func (e *env) ingredient(t *testing.T, name, cost string) string {
	t.Helper()
	out, err := e.ingredients.Create(context.Background(), dto.CreateIngredientRequest{Name: name, CostPerUnit: d(cost), Unit: "gram"})
	require.NoError(t, err)
	return out.ID
}

func TestProductCreate_CalculaCostoYMargen(t *testing.T) {
	e := newEnv(t)
	flour := e.ingredient(t, "Flour", "0.05")
	sugar := e.ingredient(t, "Sugar", "0.03")
	strawberry := e.ingredient(t, "Strawberry", "0.50")

	out, err := e.products.Create(context.Background(), dto.CreateProductRequest{
		Name:         "  Strawberry Cake ",
		SellingPrice: d("35"),
		Ingredients: []dto.ProductIngredientInput{
			{IngredientID: flour, QuantityUsed: d("200")},
			{IngredientID: sugar, QuantityUsed: d("100")},
			{IngredientID: strawberry, QuantityUsed: d("10")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Strawberry Cake", out.Name)
	assert.True(t, out.CostTotal.Equal(decimal.RequireFromString("18.00")))
	assert.True(t, out.ProfitMargin.Equal(decimal.RequireFromString("17.00")))
	assert.Len(t, out.Ingredients, 3)
}

func TestProductCreate_IngredientesFaltantesNoEscribe(t *testing.T) {
	e := newEnv(t)
	flour := e.ingredient(t, "Flour", "0.05")
	ctx := context.Background()

	_, err := e.products.Create(ctx, dto.CreateProductRequest{
		Name:         "Ghost",
		SellingPrice: d("1"),
		Ingredients: []dto.ProductIngredientInput{
			{IngredientID: flour, QuantityUsed: d("1")},
			{IngredientID: "missing-a", QuantityUsed: d("1")},
			{IngredientID: "missing-b", QuantityUsed: d("1")},
		},
	})
	var notFound *domain.IngredientNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, []string{"missing-a", "missing-b"}, notFound.IDs)

	products, err := e.repos.Products.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductCreate_SinRecetaCuestaCero(t *testing.T) {
	e := newEnv(t)
	out, err := e.products.Create(context.Background(), dto.CreateProductRequest{Name: "Water", SellingPrice: d("1")})
	require.NoError(t, err)
	assert.True(t, out.CostTotal.IsZero())
	assert.Empty(t, out.Ingredients)
}

func TestIngredientUpdate_InvalidaCacheDeProductosAfectados(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	flour := e.ingredient(t, "Flour", "0.05")
	created, err := e.products.Create(ctx, dto.CreateProductRequest{
		Name: "Bread", SellingPrice: d("20"),
		Ingredients: []dto.ProductIngredientInput{{IngredientID: flour, QuantityUsed: d("500")}},
	})
	require.NoError(t, err)

	// Primera lectura llena la caché.
	first, err := e.products.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, first.CostTotal.Equal(decimal.NewFromInt(25)))
	assert.True(t, e.redis.Exists("costeo:product:"+created.ID))

	upd, err := e.ingredients.Update(ctx, flour, dto.UpdateIngredientRequest{CostPerUnit: d("0.10")})
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID}, upd.UpdatedProductIDs)
	assert.False(t, e.redis.Exists("costeo:product:"+created.ID), "la caché se invalida tras el commit")

	second, err := e.products.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, second.CostTotal.Equal(decimal.NewFromInt(50)))
}

func TestIngredientUpdate_RenombrarInvalidaCacheSinPropagar(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	flour := e.ingredient(t, "Flour", "0.05")
	created, err := e.products.Create(ctx, dto.CreateProductRequest{
		Name: "Bread", SellingPrice: d("20"),
		Ingredients: []dto.ProductIngredientInput{{IngredientID: flour, QuantityUsed: d("500")}},
	})
	require.NoError(t, err)

	_, err = e.products.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, e.redis.Exists("costeo:product:"+created.ID))

	name, unit := "Wheat Flour", "kilogram"
	upd, err := e.ingredients.Update(ctx, flour, dto.UpdateIngredientRequest{Name: &name, Unit: &unit})
	require.NoError(t, err)
	assert.Empty(t, upd.UpdatedProductIDs, "sin cambio de costo no hay recálculo")
	assert.Empty(t, upd.Message)
	assert.False(t, e.redis.Exists("costeo:product:"+created.ID))

	got, err := e.products.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "Wheat Flour", got.Ingredients[0].IngredientName)
	assert.Equal(t, "kilogram", got.Ingredients[0].Unit)
	assert.True(t, got.CostTotal.Equal(decimal.NewFromInt(25)))

	history, err := e.ingredients.CostHistory(ctx, flour)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestIngredientUpdate_CostoIgualNoPropaga(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	flour := e.ingredient(t, "Flour", "0.05")

	upd, err := e.ingredients.Update(ctx, flour, dto.UpdateIngredientRequest{CostPerUnit: d("0.050")})
	require.NoError(t, err)
	assert.Empty(t, upd.UpdatedProductIDs)

	history, err := e.ingredients.CostHistory(ctx, flour)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestIngredientUpdate_Inexistente(t *testing.T) {
	e := newEnv(t)
	_, err := e.ingredients.Update(context.Background(), "ghost", dto.UpdateIngredientRequest{CostPerUnit: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReplaceIngredients_DuplicadosNoTocanLaReceta(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	flour := e.ingredient(t, "Flour", "0.05")
	p, err := e.products.Create(ctx, dto.CreateProductRequest{
		Name: "Bread", SellingPrice: d("20"),
		Ingredients: []dto.ProductIngredientInput{{IngredientID: flour, QuantityUsed: d("100")}},
	})
	require.NoError(t, err)

	_, err = e.products.ReplaceIngredients(ctx, p.ID, dto.ReplaceProductIngredientsRequest{
		Ingredients: []dto.ProductIngredientInput{
			{IngredientID: flour, QuantityUsed: d("1")},
			{IngredientID: " " + flour, QuantityUsed: d("2")},
		},
	})
	var dup *domain.DuplicateIngredientError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, []string{flour}, dup.IDs)

	lines, err := e.repos.ProductIngredients.ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].QuantityUsed.Equal(decimal.NewFromInt(100)))
}

func TestRequirements_Numeracion(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.requirements.Create(ctx, dto.CreateRequirementRequest{Description: "x", Effort: d("1")})
	assert.ErrorIs(t, err, domain.ErrNoProject)

	_, err = e.requirements.CreateProject(ctx, dto.ProjectRequest{Name: "Panadería"})
	require.NoError(t, err)

	var created []*dto.RequirementResponse
	for i := 0; i < 3; i++ {
		r, err := e.requirements.Create(ctx, dto.CreateRequirementRequest{Description: "req", Effort: d("2")})
		require.NoError(t, err)
		created = append(created, r)
	}
	assert.Equal(t, []int{1, 2, 3}, []int{created[0].Number, created[1].Number, created[2].Number})

	require.NoError(t, e.requirements.Delete(ctx, created[2].ID))
	next, err := e.requirements.Create(ctx, dto.CreateRequirementRequest{Description: "otro", Effort: d("1")})
	require.NoError(t, err)
	assert.Equal(t, 4, next.Number)

	_, err = e.requirements.Create(ctx, dto.CreateRequirementRequest{Description: "grande", Effort: d("10000")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Un proyecto nuevo reemplaza al anterior y reinicia la numeración.
	_, err = e.requirements.CreateProject(ctx, dto.ProjectRequest{Name: "Otro"})
	require.NoError(t, err)
	list, err := e.requirements.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRequirements_ImportRenumeraYConservaInactivos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	p, err := e.requirements.Import(ctx, dto.ProjectExport{
		ProjectName: "Importado",
		Requirements: []dto.RequirementExport{
			{Number: 10, Description: "A", Effort: d("1.005"), IsActive: true},
			{Number: 4, Description: "B", Effort: d("3"), IsActive: false},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, p.NextRequirementNumber)

	list, err := e.requirements.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].Number)
	assert.Equal(t, "A", list[0].Description)
	assert.Equal(t, 2, list[1].Number)
	assert.False(t, list[1].IsActive)

	sum, err := e.requirements.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Active)
	assert.True(t, sum.TotalActiveEffort.Equal(list[0].Effort))
}

func TestStats(t *testing.T) {
	s := usecase.Stats([]*entity.Requirement{
		{IsActive: true, Effort: decimal.RequireFromString("1.5")},
		{IsActive: true, Effort: decimal.RequireFromString("2.25")},
		{IsActive: false, Effort: decimal.RequireFromString("100")},
	})
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Active)
	assert.Equal(t, 1, s.Inactive)
	assert.True(t, s.TotalActiveEffort.Equal(decimal.RequireFromString("3.75")))

	empty := usecase.Stats(nil)
	assert.True(t, empty.TotalActiveEffort.IsZero())
}
