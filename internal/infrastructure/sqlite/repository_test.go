package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jhoicas/Costeo-api/internal/application/ports"
	"github.com/jhoicas/Costeo-api/internal/domain"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/sqlite"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.OpenInMemory("repo_" + uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedIngredient(t *testing.T, repos ports.Repositories, id, name, cost string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, repos.Ingredients.Create(context.Background(), &entity.Ingredient{
		ID: id, Name: name, CostPerUnit: dec(cost), Unit: "gram", CreatedAt: now, UpdatedAt: now,
	}))
}

func TestOpen_RutaVacia(t *testing.T) {
	_, err := sqlite.Open("  ")
	assert.Error(t, err)
}

func TestIngredientRepo_DecimalSinPerdida(t *testing.T) {
	repos := sqlite.NewRepositories(openDB(t))
	ctx := context.Background()
	seedIngredient(t, repos, "vanilla", "Vanilla", "0.123456789")

	got, err := repos.Ingredients.GetByID(ctx, "vanilla")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "0.123456789", got.CostPerUnit.String())

	missing, err := repos.Ingredients.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIngredientRepo_GetByIDsOmiteFaltantes(t *testing.T) {
	repos := sqlite.NewRepositories(openDB(t))
	seedIngredient(t, repos, "a", "A", "1")
	seedIngredient(t, repos, "b", "B", "2")

	got, err := repos.Ingredients.GetByIDs(context.Background(), []string{"a", "ghost", "b"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestIngredientRepo_NombreDuplicadoPermitido_IDDuplicadoNo(t *testing.T) {
	repos := sqlite.NewRepositories(openDB(t))
	seedIngredient(t, repos, "a", "Flour", "1")
	seedIngredient(t, repos, "b", "Flour", "1")

	err := repos.Ingredients.Create(context.Background(), &entity.Ingredient{ID: "a", Name: "X", CostPerUnit: dec("1"), Unit: "g"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductIngredientRepo_OrdenPorNombreYUnicidad(t *testing.T) {
	repos := sqlite.NewRepositories(openDB(t))
	ctx := context.Background()
	seedIngredient(t, repos, "sugar", "Sugar", "0.03")
	seedIngredient(t, repos, "flour", "Flour", "0.05")
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "cake", Name: "Cake", SellingPrice: dec("35"), CostTotal: dec("13")}))

	require.NoError(t, repos.ProductIngredients.CreateBatch(ctx, []*entity.ProductIngredient{
		{ID: "l1", ProductID: "cake", IngredientID: "sugar", QuantityUsed: dec("100"), CostTotal: dec("3")},
		{ID: "l2", ProductID: "cake", IngredientID: "flour", QuantityUsed: dec("200"), CostTotal: dec("10")},
	}))

	lines, err := repos.ProductIngredients.ListByProduct(ctx, "cake")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Flour", lines[0].Ingredient.Name)
	assert.Equal(t, "Sugar", lines[1].Ingredient.Name)

	err = repos.ProductIngredients.CreateBatch(ctx, []*entity.ProductIngredient{
		{ID: "l3", ProductID: "cake", IngredientID: "sugar", QuantityUsed: dec("1"), CostTotal: dec("0.03")},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	ids, err := repos.ProductIngredients.ListProductIDsByIngredient(ctx, "flour")
	require.NoError(t, err)
	assert.Equal(t, []string{"cake"}, ids)

	n, err := repos.Ingredients.CountUsage(ctx, "flour")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestProductRepo_DeleteEliminaLineas(t *testing.T) {
	db := openDB(t)
	repos := sqlite.NewRepositories(db)
	ctx := context.Background()
	seedIngredient(t, repos, "flour", "Flour", "0.05")
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "bread", Name: "Bread", SellingPrice: dec("5"), CostTotal: dec("1")}))
	require.NoError(t, repos.ProductIngredients.CreateBatch(ctx, []*entity.ProductIngredient{
		{ID: "l1", ProductID: "bread", IngredientID: "flour", QuantityUsed: dec("20"), CostTotal: dec("1")},
	}))

	require.NoError(t, repos.Products.Delete(ctx, "bread"))

	lines, err := repos.ProductIngredients.ListByProduct(ctx, "bread")
	require.NoError(t, err)
	assert.Empty(t, lines)
	n, err := repos.Ingredients.CountUsage(ctx, "flour")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTxRunner_RollbackAnteError(t *testing.T) {
	db := openDB(t)
	runner := sqlite.NewTxRunner(db)
	ctx := context.Background()
	boom := errors.New("falla a mitad de camino")

	err := runner.Run(ctx, func(repos ports.Repositories) error {
		seedIngredient(t, repos, "salt", "Salt", "0.01")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := sqlite.NewRepositories(db).Ingredients.GetByID(ctx, "salt")
	require.NoError(t, err)
	assert.Nil(t, got, "la inserción debió revertirse")
}

func TestProjectRepo_DeleteAllCascada(t *testing.T) {
	repos := sqlite.NewRepositories(openDB(t))
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, repos.Projects.Create(ctx, &entity.Project{ID: "p1", Name: "P", NextRequirementNumber: 2, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repos.Requirements.Create(ctx, &entity.Requirement{ID: "r1", ProjectID: "p1", Number: 1, Description: "d", Effort: dec("1.5"), IsActive: true, CreatedAt: now}))

	n, err := repos.Projects.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	r, err := repos.Requirements.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, r)
	p, err := repos.Projects.GetCurrent(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
}
