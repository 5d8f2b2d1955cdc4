// seed carga un catálogo de ingredientes y productos de panadería usando los casos de uso,
// de modo que los costos quedan calculados igual que por la API.
//
// Uso: go run ./cmd/seed [ruta/catalogo.json]
// Sin argumento usa el catálogo embebido (bakery.json). Respeta DB_DRIVER y el resto de la configuración.
package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/application/costing"
	"github.com/jhoicas/Costeo-api/internal/application/dto"
	"github.com/jhoicas/Costeo-api/internal/application/ports"
	"github.com/jhoicas/Costeo-api/internal/application/usecase"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Costeo-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Costeo-api/pkg/config"
	"github.com/jhoicas/Costeo-api/pkg/logger"
	"github.com/jhoicas/Costeo-api/pkg/money"
)

//go:embed bakery.json
var defaultCatalog []byte

type catalog struct {
	Ingredients []struct {
		Name        string `json:"name"`
		CostPerUnit string `json:"cost_per_unit"`
		Unit        string `json:"unit"`
	} `json:"ingredients"`
	Products []struct {
		Name         string `json:"name"`
		SellingPrice string `json:"selling_price"`
		Ingredients  []struct {
			Ingredient   string `json:"ingredient"`
			QuantityUsed string `json:"quantity_used"`
		} `json:"ingredients"`
	} `json:"products"`
}

func main() {
	raw := defaultCatalog
	if len(os.Args) > 1 {
		b, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
			os.Exit(1)
		}
		raw = b
	}
	var cat catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar catálogo: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	ctx := context.Background()
	repos, tx, err := open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar base de datos")
	}

	svc := costing.NewService(nil, log.Component("costing"))
	ingredientUC := usecase.NewIngredientUseCase(repos, tx, svc, nil, log.Component("seed"))
	productUC := usecase.NewProductUseCase(repos, tx, svc, nil, nil, log.Component("seed"))

	ids := make(map[string]string, len(cat.Ingredients))
	for _, in := range cat.Ingredients {
		cost, err := money.Parse(in.CostPerUnit)
		if err != nil {
			log.Fatal().Err(err).Str("ingredient", in.Name).Msg("costo inválido")
		}
		out, err := ingredientUC.Create(ctx, dto.CreateIngredientRequest{Name: in.Name, CostPerUnit: &cost, Unit: in.Unit})
		if err != nil {
			log.Fatal().Err(err).Str("ingredient", in.Name).Msg("crear ingrediente")
		}
		ids[in.Name] = out.ID
	}

	for _, p := range cat.Products {
		price, err := money.Parse(p.SellingPrice)
		if err != nil {
			log.Fatal().Err(err).Str("product", p.Name).Msg("precio inválido")
		}
		req := dto.CreateProductRequest{Name: p.Name, SellingPrice: &price}
		for _, l := range p.Ingredients {
			qty, err := money.Parse(l.QuantityUsed)
			if err != nil {
				log.Fatal().Err(err).Str("product", p.Name).Msg("cantidad inválida")
			}
			id, ok := ids[l.Ingredient]
			if !ok {
				// Se deja pasar el nombre para que el caso de uso reporte el faltante.
				id = l.Ingredient
			}
			req.Ingredients = append(req.Ingredients, dto.ProductIngredientInput{IngredientID: id, QuantityUsed: decimalPtr(qty)})
		}
		out, err := productUC.Create(ctx, req)
		if err != nil {
			log.Fatal().Err(err).Str("product", p.Name).Msg("crear producto")
		}
		log.Info().
			Str("product", out.Name).
			Str("cost_total", money.Format(out.CostTotal)).
			Str("margin", money.Format(out.ProfitMargin)).
			Msg("producto sembrado")
	}
	fmt.Printf("Sembrados %d ingredientes y %d productos\n", len(cat.Ingredients), len(cat.Products))
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func open(ctx context.Context, cfg config.DBConfig) (ports.Repositories, ports.TxRunner, error) {
	if cfg.Driver == config.DriverSQLite {
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return ports.Repositories{}, nil, err
		}
		return sqlite.NewRepositories(db), sqlite.NewTxRunner(db), nil
	}
	if cfg.Migrate {
		if err := postgres.Migrate(cfg.ConnectionString()); err != nil {
			return ports.Repositories{}, nil, err
		}
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return ports.Repositories{}, nil, err
	}
	return postgres.NewRepositories(pool), postgres.NewTxRunner(pool), nil
}
