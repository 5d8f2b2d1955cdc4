// Package pdf genera la hoja de costos de un producto.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del producto  │  Fecha de emisión           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Ingrediente | Unidad | Costo unit. | Cant. | Costo  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Costo de receta / Precio de venta / Margen        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costeo-api/internal/application/ports"
	"github.com/jhoicas/Costeo-api/internal/domain/entity"
)

var _ ports.CostSheetGenerator = (*MarotoCostSheetGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 122, Green: 62, Blue: 28}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 176, Green: 0, Blue: 32}
)

// MarotoCostSheetGenerator implementa ports.CostSheetGenerator usando Maroto v2.
type MarotoCostSheetGenerator struct {
	company string
	now     func() time.Time
}

// NewMarotoCostSheetGenerator construye el generador. company aparece como autor del documento.
func NewMarotoCostSheetGenerator(company string) *MarotoCostSheetGenerator {
	return &MarotoCostSheetGenerator{company: company, now: time.Now}
}

// GenerateCostSheet genera el PDF y devuelve sus bytes.
func (g *MarotoCostSheetGenerator) GenerateCostSheet(_ context.Context, detail *entity.ProductDetail) ([]byte, error) {
	if detail == nil {
		return nil, fmt.Errorf("pdf: producto nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de costos - "+detail.Name, true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(detail, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(detail.Ingredients)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(&detail.Product))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(detail *entity.ProductDetail, issued time.Time) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(detail.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d ingrediente(s)", len(detail.Ingredients)), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("HOJA DE COSTOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+issued.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Ingrediente", 4, align.Left),
		h("Unidad", 2, align.Center),
		h("Costo unit.", 2, align.Right),
		h("Cantidad", 2, align.Right),
		h("Costo", 2, align.Right),
	)
}

// tableDetailRows una fila por línea de receta.
func tableDetailRows(lines []entity.ProductIngredientLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		name, unit, unitCost := l.IngredientID, "-", "-"
		if l.Ingredient != nil {
			name, unit, unitCost = l.Ingredient.Name, l.Ingredient.Unit, "$"+formatMoney(l.Ingredient.CostPerUnit, 4)
		}
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		result = append(result, row.New(7).Add(
			cell(name, 4, align.Left),
			cell(unit, 2, align.Center),
			cell(unitCost, 2, align.Right),
			cell(l.QuantityUsed.String(), 2, align.Right),
			cell("$"+formatMoney(l.CostTotal, 2), 2, align.Right),
		))
	}
	return result
}

func totalsRow(p *entity.Product) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string, top float64, c *props.Color) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top, Color: c})
	}
	margin := p.ProfitMargin()
	marginColor := colorPrimary
	if margin.IsNegative() {
		marginColor = colorRed
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Costo de receta:"),
			text.New("Precio de venta:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 6}),
			text.New("Margen:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: 12, Color: marginColor}),
		),
		col.New(3).Add(
			value("$"+formatMoney(p.CostTotal, 2), 0, nil),
			value("$"+formatMoney(p.SellingPrice, 2), 6, nil),
			value("$"+formatMoney(margin, 2), 12, marginColor),
		),
	)
}

// formatMoney redondea a places decimales e inserta puntos de miles en la parte entera.
// Ej: 1234567.5 con 2 → "1.234.567,50"
func formatMoney(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if frac != "" {
		return sign + string(buf) + "," + frac
	}
	return sign + string(buf)
}
