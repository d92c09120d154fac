// Package pdf genera el kardex de un producto en PDF con Maroto v2.
//
// Layout A4:
//
//	┌──────────────────────────────────────────────────────────┐
//	│  KARDEX + producto                 │  fecha de emisión   │
//	│  ──────────────────────────────────────────────────────  │
//	│  Stock actual / Precio / Costo                           │
//	│  TABLA: Fecha | Tipo | Cant | P.Unit | Total | Ant | Nuevo | Usuario │
//	│  ──────────────────────────────────────────────────────  │
//	│  RESUMEN: entradas / salidas / ajustes                   │
//	└──────────────────────────────────────────────────────────┘
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

	"github.com/jhoicas/inventario-admin/internal/application/inventory"
	"github.com/jhoicas/inventario-admin/internal/domain/entity"
)

var _ inventory.KardexGenerator = (*KardexPDFGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var typeLabels = map[entity.MovementType]string{
	entity.MovementTypeEntry:      "Entrada",
	entity.MovementTypeExit:       "Salida",
	entity.MovementTypeAdjustment: "Ajuste",
}

// KardexPDFGenerator implementa inventory.KardexGenerator.
type KardexPDFGenerator struct {
	now func() time.Time
}

// NewKardexPDFGenerator construye el generador.
func NewKardexPDFGenerator() *KardexPDFGenerator {
	return &KardexPDFGenerator{now: time.Now}
}

// GenerateKardexPDF arma el documento. movements debe venir en orden cronológico.
func (g *KardexPDFGenerator) GenerateKardexPDF(
	_ context.Context,
	product *entity.Product,
	movements []*entity.MovementWithProduct,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(fmt.Sprintf("Kardex producto %d", product.ID), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(product, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(productRow(product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(movements) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos registrados", props.Text{Align: align.Center, Color: colorGray, Top: 2}),
		)))
	}
	for _, r := range movementRows(movements) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(movements))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar kardex: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(product *entity.Product, now time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("#%d  %s", product.ID, product.Description), props.Text{
				Size: 10, Top: 8,
			}),
		),
		col.New(4).Add(
			text.New("Emitido: "+now.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func productRow(product *entity.Product) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Stock actual: %d   |   Precio: $%s   |   Costo: $%s",
				product.Stock,
				formatMoney(product.Price),
				formatMoney(product.Cost),
			), props.Text{Size: 9, Top: 2}),
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
		h("Fecha", 2, align.Left),
		h("Tipo", 1, align.Left),
		h("Cant.", 1, align.Right),
		h("P. Unit.", 2, align.Right),
		h("Total", 2, align.Right),
		h("Ant.", 1, align.Right),
		h("Nuevo", 1, align.Right),
		h("Usuario", 2, align.Left),
	)
}

func movementRows(movements []*entity.MovementWithProduct) []core.Row {
	out := make([]core.Row, 0, len(movements))
	for _, mv := range movements {
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		after := props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1}
		if mv.StockAfter < 0 {
			after.Color = colorRed
		}
		out = append(out, row.New(6).Add(
			cell(mv.CreatedAt.Format("02/01/2006 15:04"), 2, align.Left),
			cell(typeLabel(mv.Type), 1, align.Left),
			cell(fmt.Sprintf("%d", mv.Quantity), 1, align.Right),
			cell("$"+formatMoney(mv.UnitPrice), 2, align.Right),
			cell("$"+formatMoney(mv.Total), 2, align.Right),
			cell(fmt.Sprintf("%d", mv.StockBefore), 1, align.Right),
			col.New(1).Add(text.New(fmt.Sprintf("%d", mv.StockAfter), after)),
			cell(mv.User, 2, align.Left),
		))
	}
	return out
}

func summaryRow(movements []*entity.MovementWithProduct) core.Row {
	var entries, exits, adjustments int64
	for _, mv := range movements {
		switch mv.Type {
		case entity.MovementTypeEntry:
			entries += mv.Quantity
		case entity.MovementTypeExit:
			exits += mv.Quantity
		case entity.MovementTypeAdjustment:
			adjustments++
		}
	}
	return row.New(10).Add(
		col.New(12).Add(text.New(
			fmt.Sprintf("Unidades ingresadas: %d   |   Unidades despachadas: %d   |   Ajustes: %d   |   Movimientos: %d",
				entries, exits, adjustments, len(movements)),
			props.Text{Style: fontstyle.Bold, Size: 8, Top: 3, Color: colorPrimary},
		)),
	)
}

func typeLabel(t entity.MovementType) string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

// formatMoney redondea a pesos y agrega puntos de miles: 1234567.8 -> "1.234.568".
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(0)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
