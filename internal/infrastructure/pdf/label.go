package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventory-core/internal/application/ports"
)

var _ ports.ProductLabelGenerator = (*MarotoPDFGenerator)(nil)

// Etiqueta de 100x50 mm, el tamaño común de las impresoras térmicas de bodega.
const (
	labelWidth  = 100
	labelHeight = 50
)

// Label arma una etiqueta de una página con el nombre del producto y el SKU como Code128 o QR.
func (g *MarotoPDFGenerator) Label(label ports.ProductLabel) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(labelWidth, labelHeight).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(3).WithBottomMargin(3).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Etiqueta "+label.SKU, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(row.New(7).Add(
		col.New(12).Add(text.New(label.Name, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Center, Color: colorPrimary,
		})),
	))

	var symbol core.Row
	switch label.Symbology {
	case ports.SymbologyQR:
		symbol = row.New(28).Add(
			col.New(12).Add(code.NewQr(label.SKU, props.Rect{Percent: 100, Center: true})),
		)
	default:
		symbol = row.New(24).Add(
			col.New(12).Add(code.NewBar(label.SKU, props.Barcode{Percent: 95, Center: true})),
		)
	}
	m.AddRows(symbol)
	m.AddRows(row.New(6).Add(
		col.New(12).Add(text.New(label.SKU, props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray})),
	))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: etiqueta %s: %w", label.SKU, err)
	}
	return out.GetBytes(), nil
}
