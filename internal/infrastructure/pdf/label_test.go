package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-core/internal/application/ports"
)

func TestLabel_BarrasYQR(t *testing.T) {
	g := NewMarotoPDFGenerator()

	bar, err := g.Label(ports.ProductLabel{SKU: "TOR-001", Name: "Tornillo 1/4", Symbology: ports.SymbologyBarcode})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(bar, []byte("%PDF")))

	qr, err := g.Label(ports.ProductLabel{SKU: "TOR-001", Name: "Tornillo 1/4", Symbology: ports.SymbologyQR})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(qr, []byte("%PDF")))
	assert.NotEqual(t, bar, qr)
}
