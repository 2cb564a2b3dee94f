package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/inventory-core/internal/application/ports"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// LabelUseCase etiquetas imprimibles con el SKU del producto.
type LabelUseCase struct {
	repo repository.ProductRepository
	gen  ports.ProductLabelGenerator
}

func NewLabelUseCase(repo repository.ProductRepository, gen ports.ProductLabelGenerator) *LabelUseCase {
	return &LabelUseCase{repo: repo, gen: gen}
}

// Label PDF de la etiqueta. format: "barcode" (por defecto) o "qr".
// Los productos inactivos también se etiquetan: la mercancía puede seguir en bodega.
func (uc *LabelUseCase) Label(ctx context.Context, productID int64, format string) ([]byte, error) {
	sym := ports.LabelSymbology(strings.ToLower(strings.TrimSpace(format)))
	switch sym {
	case "":
		sym = ports.SymbologyBarcode
	case ports.SymbologyBarcode, ports.SymbologyQR:
	default:
		return nil, domain.InvalidArgument("formato de etiqueta desconocido %q (barcode | qr)", format)
	}
	p, err := uc.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return uc.gen.Label(ports.ProductLabel{SKU: p.SKU, Name: p.Name, Symbology: sym})
}
