package analytics

import (
	"cmp"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

var stockCSVHeader = []string{"sku", "product", "warehouse_code", "quantity", "min_quantity", "max_quantity", "unit_price", "value"}

// StockReportUseCase exporta todos los niveles de stock como CSV.
type StockReportUseCase struct {
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	levelRepo     repository.StockLevelRepository
}

// NewStockReportUseCase construye el caso de uso.
func NewStockReportUseCase(
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	levelRepo repository.StockLevelRepository,
) *StockReportUseCase {
	return &StockReportUseCase{productRepo: productRepo, warehouseRepo: warehouseRepo, levelRepo: levelRepo}
}

// WriteCSV escribe una fila por nivel ordenada por SKU y código de bodega.
func (uc *StockReportUseCase) WriteCSV(ctx context.Context, w io.Writer) error {
	levels, err := uc.levelRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("reporte de stock: %w", err)
	}

	products := map[int64]*entity.Product{}
	warehouses := map[int64]*entity.Warehouse{}
	type row struct {
		p *entity.Product
		w *entity.Warehouse
		l *entity.StockLevel
	}
	rows := make([]row, 0, len(levels))
	for _, l := range levels {
		p, ok := products[l.ProductID]
		if !ok {
			if p, err = uc.productRepo.GetByID(ctx, l.ProductID); err != nil {
				return err
			}
			products[l.ProductID] = p
		}
		wh, ok := warehouses[l.WarehouseID]
		if !ok {
			if wh, err = uc.warehouseRepo.GetByID(ctx, l.WarehouseID); err != nil {
				return err
			}
			warehouses[l.WarehouseID] = wh
		}
		if p == nil || wh == nil {
			continue
		}
		rows = append(rows, row{p: p, w: wh, l: l})
	}
	slices.SortFunc(rows, func(a, b row) int {
		return cmp.Or(cmp.Compare(a.p.SKU, b.p.SKU), cmp.Compare(a.w.Code, b.w.Code))
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(stockCSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		value := r.p.UnitPrice.Mul(decimal.NewFromInt(r.l.Quantity)).Round(2)
		rec := []string{
			r.p.SKU,
			r.p.Name,
			r.w.Code,
			strconv.FormatInt(r.l.Quantity, 10),
			optional(r.l.MinQuantity),
			optional(r.l.MaxQuantity),
			r.p.UnitPrice.StringFixed(2),
			value.StringFixed(2),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func optional(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
