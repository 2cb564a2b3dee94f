package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventory-core/internal/application/audit"
	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/application/inventory"
	"github.com/jhoicas/inventory-core/internal/application/usecase"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
	"github.com/jhoicas/inventory-core/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-core/pkg/logger"
)

const seedActor = "seed"

// seedRow una línea del archivo de carga: sku;nombre;precio;bodega;cantidad
type seedRow struct {
	Line          int
	SKU           string
	Name          string
	UnitPrice     decimal.Decimal
	WarehouseCode string
	Quantity      int64
}

func newSeedCmd() *cobra.Command {
	var (
		encoding string
		sep      string
	)
	cmd := &cobra.Command{
		Use:   "seed <archivo.csv>",
		Short: "Carga productos y existencias iniciales desde un CSV",
		Long: "Columnas: sku;nombre;precio;bodega;cantidad (con encabezado). " +
			"Las bodegas deben existir. Un SKU ya registrado no se vuelve a crear, solo recibe la entrada de stock.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len([]rune(sep)) != 1 {
				return fmt.Errorf("separador inválido %q", sep)
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("abrir CSV: %w", err)
			}
			defer f.Close()

			rows, err := readSeedRows(f, encoding, []rune(sep)[0])
			if err != nil {
				return err
			}

			e, err := loadEnv()
			if err != nil {
				return err
			}
			pool, err := postgres.NewPool(cmd.Context(), e.cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			r := postgres.NewRepositories(pool)
			s := &seeder{
				products:    usecase.NewProductUseCase(r.Products, r.Categories, audit.NewAuditUseCase(r.Audit, e.log.Component("audit"))),
				productRepo: r.Products,
				warehouses:  r.Warehouses,
				ledger:      inventory.NewStockLedgerUseCase(postgres.NewTxRunner(pool), r.Products, r.Warehouses, r.Levels, r.Movements, nil),
				log:         e.log.Component("seed"),
			}
			res, err := s.run(cmd.Context(), rows, "seed:"+filepath.Base(args[0]))
			e.log.Info().
				Int("created", res.Created).
				Int("existing", res.Existing).
				Int64("units", res.Units).
				Msg("carga finalizada")
			return err
		},
	}
	cmd.Flags().StringVar(&encoding, "encoding", "utf8", "utf8 | latin1")
	cmd.Flags().StringVar(&sep, "sep", ";", "separador de columnas")
	return cmd
}

// readSeedRows decodifica el CSV. Con encoding latin1 el archivo se transcodifica a UTF-8
// (exportaciones de Excel en español).
func readSeedRows(r io.Reader, encoding string, sep rune) ([]seedRow, error) {
	switch strings.ToLower(encoding) {
	case "", "utf8", "utf-8":
	case "latin1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("encoding no soportado %q", encoding)
	}

	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = 5

	var rows []seedRow
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer CSV: %w", err)
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimPrefix(rec[0], "\ufeff"), "sku") {
			continue
		}
		row, err := parseSeedRecord(line, rec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseSeedRecord(line int, rec []string) (seedRow, error) {
	row := seedRow{
		Line:          line,
		SKU:           strings.TrimSpace(rec[0]),
		Name:          strings.TrimSpace(rec[1]),
		WarehouseCode: strings.ToUpper(strings.TrimSpace(rec[3])),
	}
	if row.SKU == "" || row.Name == "" || row.WarehouseCode == "" {
		return row, fmt.Errorf("línea %d: sku, nombre y bodega son obligatorios", line)
	}

	// admite coma decimal ("2,50")
	price := strings.TrimSpace(rec[2])
	if !strings.Contains(price, ".") {
		price = strings.Replace(price, ",", ".", 1)
	}
	p, err := decimal.NewFromString(price)
	if err != nil || p.IsNegative() {
		return row, fmt.Errorf("línea %d: precio inválido %q", line, rec[2])
	}
	row.UnitPrice = p

	qty, err := strconv.ParseInt(strings.TrimSpace(rec[4]), 10, 64)
	if err != nil || qty < 0 {
		return row, fmt.Errorf("línea %d: cantidad inválida %q", line, rec[4])
	}
	row.Quantity = qty
	return row, nil
}

type seedResult struct {
	Created  int
	Existing int
	Units    int64
}

type seeder struct {
	products    *usecase.ProductUseCase
	productRepo repository.ProductRepository
	warehouses  repository.WarehouseRepository
	ledger      *inventory.StockLedgerUseCase
	log         *logger.Logger
}

// run crea los productos que falten y registra la existencia inicial como entrada (IN).
// Se detiene en la primera línea con error; lo ya aplicado queda registrado.
func (s *seeder) run(ctx context.Context, rows []seedRow, reference string) (seedResult, error) {
	var res seedResult
	warehouseIDs := make(map[string]int64)

	for _, row := range rows {
		whID, ok := warehouseIDs[row.WarehouseCode]
		if !ok {
			wh, err := s.warehouses.GetByCode(ctx, row.WarehouseCode)
			if err != nil {
				return res, err
			}
			if wh == nil {
				return res, fmt.Errorf("línea %d: bodega %q no existe", row.Line, row.WarehouseCode)
			}
			whID = wh.ID
			warehouseIDs[row.WarehouseCode] = whID
		}

		existing, err := s.productRepo.GetBySKU(ctx, row.SKU)
		if err != nil {
			return res, err
		}
		var productID int64
		if existing != nil {
			productID = existing.ID
			res.Existing++
		} else {
			p, err := s.products.Create(ctx, seedActor, dto.CreateProductRequest{
				SKU:       row.SKU,
				Name:      row.Name,
				UnitPrice: row.UnitPrice,
			})
			if err != nil {
				return res, fmt.Errorf("línea %d: %w", row.Line, err)
			}
			productID = p.ID
			res.Created++
		}

		if row.Quantity == 0 {
			continue
		}
		if _, err := s.ledger.Adjust(ctx, seedActor, inventory.AdjustInput{
			ProductID:   productID,
			WarehouseID: whID,
			Quantity:    row.Quantity,
			Type:        entity.MovementTypeIN,
			Notes:       "existencia inicial",
			Reference:   reference,
		}); err != nil {
			return res, fmt.Errorf("línea %d: %w", row.Line, err)
		}
		res.Units += row.Quantity
		s.log.Debug().Str("sku", row.SKU).Str("warehouse", row.WarehouseCode).Int64("qty", row.Quantity).Msg("entrada registrada")
	}
	return res, nil
}
