package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/application/ports"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

var tracer = otel.Tracer("inventory-core.inventory")

// StockLedgerUseCase único escritor de niveles y movimientos de stock.
// Cada mutación bloquea sus llaves (GetForUpdate) y confirma nivel y movimiento en la misma unidad.
type StockLedgerUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	levelRepo     repository.StockLevelRepository
	movementRepo  repository.StockMovementRepository
	metrics       ports.InventoryMetrics
	now           func() time.Time
}

// NewStockLedgerUseCase construye el caso de uso. metrics puede ser nil.
func NewStockLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	levelRepo repository.StockLevelRepository,
	movementRepo repository.StockMovementRepository,
	metrics ports.InventoryMetrics,
) *StockLedgerUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &StockLedgerUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		levelRepo:     levelRepo,
		movementRepo:  movementRepo,
		metrics:       metrics,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// AdjustInput ajuste manual sobre un (producto, bodega).
type AdjustInput struct {
	ProductID   int64
	WarehouseID int64
	Quantity    int64
	Type        entity.MovementType
	Notes       string
	Reference   string
}

// TransferInput traslado entre dos bodegas.
type TransferInput struct {
	ProductID       int64
	FromWarehouseID int64
	ToWarehouseID   int64
	Quantity        int64
	Notes           string
}

// ThresholdsInput mínimo y máximo de un nivel; nil borra el valor.
type ThresholdsInput struct {
	ProductID   int64
	WarehouseID int64
	MinQuantity *int64
	MaxQuantity *int64
}

// Adjust aplica un movimiento IN, OUT o ADJUSTMENT y devuelve el nivel resultante.
// OUT o ADJUSTMENT negativo que dejaría el nivel bajo cero falla con InsufficientStock sin tocar nada.
func (uc *StockLedgerUseCase) Adjust(ctx context.Context, actor string, in AdjustInput) (resp *dto.StockLevelResponse, err error) {
	ctx, span := tracer.Start(ctx, "StockLedger.Adjust", trace.WithAttributes(
		attribute.Int64("product.id", in.ProductID),
		attribute.Int64("warehouse.id", in.WarehouseID),
		attribute.String("movement.type", string(in.Type)),
	))
	defer func() { uc.finish(span, err) }()

	if actor == "" {
		return nil, domain.InvalidArgument("actor requerido")
	}
	delta, err := signedDelta(in.Type, in.Quantity)
	if err != nil {
		return nil, err
	}
	product, err := uc.activeProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	warehouse, err := uc.activeWarehouse(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	var level *entity.StockLevel
	err = uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, stockRepo repository.StockLevelRepository) error {
		l, _, err := PostInTx(ctx, movRepo, stockRepo, Posting{
			ProductID:     in.ProductID,
			WarehouseID:   in.WarehouseID,
			Type:          in.Type,
			Delta:         delta,
			TransactionID: uuid.NewString(),
			Reference:     in.Reference,
			Notes:         in.Notes,
			CreatedBy:     actor,
		}, now)
		level = l
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.MovementRecorded(string(in.Type), abs(delta))
	r := toStockLevelResponse(level, product, warehouse)
	return &r, nil
}

// Transfer mueve quantity de una bodega a otra en una sola unidad: ambas patas o ninguna.
// Las llaves se bloquean por id de bodega ascendente para que dos traslados opuestos no se crucen.
func (uc *StockLedgerUseCase) Transfer(ctx context.Context, actor string, in TransferInput) (resp *dto.StockTransferResponse, err error) {
	ctx, span := tracer.Start(ctx, "StockLedger.Transfer", trace.WithAttributes(
		attribute.Int64("product.id", in.ProductID),
		attribute.Int64("warehouse.from", in.FromWarehouseID),
		attribute.Int64("warehouse.to", in.ToWarehouseID),
	))
	defer func() { uc.finish(span, err) }()

	if actor == "" {
		return nil, domain.InvalidArgument("actor requerido")
	}
	if in.Quantity <= 0 {
		return nil, domain.InvalidArgument("la cantidad a trasladar debe ser positiva")
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, domain.InvalidArgument("origen y destino son la misma bodega")
	}
	product, err := uc.activeProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	from, err := uc.activeWarehouse(ctx, in.FromWarehouseID)
	if err != nil {
		return nil, err
	}
	to, err := uc.activeWarehouse(ctx, in.ToWarehouseID)
	if err != nil {
		return nil, err
	}

	txID := uuid.NewString()
	ref := "TRANSFER-" + txID
	outNotes, inNotes := in.Notes, in.Notes
	if in.Notes == "" {
		outNotes = "Transfer to " + to.Code
		inNotes = "Transfer from " + from.Code
	}
	now := uc.now()

	var src, dst *entity.StockLevel
	err = uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, stockRepo repository.StockLevelRepository) error {
		first, second := in.FromWarehouseID, in.ToWarehouseID
		if second < first {
			first, second = second, first
		}
		for _, wh := range []int64{first, second} {
			if _, err := stockRepo.GetForUpdate(ctx, in.ProductID, wh); err != nil {
				return err
			}
		}
		var err error
		src, _, err = PostInTx(ctx, movRepo, stockRepo, Posting{
			ProductID: in.ProductID, WarehouseID: in.FromWarehouseID, Type: entity.MovementTypeTRANSFER,
			Delta: -in.Quantity, TransactionID: txID, Reference: ref, Notes: outNotes, CreatedBy: actor,
		}, now)
		if err != nil {
			return err
		}
		dst, _, err = PostInTx(ctx, movRepo, stockRepo, Posting{
			ProductID: in.ProductID, WarehouseID: in.ToWarehouseID, Type: entity.MovementTypeTRANSFER,
			Delta: in.Quantity, TransactionID: txID, Reference: ref, Notes: inNotes, CreatedBy: actor,
		}, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.MovementRecorded(string(entity.MovementTypeTRANSFER), in.Quantity)
	return &dto.StockTransferResponse{
		TransactionID: txID,
		Source:        toStockLevelResponse(src, product, from),
		Destination:   toStockLevelResponse(dst, product, to),
	}, nil
}

// SetThresholds fija mínimo y máximo bajo el mismo bloqueo de llave que los movimientos.
// Si el nivel no existe se crea en cero.
func (uc *StockLedgerUseCase) SetThresholds(ctx context.Context, actor string, in ThresholdsInput) (resp *dto.StockLevelResponse, err error) {
	ctx, span := tracer.Start(ctx, "StockLedger.SetThresholds")
	defer func() { uc.finish(span, err) }()

	if actor == "" {
		return nil, domain.InvalidArgument("actor requerido")
	}
	if (in.MinQuantity != nil && *in.MinQuantity < 0) || (in.MaxQuantity != nil && *in.MaxQuantity < 0) {
		return nil, domain.InvalidArgument("los umbrales no pueden ser negativos")
	}
	if in.MinQuantity != nil && in.MaxQuantity != nil && *in.MinQuantity > *in.MaxQuantity {
		return nil, domain.InvalidArgument("el mínimo no puede superar el máximo")
	}
	product, err := uc.lookupProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	warehouse, err := uc.lookupWarehouse(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	var level *entity.StockLevel
	err = uc.txRunner.Run(ctx, func(_ repository.StockMovementRepository, stockRepo repository.StockLevelRepository) error {
		l, err := stockRepo.GetForUpdate(ctx, in.ProductID, in.WarehouseID)
		if err != nil {
			return err
		}
		l.MinQuantity = in.MinQuantity
		l.MaxQuantity = in.MaxQuantity
		l.LastUpdated = now
		level = l
		return stockRepo.Save(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	r := toStockLevelResponse(level, product, warehouse)
	return &r, nil
}

// LevelsForProduct niveles del producto en todas las bodegas.
func (uc *StockLedgerUseCase) LevelsForProduct(ctx context.Context, productID int64) ([]dto.StockLevelResponse, error) {
	if _, err := uc.lookupProduct(ctx, productID); err != nil {
		return nil, err
	}
	levels, err := uc.levelRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return newCatalogCache(uc.productRepo, uc.warehouseRepo).levelResponses(ctx, levels)
}

// Level nivel de un (producto, bodega). Un par sin nivel materializado se reporta con cantidad 0.
func (uc *StockLedgerUseCase) Level(ctx context.Context, productID, warehouseID int64) (*dto.StockLevelResponse, error) {
	if _, err := uc.lookupProduct(ctx, productID); err != nil {
		return nil, err
	}
	if _, err := uc.lookupWarehouse(ctx, warehouseID); err != nil {
		return nil, err
	}
	l, err := uc.levelRepo.Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		l = &entity.StockLevel{ProductID: productID, WarehouseID: warehouseID}
	}
	out, err := newCatalogCache(uc.productRepo, uc.warehouseRepo).levelResponses(ctx, []*entity.StockLevel{l})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// LevelsForWarehouse niveles de todos los productos en la bodega.
func (uc *StockLedgerUseCase) LevelsForWarehouse(ctx context.Context, warehouseID int64) ([]dto.StockLevelResponse, error) {
	if _, err := uc.lookupWarehouse(ctx, warehouseID); err != nil {
		return nil, err
	}
	levels, err := uc.levelRepo.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	return newCatalogCache(uc.productRepo, uc.warehouseRepo).levelResponses(ctx, levels)
}

// AllLevels todos los niveles materializados.
func (uc *StockLedgerUseCase) AllLevels(ctx context.Context) ([]dto.StockLevelResponse, error) {
	levels, err := uc.levelRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return newCatalogCache(uc.productRepo, uc.warehouseRepo).levelResponses(ctx, levels)
}

// LowStockAlerts niveles con mínimo definido y cantidad <= mínimo.
func (uc *StockLedgerUseCase) LowStockAlerts(ctx context.Context) ([]dto.LowStockAlertDTO, error) {
	levels, err := uc.levelRepo.ListLow(ctx)
	if err != nil {
		return nil, err
	}
	cache := newCatalogCache(uc.productRepo, uc.warehouseRepo)
	out := make([]dto.LowStockAlertDTO, 0, len(levels))
	for _, l := range levels {
		if !l.IsLow() {
			continue
		}
		a := dto.LowStockAlertDTO{
			ProductID:       l.ProductID,
			WarehouseID:     l.WarehouseID,
			CurrentQuantity: l.Quantity,
			MinQuantity:     *l.MinQuantity,
		}
		if p, err := cache.product(ctx, l.ProductID); err != nil {
			return nil, err
		} else if p != nil {
			a.ProductName, a.SKU = p.Name, p.SKU
		}
		if w, err := cache.warehouse(ctx, l.WarehouseID); err != nil {
			return nil, err
		} else if w != nil {
			a.WarehouseName = w.Name
		}
		out = append(out, a)
	}
	return out, nil
}

// MovementQuery filtros del libro; cero = sin filtro.
type MovementQuery struct {
	ProductID   int64
	WarehouseID int64
	Type        entity.MovementType
	From        *time.Time
	To          *time.Time
}

// Movements página del libro, más reciente primero.
func (uc *StockLedgerUseCase) Movements(ctx context.Context, mq MovementQuery, page dto.PageRequest) (dto.Page[dto.StockMovementResponse], error) {
	if err := page.Validate(); err != nil {
		return dto.Page[dto.StockMovementResponse]{}, err
	}
	var f repository.MovementFilter
	if mq.ProductID != 0 {
		f.ProductID = &mq.ProductID
	}
	if mq.WarehouseID != 0 {
		f.WarehouseID = &mq.WarehouseID
	}
	if mq.Type != "" {
		if !mq.Type.Valid() {
			return dto.Page[dto.StockMovementResponse]{}, domain.InvalidArgument("tipo de movimiento desconocido %q", mq.Type)
		}
		f.Type = &mq.Type
	}
	if mq.From != nil && mq.To != nil && !mq.From.Before(*mq.To) {
		return dto.Page[dto.StockMovementResponse]{}, domain.InvalidArgument("from debe ser anterior a to")
	}
	f.From, f.To = mq.From, mq.To

	movs, total, err := uc.movementRepo.List(ctx, f, repository.ListQuery{Offset: page.Offset(), Limit: page.Size})
	if err != nil {
		return dto.Page[dto.StockMovementResponse]{}, err
	}
	cache := newCatalogCache(uc.productRepo, uc.warehouseRepo)
	items := make([]dto.StockMovementResponse, 0, len(movs))
	for _, m := range movs {
		p, err := cache.product(ctx, m.ProductID)
		if err != nil {
			return dto.Page[dto.StockMovementResponse]{}, err
		}
		w, err := cache.warehouse(ctx, m.WarehouseID)
		if err != nil {
			return dto.Page[dto.StockMovementResponse]{}, err
		}
		items = append(items, toMovementResponse(m, p, w))
	}
	return dto.NewPage(items, total, page), nil
}

func (uc *StockLedgerUseCase) lookupProduct(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.UnknownReference("producto", id)
	}
	return p, nil
}

func (uc *StockLedgerUseCase) lookupWarehouse(ctx context.Context, id int64) (*entity.Warehouse, error) {
	w, err := uc.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.UnknownReference("bodega", id)
	}
	return w, nil
}

func (uc *StockLedgerUseCase) activeProduct(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := uc.lookupProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, domain.InvalidArgument("el producto %d está inactivo", id)
	}
	return p, nil
}

func (uc *StockLedgerUseCase) activeWarehouse(ctx context.Context, id int64) (*entity.Warehouse, error) {
	w, err := uc.lookupWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}
	if !w.Active {
		return nil, domain.InvalidArgument("la bodega %d está inactiva", id)
	}
	return w, nil
}

// finish cierra el span y cuenta los rechazos de dominio.
func (uc *StockLedgerUseCase) finish(span trace.Span, err error) {
	defer span.End()
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if reason := RejectReason(err); reason != "" {
		uc.metrics.StockRejected(reason)
	}
}

// RejectReason etiqueta de métrica para un error de dominio; vacío si no es un rechazo.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, domain.ErrUnknownReference):
		return "unknown_reference"
	}
	return ""
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// String para logs: "producto/bodega".
func keyString(productID, warehouseID int64) string {
	return fmt.Sprintf("%d/%d", productID, warehouseID)
}
