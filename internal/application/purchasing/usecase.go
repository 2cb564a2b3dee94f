package purchasing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/application/inventory"
	"github.com/jhoicas/inventory-core/internal/application/ports"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	lifecycle "github.com/jhoicas/inventory-core/internal/domain/purchasing"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

var tracer = otel.Tracer("inventory-core.purchasing")

// PurchaseOrderUseCase ciclo de vida de las órdenes de compra.
// Las transiciones bloquean la orden; la recepción además postea al libro en la misma unidad.
type PurchaseOrderUseCase struct {
	txRunner      TxRunner
	orderRepo     repository.PurchaseOrderRepository
	supplierRepo  repository.SupplierRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	pdf           ports.PurchaseOrderPDFGenerator
	metrics       ports.InventoryMetrics
	now           func() time.Time
}

// NewPurchaseOrderUseCase construye el caso de uso. pdf y metrics pueden ser nil.
func NewPurchaseOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	pdf ports.PurchaseOrderPDFGenerator,
	metrics ports.InventoryMetrics,
) *PurchaseOrderUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &PurchaseOrderUseCase{
		txRunner:      txRunner,
		orderRepo:     orderRepo,
		supplierRepo:  supplierRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		pdf:           pdf,
		metrics:       metrics,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// OrderLine línea solicitada al crear la orden.
type OrderLine struct {
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

// CreateOrderInput entrada de Create.
type CreateOrderInput struct {
	SupplierID  int64
	WarehouseID int64
	Items       []OrderLine
}

// ReceiveLine cantidad recibida de un producto de la orden.
type ReceiveLine struct {
	ProductID        int64
	ReceivedQuantity int64
}

// Create registra la orden en DRAFT con número PO-yyyyMMdd-<seq> y total Σ cantidad × precio.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, actor string, in CreateOrderInput) (out *dto.PurchaseOrderResponse, err error) {
	ctx, span := tracer.Start(ctx, "PurchaseOrder.Create", trace.WithAttributes(
		attribute.Int64("supplier.id", in.SupplierID),
		attribute.Int("order.items", len(in.Items)),
	))
	defer func() { finish(span, err) }()

	if actor == "" {
		return nil, domain.InvalidArgument("actor requerido")
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	seen := make(map[int64]bool, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, domain.InvalidArgument("la cantidad del producto %d debe ser positiva", it.ProductID)
		}
		if it.UnitPrice.IsNegative() {
			return nil, domain.InvalidArgument("el precio del producto %d no puede ser negativo", it.ProductID)
		}
		if seen[it.ProductID] {
			return nil, domain.InvalidArgument("el producto %d aparece más de una vez", it.ProductID)
		}
		seen[it.ProductID] = true
	}

	names, err := uc.resolveHeader(ctx, in.SupplierID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	items := make([]entity.PurchaseOrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		p, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.UnknownReference("producto", it.ProductID)
		}
		if !p.Active {
			return nil, domain.InvalidArgument("el producto %d está inactivo", it.ProductID)
		}
		names.products[p.ID] = p
		items = append(items, entity.PurchaseOrderItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}

	seq, err := uc.orderRepo.NextOrderSequence(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	order := &entity.PurchaseOrder{
		OrderNumber: fmt.Sprintf("PO-%s-%d", now.Format("20060102"), seq),
		SupplierID:  in.SupplierID,
		WarehouseID: in.WarehouseID,
		Status:      entity.OrderStatusDraft,
		CreatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
		Items:       items,
	}
	order.TotalAmount = order.ComputeTotal()
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return names.response(order), nil
}

// Submit DRAFT -> SUBMITTED. No toca el libro.
func (uc *PurchaseOrderUseCase) Submit(ctx context.Context, actor string, id int64) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, actor, id, lifecycle.ActionSubmit, nil)
}

// Approve SUBMITTED -> APPROVED.
func (uc *PurchaseOrderUseCase) Approve(ctx context.Context, actor string, id int64) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, actor, id, lifecycle.ActionApprove, nil)
}

// Cancel desde DRAFT, SUBMITTED o APPROVED. Nunca postea al libro.
func (uc *PurchaseOrderUseCase) Cancel(ctx context.Context, actor string, id int64) (*dto.PurchaseOrderResponse, error) {
	return uc.transition(ctx, actor, id, lifecycle.ActionCancel, nil)
}

// Receive APPROVED -> RECEIVED. Cada ítem recibe su cantidad pedida salvo que lines traiga
// otra para ese producto, acotada a [0, pedida]. Los ítems con cantidad > 0 entran al libro
// como IN con referencia = número de orden. La orden queda RECEIVED aunque la recepción sea parcial.
func (uc *PurchaseOrderUseCase) Receive(ctx context.Context, actor string, id int64, lines []ReceiveLine) (*dto.PurchaseOrderResponse, error) {
	overrides := make(map[int64]int64, len(lines))
	for _, l := range lines {
		if _, dup := overrides[l.ProductID]; dup {
			return nil, domain.InvalidArgument("el producto %d aparece más de una vez en la recepción", l.ProductID)
		}
		overrides[l.ProductID] = l.ReceivedQuantity
	}

	var posted []int64
	resp, err := uc.transition(ctx, actor, id, lifecycle.ActionReceive, func(
		o *entity.PurchaseOrder,
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockLevelRepository,
		now time.Time,
	) error {
		for pid := range overrides {
			if !o.HasProduct(pid) {
				return domain.InvalidArgument("el producto %d no pertenece a la orden %s", pid, o.OrderNumber)
			}
		}
		// Orden canónico de bloqueo: por producto dentro de la bodega de la orden.
		idx := make([]int, len(o.Items))
		for i := range idx {
			idx[i] = i
		}
		sort.Slice(idx, func(a, b int) bool { return o.Items[idx[a]].ProductID < o.Items[idx[b]].ProductID })

		txID := uuid.NewString()
		for _, i := range idx {
			item := &o.Items[i]
			qty := item.Quantity
			if v, ok := overrides[item.ProductID]; ok {
				qty = min(max(v, 0), item.Quantity)
			}
			item.ReceivedQuantity = qty
			if qty == 0 {
				continue
			}
			if _, _, err := inventory.PostInTx(ctx, movRepo, stockRepo, inventory.Posting{
				ProductID:     item.ProductID,
				WarehouseID:   o.WarehouseID,
				Type:          entity.MovementTypeIN,
				Delta:         qty,
				TransactionID: txID,
				Reference:     o.OrderNumber,
				Notes:         "Received from PO: " + o.OrderNumber,
				CreatedBy:     actor,
			}, now); err != nil {
				return err
			}
			posted = append(posted, qty)
		}
		o.ReceivedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, q := range posted {
		uc.metrics.MovementRecorded(string(entity.MovementTypeIN), q)
	}
	return resp, nil
}

type receiveFunc func(o *entity.PurchaseOrder, movRepo repository.StockMovementRepository, stockRepo repository.StockLevelRepository, now time.Time) error

// transition bloquea la orden, valida la acción contra la tabla de estados y persiste.
// Dos acciones concurrentes sobre la misma orden se serializan: la segunda ve el estado nuevo.
func (uc *PurchaseOrderUseCase) transition(ctx context.Context, actor string, id int64, action lifecycle.Action, apply receiveFunc) (out *dto.PurchaseOrderResponse, err error) {
	ctx, span := tracer.Start(ctx, "PurchaseOrder."+string(action), trace.WithAttributes(attribute.Int64("order.id", id)))
	defer func() {
		finish(span, err)
		uc.metrics.OrderTransition(string(action), transitionResult(err))
	}()

	if actor == "" {
		return nil, domain.InvalidArgument("actor requerido")
	}
	now := uc.now()
	var order *entity.PurchaseOrder
	err = uc.txRunner.RunPurchasing(ctx, func(
		movRepo repository.StockMovementRepository,
		stockRepo repository.StockLevelRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error {
		o, err := orderRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.UnknownReference("orden", id)
		}
		next, err := lifecycle.Next(o.ID, o.Status, action)
		if err != nil {
			return err
		}
		if apply != nil {
			if err := apply(o, movRepo, stockRepo, now); err != nil {
				return err
			}
		}
		o.Status = next
		o.UpdatedAt = now
		order = o
		return orderRepo.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, order)
}

// Get orden por id con nombres resueltos.
func (uc *PurchaseOrderUseCase) Get(ctx context.Context, id int64) (*dto.PurchaseOrderResponse, error) {
	o, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.UnknownReference("orden", id)
	}
	return uc.toResponse(ctx, o)
}

// List página de órdenes, filtrable por estado.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, status string, page dto.PageRequest) (dto.Page[dto.PurchaseOrderResponse], error) {
	page.Normalize()
	q, err := page.ListQuery(repository.OrderSortFields)
	if err != nil {
		return dto.Page[dto.PurchaseOrderResponse]{}, err
	}
	if q.SortField == "" {
		q.SortField, q.SortDesc = "createdAt", true
	}
	var st *entity.OrderStatus
	if status != "" {
		s := entity.OrderStatus(status)
		if !s.Valid() {
			return dto.Page[dto.PurchaseOrderResponse]{}, domain.InvalidArgument("estado desconocido %q", status)
		}
		st = &s
	}
	orders, total, err := uc.orderRepo.List(ctx, st, q)
	if err != nil {
		return dto.Page[dto.PurchaseOrderResponse]{}, err
	}
	names := newOrderNames()
	items := make([]dto.PurchaseOrderResponse, 0, len(orders))
	for _, o := range orders {
		if err := uc.resolve(ctx, names, o); err != nil {
			return dto.Page[dto.PurchaseOrderResponse]{}, err
		}
		items = append(items, *names.response(o))
	}
	return dto.NewPage(items, total, page), nil
}

// PDF documento imprimible de la orden y su nombre de archivo.
func (uc *PurchaseOrderUseCase) PDF(ctx context.Context, id int64) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", errors.New("generador de PDF no configurado")
	}
	o, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if o == nil {
		return nil, "", domain.UnknownReference("orden", id)
	}
	names := newOrderNames()
	if err := uc.resolve(ctx, names, o); err != nil {
		return nil, "", err
	}
	doc := ports.PurchaseOrderDocument{
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		CreatedBy:   o.CreatedBy,
		Total:       o.TotalAmount,
	}
	if s := names.supplier; s != nil {
		doc.SupplierName, doc.SupplierEmail, doc.SupplierPhone = s.Name, s.Email, s.Phone
	}
	if w := names.warehouse; w != nil {
		doc.WarehouseCode, doc.WarehouseName = w.Code, w.Name
	}
	for _, it := range o.Items {
		line := ports.PurchaseOrderDocumentLine{
			Quantity:  it.Quantity,
			Received:  it.ReceivedQuantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
		}
		if p := names.products[it.ProductID]; p != nil {
			line.SKU, line.Name = p.SKU, p.Name
		}
		doc.Lines = append(doc.Lines, line)
	}
	b, err := uc.pdf.Generate(doc)
	if err != nil {
		return nil, "", fmt.Errorf("generar pdf de %s: %w", o.OrderNumber, err)
	}
	return b, o.OrderNumber + ".pdf", nil
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func transitionResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidStateTransition),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrUnknownReference):
		return "rejected"
	}
	return "error"
}
