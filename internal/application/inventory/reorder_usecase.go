package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	reorder "github.com/jhoicas/inventory-core/internal/domain/inventory"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// ReorderSettings valores globales del motor de reorden; cada producto puede sobreescribir
// lead time, costo de pedido y tasa de mantenimiento.
type ReorderSettings struct {
	LeadTimeDays    int
	OrderingCost    float64
	HoldingCostRate float64 // fracción del precio unitario por unidad-año
	ServiceLevel    float64
	WindowDays      int
}

// DefaultReorderSettings 7 días, 50 por pedido, 20% anual, 95% de servicio, 90 días de historial.
func DefaultReorderSettings() ReorderSettings {
	return ReorderSettings{
		LeadTimeDays:    7,
		OrderingCost:    50,
		HoldingCostRate: 0.20,
		ServiceLevel:    0.95,
		WindowDays:      90,
	}
}

// ReorderUseCase calcula punto de reorden, stock de seguridad y EOQ a partir del libro.
// No guarda estado: mismas entradas producen la misma sugerencia.
type ReorderUseCase struct {
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	levelRepo     repository.StockLevelRepository
	movementRepo  repository.StockMovementRepository
	projector     DemandProjector
	settings      ReorderSettings
	now           func() time.Time
}

// NewReorderUseCase construye el caso de uso. projector es opcional; sin él la cobertura
// de la lista de reposición usa la demanda media histórica.
func NewReorderUseCase(
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	levelRepo repository.StockLevelRepository,
	movementRepo repository.StockMovementRepository,
	projector DemandProjector,
	settings ReorderSettings,
) *ReorderUseCase {
	def := DefaultReorderSettings()
	if settings.LeadTimeDays <= 0 {
		settings.LeadTimeDays = def.LeadTimeDays
	}
	if settings.OrderingCost < 0 {
		settings.OrderingCost = def.OrderingCost
	}
	if settings.HoldingCostRate <= 0 {
		settings.HoldingCostRate = def.HoldingCostRate
	}
	if settings.ServiceLevel <= 0 || settings.ServiceLevel >= 1 {
		settings.ServiceLevel = def.ServiceLevel
	}
	if settings.WindowDays <= 0 {
		settings.WindowDays = def.WindowDays
	}
	return &ReorderUseCase{
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		levelRepo:     levelRepo,
		movementRepo:  movementRepo,
		projector:     projector,
		settings:      settings,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Suggest sugerencia de reorden de un producto.
func (uc *ReorderUseCase) Suggest(ctx context.Context, productID int64) (out *dto.ReorderSuggestionDTO, err error) {
	ctx, span := tracer.Start(ctx, "Reorder.Suggest", trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.UnknownReference("producto", productID)
	}
	s, params, err := uc.compute(ctx, p)
	if err != nil {
		return nil, err
	}
	return &dto.ReorderSuggestionDTO{
		ProductID:              p.ID,
		ReorderPoint:           s.ReorderPoint,
		ReorderQuantity:        s.ReorderQuantity,
		SafetyStock:            s.SafetyStock,
		EconomicOrderQuantity:  s.EconomicOrderQuantity,
		EstimatedAnnualSavings: s.EstimatedAnnualSavings,
		AverageDailyDemand:     s.AverageDailyDemand,
		DemandStdDev:           s.DemandStdDev,
		LeadTimeDays:           params.LeadTimeDays,
		ServiceLevel:           params.ServiceLevel,
	}, nil
}

// compute arma la serie diaria de la ventana que termina al inicio del día actual (UTC).
func (uc *ReorderUseCase) compute(ctx context.Context, p *entity.Product) (reorder.Suggestion, reorder.ReorderParams, error) {
	to := reorder.Day(uc.now())
	from := to.AddDate(0, 0, -uc.settings.WindowDays)
	movs, err := uc.movementRepo.ListByProduct(ctx, p.ID, from, to)
	if err != nil {
		return reorder.Suggestion{}, reorder.ReorderParams{}, err
	}
	stats := reorder.Stats(reorder.DailyDemand(movs, from, uc.settings.WindowDays))
	params := uc.params(p)
	return reorder.Optimize(stats, params), params, nil
}

// params resuelve override del producto o valor configurado.
func (uc *ReorderUseCase) params(p *entity.Product) reorder.ReorderParams {
	lead := uc.settings.LeadTimeDays
	if p.LeadTimeDays != nil && *p.LeadTimeDays > 0 {
		lead = *p.LeadTimeDays
	}
	orderingCost := uc.settings.OrderingCost
	if p.OrderingCost != nil && !p.OrderingCost.IsNegative() {
		orderingCost = p.OrderingCost.InexactFloat64()
	}
	rate := uc.settings.HoldingCostRate
	if p.HoldingCostRate != nil && p.HoldingCostRate.IsPositive() {
		rate = p.HoldingCostRate.InexactFloat64()
	}
	holding := 1.0
	if p.UnitPrice.IsPositive() {
		holding = rate * p.UnitPrice.InexactFloat64()
	}
	return reorder.ReorderParams{
		LeadTimeDays:       lead,
		OrderingCost:       orderingCost,
		HoldingCostPerUnit: holding,
		ServiceLevel:       uc.settings.ServiceLevel,
		MinReorderQuantity: p.ReorderQuantity,
	}
}

// holdDecimal evita arrastrar floats a la salida monetaria.
func holdDecimal(qty int64, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(qty)).Round(2)
}
