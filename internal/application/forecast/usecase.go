// Package forecast expone el pronóstico de demanda por producto sobre el historial de salidas del libro.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/application/ports"
	"github.com/jhoicas/inventory-core/internal/domain"
	demand "github.com/jhoicas/inventory-core/internal/domain/forecast"
	"github.com/jhoicas/inventory-core/internal/domain/inventory"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
	"github.com/jhoicas/inventory-core/pkg/logger"
)

var tracer = otel.Tracer("inventory-core.forecast")

// Nombres de modelo aceptados en configuración.
const (
	ModelMovingAverage        = "moving_average"
	ModelExponentialSmoothing = "exponential_smoothing"
	ModelRemote               = "remote"
)

// Settings ventana de historial y mínimo de días con demanda.
type Settings struct {
	WindowDays int
	MinPoints  int
}

// SelectModel resuelve el modelo configurado. El remoto siempre queda envuelto en un
// respaldo de media móvil; remote puede ser nil solo si name no es "remote".
func SelectModel(name string, remote demand.Model, log *logger.Logger) (demand.Model, error) {
	switch name {
	case "", ModelMovingAverage:
		return demand.NewMovingAverage(7), nil
	case ModelExponentialSmoothing:
		return demand.NewExponentialSmoothing(0.3, 0.1), nil
	case ModelRemote:
		if remote == nil {
			return nil, fmt.Errorf("forecast: modelo remoto sin URL de servicio")
		}
		if log == nil {
			log = logger.Nop()
		}
		return &demand.Fallback{
			Primary:   remote,
			Secondary: demand.NewMovingAverage(7),
			OnError: func(err error) {
				log.Warn().Err(err).Msg("modelo remoto falló, se usa media móvil")
			},
		}, nil
	default:
		return nil, fmt.Errorf("forecast: modelo desconocido %q", name)
	}
}

// ForecastUseCase sirve pronósticos y proyecta demanda diaria para la lista de reposición.
type ForecastUseCase struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	model        demand.Model
	recorder     ports.ForecastRecorder
	metrics      ports.InventoryMetrics
	log          *logger.Logger
	settings     Settings
	now          func() time.Time
}

// NewForecastUseCase recorder, metrics y log pueden ser nil.
func NewForecastUseCase(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	model demand.Model,
	recorder ports.ForecastRecorder,
	metrics ports.InventoryMetrics,
	log *logger.Logger,
	settings Settings,
) *ForecastUseCase {
	if recorder == nil {
		recorder = ports.NopForecastRecorder{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if settings.WindowDays <= 0 {
		settings.WindowDays = 180
	}
	if settings.MinPoints <= 0 {
		settings.MinPoints = 7
	}
	return &ForecastUseCase{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		model:        model,
		recorder:     recorder,
		metrics:      metrics,
		log:          log.Component("forecast"),
		settings:     settings,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Forecast pronóstico de periodsAhead días (0 = 30). Falla con ErrInsufficientHistory
// si el producto tiene menos de MinPoints días con demanda en la ventana.
func (uc *ForecastUseCase) Forecast(ctx context.Context, productID int64, periodsAhead int) (out *dto.ForecastResponse, err error) {
	ctx, span := tracer.Start(ctx, "Forecast.Predict", trace.WithAttributes(
		attribute.Int64("product.id", productID),
		attribute.Int("forecast.periods_ahead", periodsAhead),
	))
	start := time.Now()
	modelName := uc.model.Name()
	defer func() {
		uc.metrics.ForecastServed(modelName, time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	horizon, err := demand.ValidateHorizon(periodsAhead)
	if err != nil {
		return nil, err
	}
	if err := uc.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	history, err := uc.History(ctx, productID)
	if err != nil {
		return nil, err
	}
	fc, err := uc.model.Predict(ctx, productID, history, horizon)
	if err != nil {
		return nil, err
	}
	modelName = fc.Model
	span.SetAttributes(attribute.String("forecast.model", fc.Model))

	points := make([]ports.ForecastPoint, 0, horizon)
	preds := make([]dto.ForecastPredictionDTO, 0, horizon)
	for p := range fc.Predictions() {
		points = append(points, ports.ForecastPoint{
			Date: p.Date, Predicted: p.PredictedQuantity, Lower: p.ConfidenceLower, Upper: p.ConfidenceUpper,
		})
		preds = append(preds, dto.ForecastPredictionDTO{
			Date:              p.Date.Format(time.DateOnly),
			PredictedQuantity: p.PredictedQuantity,
			ConfidenceLower:   p.ConfidenceLower,
			ConfidenceUpper:   p.ConfidenceUpper,
		})
	}

	if rerr := uc.recorder.Record(ctx, productID, fc.Model, fc.ModelAccuracy, points); rerr != nil {
		uc.log.Warn().Err(rerr).Int64("product_id", productID).Msg("no se pudo registrar el pronóstico")
	}

	return &dto.ForecastResponse{
		ProductID:     productID,
		Model:         fc.Model,
		Predictions:   preds,
		ModelAccuracy: fc.ModelAccuracy,
	}, nil
}

// ProjectDailyDemand demanda diaria media esperada en los próximos days días.
// ok=false cuando no hay historial suficiente; el llamador decide el respaldo.
func (uc *ForecastUseCase) ProjectDailyDemand(ctx context.Context, productID int64, days int) (float64, bool, error) {
	if days <= 0 {
		days = demand.DefaultHorizon
	}
	days = min(days, demand.MaxHorizon)
	history, err := uc.History(ctx, productID)
	if errors.Is(err, domain.ErrInsufficientHistory) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	fc, err := uc.model.Predict(ctx, productID, history, days)
	if errors.Is(err, domain.ErrInsufficientHistory) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	var total float64
	n := 0
	for p := range fc.Predictions() {
		total += p.PredictedQuantity
		n++
	}
	if n == 0 {
		return 0, false, nil
	}
	return total / float64(n), true, nil
}

// History serie diaria densa de demanda desde el primer día con salidas hasta ayer (UTC).
func (uc *ForecastUseCase) History(ctx context.Context, productID int64) ([]demand.Point, error) {
	to := inventory.Day(uc.now())
	from := to.AddDate(0, 0, -uc.settings.WindowDays)
	movs, err := uc.movementRepo.ListByProduct(ctx, productID, from, to)
	if err != nil {
		return nil, err
	}
	series := inventory.DailyDemand(movs, from, uc.settings.WindowDays)

	first, nonZero := -1, 0
	for i, v := range series {
		if v == 0 {
			continue
		}
		if first < 0 {
			first = i
		}
		nonZero++
	}
	if nonZero < uc.settings.MinPoints {
		return nil, fmt.Errorf("%w: producto %d tiene %d días con demanda, se requieren %d",
			domain.ErrInsufficientHistory, productID, nonZero, uc.settings.MinPoints)
	}

	out := make([]demand.Point, 0, len(series)-first)
	for i := first; i < len(series); i++ {
		out = append(out, demand.Point{Date: from.AddDate(0, 0, i), Quantity: series[i]})
	}
	return out, nil
}

func (uc *ForecastUseCase) requireProduct(ctx context.Context, productID int64) error {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.UnknownReference("producto", productID)
	}
	return nil
}
