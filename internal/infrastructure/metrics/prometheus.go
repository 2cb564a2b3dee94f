// Package metrics implementa ports.InventoryMetrics con Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/inventory-core/internal/application/ports"
)

var _ ports.InventoryMetrics = (*Prometheus)(nil)

// Prometheus contadores del núcleo de inventario registrados en reg.
type Prometheus struct {
	movements      *prometheus.CounterVec
	movementUnits  *prometheus.CounterVec
	rejections     *prometheus.CounterVec
	orderActions   *prometheus.CounterVec
	lowStock       prometheus.Gauge
	forecastTiming *prometheus.HistogramVec
}

// NewPrometheus registra las métricas en reg. En main se pasa prometheus.DefaultRegisterer;
// en tests un prometheus.NewRegistry().
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		movements: f.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_stock_movements_total",
			Help: "Movimientos de stock confirmados por tipo",
		}, []string{"type"}),
		movementUnits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_stock_movement_units_total",
			Help: "Unidades movidas (valor absoluto) por tipo",
		}, []string{"type"}),
		rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_stock_rejections_total",
			Help: "Operaciones de stock rechazadas por motivo",
		}, []string{"reason"}),
		orderActions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_purchase_order_actions_total",
			Help: "Acciones sobre órdenes de compra por resultado",
		}, []string{"action", "result"}),
		lowStock: f.NewGauge(prometheus.GaugeOpts{
			Name: "inventory_low_stock_levels",
			Help: "Niveles en o bajo su mínimo en el último chequeo",
		}),
		forecastTiming: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inventory_forecast_duration_seconds",
			Help:    "Latencia de pronósticos por modelo y resultado",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"model", "result"}),
	}
}

func (p *Prometheus) MovementRecorded(movementType string, qty int64) {
	p.movements.WithLabelValues(movementType).Inc()
	p.movementUnits.WithLabelValues(movementType).Add(float64(qty))
}

func (p *Prometheus) StockRejected(reason string) {
	p.rejections.WithLabelValues(reason).Inc()
}

func (p *Prometheus) OrderTransition(action, result string) {
	p.orderActions.WithLabelValues(action, result).Inc()
}

func (p *Prometheus) LowStockLevels(n int) {
	p.lowStock.Set(float64(n))
}

func (p *Prometheus) ForecastServed(model string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.forecastTiming.WithLabelValues(model, result).Observe(d.Seconds())
}
