package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/application/ports"
	"github.com/jhoicas/inventory-core/pkg/logger"
)

// lowStockSource lo que el monitor necesita del libro.
type lowStockSource interface {
	LowStockAlerts(ctx context.Context) ([]dto.LowStockAlertDTO, error)
}

// AlertMonitor evalúa periódicamente las alertas de stock bajo, publica el conteo
// y registra en log las llaves que pasan a estar bajas.
type AlertMonitor struct {
	source   lowStockSource
	metrics  ports.InventoryMetrics
	log      *logger.Logger
	interval time.Duration
	known    map[string]struct{}
}

// NewAlertMonitor construye el monitor. interval <= 0 deja Run sin efecto.
func NewAlertMonitor(source lowStockSource, metrics ports.InventoryMetrics, log *logger.Logger, interval time.Duration) *AlertMonitor {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AlertMonitor{
		source:   source,
		metrics:  metrics,
		log:      log.Component("alert_monitor"),
		interval: interval,
		known:    make(map[string]struct{}),
	}
}

// Run bloquea hasta que ctx termina. Un fallo de lectura se registra y se reintenta en el siguiente tick.
func (m *AlertMonitor) Run(ctx context.Context) {
	if m.interval <= 0 {
		return
	}
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check una evaluación. Devuelve las alertas nuevas respecto a la evaluación anterior.
func (m *AlertMonitor) Check(ctx context.Context) []dto.LowStockAlertDTO {
	alerts, err := m.source.LowStockAlerts(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("no se pudieron evaluar las alertas de stock bajo")
		return nil
	}
	m.metrics.LowStockLevels(len(alerts))

	current := make(map[string]struct{}, len(alerts))
	var fresh []dto.LowStockAlertDTO
	for _, a := range alerts {
		k := keyString(a.ProductID, a.WarehouseID)
		current[k] = struct{}{}
		if _, seen := m.known[k]; seen {
			continue
		}
		fresh = append(fresh, a)
		m.log.Warn().
			Int64("product_id", a.ProductID).
			Str("sku", a.SKU).
			Int64("warehouse_id", a.WarehouseID).
			Int64("quantity", a.CurrentQuantity).
			Int64("min_quantity", a.MinQuantity).
			Msg("stock bajo")
	}
	m.known = current
	return fresh
}
