// Package ports define los puertos de salida de la capa de aplicación que no son repositorios:
// métricas, registro de pronósticos y generación de documentos.
package ports

import "time"

// InventoryMetrics contadores y medidores del núcleo de inventario.
// Las implementaciones deben ser seguras para uso concurrente.
type InventoryMetrics interface {
	// MovementRecorded un movimiento confirmado; qty es el valor absoluto del delta.
	MovementRecorded(movementType string, qty int64)
	// StockRejected una operación rechazada (insufficient_stock, invalid_argument, unknown_reference...).
	StockRejected(reason string)
	// OrderTransition resultado de una acción sobre una orden (ok, rejected, error).
	OrderTransition(action, result string)
	// LowStockLevels número actual de niveles en o bajo su mínimo.
	LowStockLevels(n int)
	// ForecastServed latencia de un pronóstico por modelo.
	ForecastServed(model string, d time.Duration, err error)
}

// NopMetrics descarta todo. Útil en tests y cuando no hay registro de métricas.
type NopMetrics struct{}

func (NopMetrics) MovementRecorded(string, int64)                {}
func (NopMetrics) StockRejected(string)                          {}
func (NopMetrics) OrderTransition(string, string)                {}
func (NopMetrics) LowStockLevels(int)                            {}
func (NopMetrics) ForecastServed(string, time.Duration, error) {}
