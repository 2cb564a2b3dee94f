package inventory

import (
	"math"
	"time"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// Day trunca t al inicio de su día UTC.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// IsDemand indica si el movimiento representa consumo: solo salidas OUT.
// Traslados y ajustes no son demanda.
func IsDemand(m *entity.StockMovement) bool {
	return m.Type == entity.MovementTypeOUT && m.Quantity < 0
}

// DailyDemand agrupa la demanda en days cubetas diarias desde from (inclusive).
// Movimientos fuera de la ventana se ignoran.
func DailyDemand(movements []*entity.StockMovement, from time.Time, days int) []float64 {
	if days <= 0 {
		return nil
	}
	start := Day(from)
	series := make([]float64, days)
	for _, m := range movements {
		if !IsDemand(m) {
			continue
		}
		idx := int(Day(m.CreatedAt).Sub(start) / (24 * time.Hour))
		if idx < 0 || idx >= days {
			continue
		}
		series[idx] += float64(-m.Quantity)
	}
	return series
}

// DemandStats media y desviación estándar poblacional de una serie diaria.
type DemandStats struct {
	AverageDaily float64
	StdDev       float64
	Days         int
	Total        float64
}

// Stats calcula las estadísticas de la serie.
func Stats(series []float64) DemandStats {
	n := len(series)
	if n == 0 {
		return DemandStats{}
	}
	var total float64
	for _, v := range series {
		total += v
	}
	mean := total / float64(n)
	var sq float64
	for _, v := range series {
		d := v - mean
		sq += d * d
	}
	return DemandStats{
		AverageDaily: mean,
		StdDev:       math.Sqrt(sq / float64(n)),
		Days:         n,
		Total:        total,
	}
}
