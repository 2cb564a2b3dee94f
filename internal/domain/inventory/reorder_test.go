package inventory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

func TestZScore_TablaEInterpolacion(t *testing.T) {
	assert.InDelta(t, 1.65, ZScore(0.95), 1e-9)
	assert.InDelta(t, 2.33, ZScore(0.99), 1e-9)
	assert.InDelta(t, 0.0, ZScore(0.50), 1e-9)
	// a mitad de camino entre 0.95 (1.65) y 0.97 (1.88)
	assert.InDelta(t, 1.765, ZScore(0.96), 1e-9)
	// fuera de rango se acota
	assert.InDelta(t, 2.33, ZScore(0.999), 1e-9)
	assert.InDelta(t, 0.0, ZScore(0.1), 1e-9)
}

func TestSafetyStock(t *testing.T) {
	// 1.65 · 2 · √4 = 6.6 -> 7
	assert.Equal(t, int64(7), SafetyStock(1.65, 2, 4))
	assert.Equal(t, int64(0), SafetyStock(1.65, 0, 7))
	assert.Equal(t, int64(0), SafetyStock(1.65, 3, 0))
}

func TestReorderPoint(t *testing.T) {
	assert.Equal(t, int64(21), ReorderPoint(2, 7, 7))
	assert.Equal(t, int64(4), ReorderPoint(0.5, 7, 0))
}

func TestEOQ(t *testing.T) {
	// √(2·1000·50/4) = √25000 = 158.11 -> 159
	assert.Equal(t, int64(159), EOQ(1000, 50, 4))
	assert.Equal(t, int64(1), EOQ(0, 50, 4))
	assert.Equal(t, int64(1), EOQ(1000, 50, 0))
}

func TestAnnualSavings(t *testing.T) {
	// D=1200, S=50, H=2, EOQ=245
	// base = 600 + 50·2 = 700 ; opt = 1200/245·50 + 122.5·2 = 244.897... + 245 = 489.897...
	got := AnnualSavings(1200, 50, 2, 245)
	assert.True(t, decimal.RequireFromString("210.10").Equal(got), got.String())

	// nunca negativo
	assert.True(t, AnnualSavings(1, 50, 2, 1000).IsZero())
}

func TestOptimize_DeterministaYPisoDeCantidad(t *testing.T) {
	stats := DemandStats{AverageDaily: 2, StdDev: 1}
	p := ReorderParams{LeadTimeDays: 7, OrderingCost: 50, HoldingCostPerUnit: 2, ServiceLevel: 0.95}

	a := Optimize(stats, p)
	b := Optimize(stats, p)
	assert.Equal(t, a, b)

	// ss = ceil(1.65·1·√7)=ceil(4.365)=5 ; rp = ceil(14+5)=19
	assert.Equal(t, int64(5), a.SafetyStock)
	assert.Equal(t, int64(19), a.ReorderPoint)
	// EOQ = ceil(√(2·730·50/2)) = ceil(191.05) = 192
	assert.Equal(t, int64(192), a.EconomicOrderQuantity)
	assert.Equal(t, a.EconomicOrderQuantity, a.ReorderQuantity)

	p.MinReorderQuantity = 500
	assert.Equal(t, int64(500), Optimize(stats, p).ReorderQuantity)
}

func TestDailyDemand_SoloSalidasDentroDeVentana(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	movs := []*entity.StockMovement{
		{Type: entity.MovementTypeOUT, Quantity: -3, CreatedAt: from.Add(2 * time.Hour)},
		{Type: entity.MovementTypeOUT, Quantity: -2, CreatedAt: from.Add(23 * time.Hour)},
		{Type: entity.MovementTypeOUT, Quantity: -4, CreatedAt: from.AddDate(0, 0, 2)},
		{Type: entity.MovementTypeIN, Quantity: 50, CreatedAt: from.AddDate(0, 0, 1)},
		{Type: entity.MovementTypeTRANSFER, Quantity: -5, CreatedAt: from.AddDate(0, 0, 1)},
		{Type: entity.MovementTypeADJUSTMENT, Quantity: -1, CreatedAt: from.AddDate(0, 0, 1)},
		{Type: entity.MovementTypeOUT, Quantity: -9, CreatedAt: from.AddDate(0, 0, -1)},
		{Type: entity.MovementTypeOUT, Quantity: -9, CreatedAt: from.AddDate(0, 0, 3)},
	}

	series := DailyDemand(movs, from, 3)
	assert.Equal(t, []float64{5, 0, 4}, series)
}

func TestStats(t *testing.T) {
	s := Stats([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, s.AverageDaily, 1e-9)
	assert.InDelta(t, 2.0, s.StdDev, 1e-9)
	assert.Equal(t, 8, s.Days)
	assert.InDelta(t, 40.0, s.Total, 1e-9)

	assert.Equal(t, DemandStats{}, Stats(nil))
}
