// Package inventory contiene los cálculos puros del motor de reorden:
// serie de demanda diaria, stock de seguridad, punto de reorden y EOQ.
// No accede a repositorios; el caso de uso le entrega el historial.
package inventory

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// zScores nivel de servicio -> z de la normal estándar.
var zScores = map[float64]float64{
	0.50: 0.00,
	0.80: 0.84,
	0.85: 1.04,
	0.90: 1.28,
	0.95: 1.65,
	0.97: 1.88,
	0.98: 2.05,
	0.99: 2.33,
}

// DefaultZScore z para un nivel de servicio del 95%.
const DefaultZScore = 1.65

// ZScore devuelve el z del nivel de servicio, interpolando linealmente entre
// los puntos de la tabla. Fuera de [0.50, 0.99] se acota al extremo.
func ZScore(serviceLevel float64) float64 {
	if z, ok := zScores[serviceLevel]; ok {
		return z
	}
	levels := make([]float64, 0, len(zScores))
	for l := range zScores {
		levels = append(levels, l)
	}
	sort.Float64s(levels)

	if serviceLevel < levels[0] {
		return zScores[levels[0]]
	}
	if serviceLevel > levels[len(levels)-1] {
		return zScores[levels[len(levels)-1]]
	}
	for i := 0; i < len(levels)-1; i++ {
		lo, hi := levels[i], levels[i+1]
		if lo <= serviceLevel && serviceLevel <= hi {
			ratio := (serviceLevel - lo) / (hi - lo)
			return zScores[lo] + ratio*(zScores[hi]-zScores[lo])
		}
	}
	return DefaultZScore
}

// SafetyStock = ceil(z · σ · √L), nunca negativo.
func SafetyStock(z, stdDev float64, leadTimeDays int) int64 {
	if leadTimeDays <= 0 {
		return 0
	}
	ss := z * stdDev * math.Sqrt(float64(leadTimeDays))
	if ss <= 0 {
		return 0
	}
	return int64(math.Ceil(ss))
}

// ReorderPoint = ceil(μ · L + safetyStock).
func ReorderPoint(avgDaily float64, leadTimeDays int, safetyStock int64) int64 {
	return int64(math.Ceil(avgDaily*float64(leadTimeDays) + float64(safetyStock)))
}

// EOQ fórmula de Wilson √(2DS/H), redondeada hacia arriba y como mínimo 1.
// Sin demanda o sin costo de mantenimiento devuelve 1.
func EOQ(annualDemand, orderingCost, holdingCostPerUnit float64) int64 {
	if holdingCostPerUnit <= 0 || annualDemand <= 0 {
		return 1
	}
	q := math.Sqrt(2 * annualDemand * orderingCost / holdingCostPerUnit)
	return max(1, int64(math.Ceil(q)))
}

// AnnualSavings compara pedir una vez al mes contra pedir el EOQ.
// Costo = pedidos/año · S + lote/2 · H. Nunca negativo, redondeado a 2 decimales.
func AnnualSavings(annualDemand, orderingCost, holdingCostPerUnit float64, eoq int64) decimal.Decimal {
	if eoq <= 0 {
		eoq = 1
	}
	monthlyQty := annualDemand / 12
	baseline := 12*orderingCost + monthlyQty/2*holdingCostPerUnit
	optimized := annualDemand/float64(eoq)*orderingCost + float64(eoq)/2*holdingCostPerUnit
	savings := baseline - optimized
	if savings < 0 {
		savings = 0
	}
	return decimal.NewFromFloat(savings).Round(2)
}

// ReorderParams insumos de costo y servicio de un producto, ya resueltos
// (override del producto o valor configurado).
type ReorderParams struct {
	LeadTimeDays       int
	OrderingCost       float64
	HoldingCostPerUnit float64
	ServiceLevel       float64
	MinReorderQuantity int64 // ReorderQuantity del producto; 0 = sin piso
}

// Suggestion resultado del motor de reorden.
type Suggestion struct {
	ReorderPoint           int64
	ReorderQuantity        int64
	SafetyStock            int64
	EconomicOrderQuantity  int64
	EstimatedAnnualSavings decimal.Decimal
	AverageDailyDemand     float64
	DemandStdDev           float64
}

// Optimize calcula la sugerencia completa a partir de las estadísticas de demanda.
// Es determinista: mismas estadísticas y parámetros producen el mismo resultado.
func Optimize(stats DemandStats, p ReorderParams) Suggestion {
	annual := stats.AverageDaily * 365
	ss := SafetyStock(ZScore(p.ServiceLevel), stats.StdDev, p.LeadTimeDays)
	eoq := EOQ(annual, p.OrderingCost, p.HoldingCostPerUnit)
	return Suggestion{
		ReorderPoint:           ReorderPoint(stats.AverageDaily, p.LeadTimeDays, ss),
		ReorderQuantity:        max(eoq, p.MinReorderQuantity),
		SafetyStock:            ss,
		EconomicOrderQuantity:  eoq,
		EstimatedAnnualSavings: AnnualSavings(annual, p.OrderingCost, p.HoldingCostPerUnit, eoq),
		AverageDailyDemand:     stats.AverageDaily,
		DemandStdDev:           stats.StdDev,
	}
}
