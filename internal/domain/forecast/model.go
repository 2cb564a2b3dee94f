// Package forecast define el contrato del servicio de pronóstico de demanda y
// los modelos locales. Cualquier modelo (local o remoto) implementa Model.
package forecast

import (
	"context"
	"iter"
	"math"
	"sync/atomic"
	"time"

	"github.com/jhoicas/inventory-core/internal/domain"
)

const (
	DefaultHorizon = 30
	MaxHorizon     = 365

	confidenceZ     = 1.96
	uncertaintyStep = 0.02
)

// Point demanda observada en un día.
type Point struct {
	Date     time.Time
	Quantity float64
}

// Prediction demanda esperada para un día con su intervalo de confianza.
type Prediction struct {
	Date              time.Time
	PredictedQuantity float64
	ConfidenceLower   float64
	ConfidenceUpper   float64
}

// Model modelo de pronóstico intercambiable. history viene ordenado por fecha,
// denso (un punto por día) y no vacío.
type Model interface {
	Name() string
	Predict(ctx context.Context, productID int64, history []Point, periodsAhead int) (*Forecast, error)
}

// Forecast resultado de un modelo. Las predicciones se generan bajo demanda y
// la secuencia solo puede recorrerse una vez.
type Forecast struct {
	ProductID     int64
	Model         string
	ModelAccuracy float64
	PeriodsAhead  int

	seq  iter.Seq[Prediction]
	used atomic.Bool
}

// New construye un Forecast; accuracy se acota a [0,1].
func New(productID int64, model string, accuracy float64, periodsAhead int, seq iter.Seq[Prediction]) *Forecast {
	return &Forecast{
		ProductID:     productID,
		Model:         model,
		ModelAccuracy: clamp01(accuracy),
		PeriodsAhead:  periodsAhead,
		seq:           seq,
	}
}

// Predictions devuelve la secuencia. El segundo recorrido no produce elementos.
func (f *Forecast) Predictions() iter.Seq[Prediction] {
	return func(yield func(Prediction) bool) {
		if f.used.Swap(true) {
			return
		}
		f.seq(yield)
	}
}

// Collect consume la secuencia completa.
func (f *Forecast) Collect() []Prediction {
	out := make([]Prediction, 0, f.PeriodsAhead)
	for p := range f.Predictions() {
		out = append(out, p)
	}
	return out
}

// ValidateHorizon aplica el default (0 -> 30) y el rango 1..365.
func ValidateHorizon(periodsAhead int) (int, error) {
	if periodsAhead == 0 {
		return DefaultHorizon, nil
	}
	if periodsAhead < 1 || periodsAhead > MaxHorizon {
		return 0, domain.InvalidArgument("periodsAhead debe estar entre 1 y %d", MaxHorizon)
	}
	return periodsAhead, nil
}

// newPrediction aplica piso 0 al valor y construye el intervalo del paso i (base 0):
// margen = 1.96 · σ_residual · (1 + 0.02·i).
func newPrediction(date time.Time, value, residualStd float64, i int) Prediction {
	value = math.Max(0, value)
	margin := residualStd * confidenceZ * (1 + uncertaintyStep*float64(i))
	return Prediction{
		Date:              date,
		PredictedQuantity: round2(value),
		ConfidenceLower:   round2(math.Max(0, value-margin)),
		ConfidenceUpper:   round2(value + margin),
	}
}

// rSquared coeficiente de determinación de fitted contra actual.
// Serie constante bien ajustada = 1; serie constante mal ajustada = 0.
func rSquared(actual, fitted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(fitted) {
		return 0
	}
	var mean float64
	for _, v := range actual {
		mean += v
	}
	mean /= float64(len(actual))
	var ssRes, ssTot float64
	for i, v := range actual {
		ssRes += (v - fitted[i]) * (v - fitted[i])
		ssTot += (v - mean) * (v - mean)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return clamp01(1 - ssRes/ssTot)
}

func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(values)))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func quantities(history []Point) []float64 {
	out := make([]float64, len(history))
	for i, p := range history {
		out[i] = p.Quantity
	}
	return out
}

// steps genera las fechas futuras a partir del último punto observado.
func steps(last time.Time, periodsAhead int, value func(h int) float64, residualStd float64) iter.Seq[Prediction] {
	return func(yield func(Prediction) bool) {
		for i := 0; i < periodsAhead; i++ {
			p := newPrediction(last.AddDate(0, 0, i+1), value(i+1), residualStd, i)
			if !yield(p) {
				return
			}
		}
	}
}
