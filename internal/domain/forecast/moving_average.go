package forecast

import (
	"context"

	"github.com/jhoicas/inventory-core/internal/domain"
)

// MovingAverage modelo base: el pronóstico es la media de las últimas Window observaciones.
type MovingAverage struct {
	Window int
}

// NewMovingAverage ventana por defecto de 7 días.
func NewMovingAverage(window int) *MovingAverage {
	if window <= 0 {
		window = 7
	}
	return &MovingAverage{Window: window}
}

func (m *MovingAverage) Name() string { return "moving_average" }

// Predict ajusta con pronósticos a un paso sobre el historial para medir residuos y precisión.
func (m *MovingAverage) Predict(_ context.Context, productID int64, history []Point, periodsAhead int) (*Forecast, error) {
	if len(history) < 2 {
		return nil, domain.ErrInsufficientHistory
	}
	y := quantities(history)

	actual := make([]float64, 0, len(y)-1)
	fitted := make([]float64, 0, len(y)-1)
	residuals := make([]float64, 0, len(y)-1)
	for t := 1; t < len(y); t++ {
		f := mean(y[max(0, t-m.Window):t])
		actual = append(actual, y[t])
		fitted = append(fitted, f)
		residuals = append(residuals, y[t]-f)
	}

	level := mean(y[max(0, len(y)-m.Window):])
	last := history[len(history)-1].Date
	seq := steps(last, periodsAhead, func(int) float64 { return level }, stdDev(residuals))
	return New(productID, m.Name(), rSquared(actual, fitted), periodsAhead, seq), nil
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var s float64
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}
