package forecast

import (
	"context"

	"github.com/jhoicas/inventory-core/internal/domain"
)

// ExponentialSmoothing suavizado exponencial doble (Holt): nivel + tendencia lineal.
type ExponentialSmoothing struct {
	Alpha float64 // suavizado del nivel
	Beta  float64 // suavizado de la tendencia
}

// NewExponentialSmoothing α=0.3, β=0.1 cuando se pasan valores fuera de (0,1].
func NewExponentialSmoothing(alpha, beta float64) *ExponentialSmoothing {
	if alpha <= 0 || alpha > 1 {
		alpha = 0.3
	}
	if beta <= 0 || beta > 1 {
		beta = 0.1
	}
	return &ExponentialSmoothing{Alpha: alpha, Beta: beta}
}

func (m *ExponentialSmoothing) Name() string { return "exponential_smoothing" }

func (m *ExponentialSmoothing) Predict(_ context.Context, productID int64, history []Point, periodsAhead int) (*Forecast, error) {
	if len(history) < 2 {
		return nil, domain.ErrInsufficientHistory
	}
	y := quantities(history)

	level := y[0]
	trend := y[1] - y[0]
	actual := make([]float64, 0, len(y)-1)
	fitted := make([]float64, 0, len(y)-1)
	residuals := make([]float64, 0, len(y)-1)
	for t := 1; t < len(y); t++ {
		f := level + trend
		actual = append(actual, y[t])
		fitted = append(fitted, f)
		residuals = append(residuals, y[t]-f)

		prev := level
		level = m.Alpha*y[t] + (1-m.Alpha)*(level+trend)
		trend = m.Beta*(level-prev) + (1-m.Beta)*trend
	}

	last := history[len(history)-1].Date
	l, b := level, trend
	seq := steps(last, periodsAhead, func(h int) float64 { return l + float64(h)*b }, stdDev(residuals))
	return New(productID, m.Name(), rSquared(actual, fitted), periodsAhead, seq), nil
}
