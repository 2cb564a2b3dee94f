package forecast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-core/internal/domain"
)

func series(start time.Time, values ...float64) []Point {
	out := make([]Point, len(values))
	for i, v := range values {
		out[i] = Point{Date: start.AddDate(0, 0, i), Quantity: v}
	}
	return out
}

var day0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestValidateHorizon(t *testing.T) {
	h, err := ValidateHorizon(0)
	require.NoError(t, err)
	assert.Equal(t, 30, h)

	h, err = ValidateHorizon(365)
	require.NoError(t, err)
	assert.Equal(t, 365, h)

	_, err = ValidateHorizon(366)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = ValidateHorizon(-1)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestMovingAverage_SerieConstante(t *testing.T) {
	hist := series(day0, 4, 4, 4, 4, 4, 4, 4, 4)
	fc, err := NewMovingAverage(7).Predict(context.Background(), 1, hist, 3)
	require.NoError(t, err)

	assert.Equal(t, "moving_average", fc.Model)
	assert.InDelta(t, 1.0, fc.ModelAccuracy, 1e-9)

	preds := fc.Collect()
	require.Len(t, preds, 3)
	for i, p := range preds {
		assert.Equal(t, day0.AddDate(0, 0, 8+i), p.Date)
		assert.InDelta(t, 4.0, p.PredictedQuantity, 1e-9)
		assert.InDelta(t, 4.0, p.ConfidenceLower, 1e-9)
		assert.InDelta(t, 4.0, p.ConfidenceUpper, 1e-9)
	}
}

func TestForecast_SecuenciaDeUnSoloUso(t *testing.T) {
	fc, err := NewMovingAverage(3).Predict(context.Background(), 1, series(day0, 1, 2, 3, 4, 5, 6, 7), 5)
	require.NoError(t, err)

	assert.Len(t, fc.Collect(), 5)
	assert.Empty(t, fc.Collect(), "el segundo recorrido no debe producir predicciones")
}

func TestForecast_SecuenciaPerezosa(t *testing.T) {
	fc, err := NewMovingAverage(3).Predict(context.Background(), 1, series(day0, 1, 2, 3, 4, 5, 6, 7), 365)
	require.NoError(t, err)

	n := 0
	for range fc.Predictions() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestBandas_CrecenYNuncaNegativas(t *testing.T) {
	hist := series(day0, 0, 10, 0, 10, 0, 10, 0, 10, 0, 10)
	fc, err := NewMovingAverage(2).Predict(context.Background(), 1, hist, 10)
	require.NoError(t, err)

	preds := fc.Collect()
	for i, p := range preds {
		assert.GreaterOrEqual(t, p.ConfidenceLower, 0.0)
		assert.GreaterOrEqual(t, p.PredictedQuantity, 0.0)
		assert.LessOrEqual(t, p.ConfidenceLower, p.PredictedQuantity)
		assert.GreaterOrEqual(t, p.ConfidenceUpper, p.PredictedQuantity)
		if i > 0 {
			assert.GreaterOrEqual(t, p.ConfidenceUpper-p.PredictedQuantity, preds[i-1].ConfidenceUpper-preds[i-1].PredictedQuantity)
		}
	}
	assert.GreaterOrEqual(t, fc.ModelAccuracy, 0.0)
	assert.LessOrEqual(t, fc.ModelAccuracy, 1.0)
}

func TestNewPrediction_Margen(t *testing.T) {
	p := newPrediction(day0, 10, 2, 5)
	// margen = 2·1.96·1.1 = 4.312
	assert.InDelta(t, 10.0, p.PredictedQuantity, 1e-9)
	assert.InDelta(t, 5.69, p.ConfidenceLower, 1e-9)
	assert.InDelta(t, 14.31, p.ConfidenceUpper, 1e-9)

	neg := newPrediction(day0, -3, 1, 0)
	assert.Zero(t, neg.PredictedQuantity)
	assert.Zero(t, neg.ConfidenceLower)
}

func TestExponentialSmoothing_SigueTendencia(t *testing.T) {
	hist := series(day0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	fc, err := NewExponentialSmoothing(0, 0).Predict(context.Background(), 7, hist, 3)
	require.NoError(t, err)

	assert.Equal(t, int64(7), fc.ProductID)
	assert.InDelta(t, 1.0, fc.ModelAccuracy, 1e-9)
	preds := fc.Collect()
	assert.InDelta(t, 11.0, preds[0].PredictedQuantity, 1e-9)
	assert.InDelta(t, 13.0, preds[2].PredictedQuantity, 1e-9)
}

func TestModelos_HistorialMinimo(t *testing.T) {
	for _, m := range []Model{NewMovingAverage(7), NewExponentialSmoothing(0.3, 0.1)} {
		_, err := m.Predict(context.Background(), 1, series(day0, 5), 3)
		assert.ErrorIs(t, err, domain.ErrInsufficientHistory, m.Name())
	}
}

type failingModel struct{ err error }

func (f failingModel) Name() string { return "remote" }
func (f failingModel) Predict(context.Context, int64, []Point, int) (*Forecast, error) {
	return nil, f.err
}

func TestFallback(t *testing.T) {
	var seen error
	fb := &Fallback{
		Primary:   failingModel{err: errors.New("timeout")},
		Secondary: NewMovingAverage(3),
		OnError:   func(err error) { seen = err },
	}
	fc, err := fb.Predict(context.Background(), 1, series(day0, 1, 1, 1, 1), 2)
	require.NoError(t, err)
	assert.Equal(t, "moving_average", fc.Model)
	assert.EqualError(t, seen, "timeout")

	fb.Primary = failingModel{err: domain.ErrInsufficientHistory}
	_, err = fb.Predict(context.Background(), 1, series(day0, 1, 1, 1, 1), 2)
	assert.ErrorIs(t, err, domain.ErrInsufficientHistory)
}
