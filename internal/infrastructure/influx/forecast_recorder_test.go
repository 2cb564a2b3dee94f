package influx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-core/internal/application/ports"
)

func TestBuildPoints_UnPuntoPorDia(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	pts := buildPoints(42, "moving_average", 0.8, day, []ports.ForecastPoint{
		{Date: day, Predicted: 3, Lower: 1, Upper: 5},
		{Date: day.AddDate(0, 0, 1), Predicted: 3.5, Lower: 1.2, Upper: 5.8},
	})
	require.Len(t, pts, 2)

	assert.Equal(t, Measurement, pts[0].Name())
	assert.Equal(t, day.AddDate(0, 0, 1), pts[1].Time())

	tags := map[string]string{}
	for _, tg := range pts[0].TagList() {
		tags[tg.Key] = tg.Value
	}
	assert.Equal(t, "42", tags["product_id"])
	assert.Equal(t, "moving_average", tags["model"])

	fields := map[string]any{}
	for _, f := range pts[1].FieldList() {
		fields[f.Key] = f.Value
	}
	assert.Equal(t, 3.5, fields["predicted"])
	assert.Equal(t, int64(2), fields["horizon"])
}
