// Package influx persiste los pronósticos servidos en InfluxDB v2.
package influx

import (
	"context"
	"fmt"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/jhoicas/inventory-core/internal/application/ports"
)

var _ ports.ForecastRecorder = (*ForecastRecorder)(nil)

// Measurement nombre de la serie donde quedan los pronósticos.
const Measurement = "demand_forecast"

// ForecastRecorder escribe un punto por día pronosticado, etiquetado por producto y modelo.
type ForecastRecorder struct {
	client influxdb2.Client
	writer api.WriteAPIBlocking
	now    func() time.Time
}

// NewForecastRecorder abre el cliente contra url con el token dado.
func NewForecastRecorder(url, token, org, bucket string) *ForecastRecorder {
	client := influxdb2.NewClient(url, token)
	return &ForecastRecorder{
		client: client,
		writer: client.WriteAPIBlocking(org, bucket),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Record escribe los puntos en un solo lote.
func (r *ForecastRecorder) Record(ctx context.Context, productID int64, model string, accuracy float64, points []ports.ForecastPoint) error {
	if len(points) == 0 {
		return nil
	}
	if err := r.writer.WritePoint(ctx, buildPoints(productID, model, accuracy, r.now(), points)...); err != nil {
		return fmt.Errorf("influx: escribir pronóstico del producto %d: %w", productID, err)
	}
	return nil
}

// Close libera el cliente HTTP.
func (r *ForecastRecorder) Close() {
	r.client.Close()
}

func buildPoints(productID int64, model string, accuracy float64, generatedAt time.Time, points []ports.ForecastPoint) []*write.Point {
	tags := map[string]string{
		"product_id": strconv.FormatInt(productID, 10),
		"model":      model,
	}
	out := make([]*write.Point, 0, len(points))
	for i, p := range points {
		out = append(out, write.NewPoint(Measurement, tags, map[string]any{
			"predicted":    p.Predicted,
			"lower":        p.Lower,
			"upper":        p.Upper,
			"accuracy":     accuracy,
			"horizon":      i + 1,
			"generated_at": generatedAt.Unix(),
		}, p.Date))
	}
	return out
}
