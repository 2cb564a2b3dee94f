// Package ai cliente del servicio externo de pronóstico de demanda.
// Implementa forecast.Model para que el caso de uso lo trate igual que a los modelos locales.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"golang.org/x/time/rate"

	demand "github.com/jhoicas/inventory-core/internal/domain/forecast"
)

var _ demand.Model = (*ForecastClient)(nil)

const forecastPath = "/api/forecast/demand"

// ForecastClient adaptador HTTP del servicio de pronóstico. Las llamadas se
// limitan con un token bucket para no saturar el servicio.
type ForecastClient struct {
	baseURL    string
	limiter    *rate.Limiter
	httpClient *http.Client
}

// NewForecastClient construye el cliente. ratePerSecond <= 0 no limita.
func NewForecastClient(baseURL string, ratePerSecond float64, timeout time.Duration) *ForecastClient {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ForecastClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(limit, max(1, int(ratePerSecond))),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *ForecastClient) Name() string { return "remote" }

// ── Estructuras del protocolo ─────────────────────────────────────────────────

type historicalPoint struct {
	Date     string  `json:"date"`
	Quantity float64 `json:"quantity"`
}

type forecastRequest struct {
	ProductID      int64             `json:"product_id"`
	HistoricalData []historicalPoint `json:"historical_data"`
	PeriodsAhead   int               `json:"periods_ahead"`
}

type forecastPrediction struct {
	Date              string  `json:"date"`
	PredictedQuantity float64 `json:"predicted_quantity"`
	ConfidenceLower   float64 `json:"confidence_lower"`
	ConfidenceUpper   float64 `json:"confidence_upper"`
}

type forecastResponse struct {
	ProductID     int64                `json:"product_id"`
	Predictions   []forecastPrediction `json:"predictions"`
	ModelAccuracy *float64             `json:"model_accuracy"`
}

// Predict envía el historial y devuelve las predicciones del servicio.
func (c *ForecastClient) Predict(ctx context.Context, productID int64, history []demand.Point, periodsAhead int) (*demand.Forecast, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("forecast service: rate limit: %w", err)
	}

	payload := forecastRequest{
		ProductID:      productID,
		HistoricalData: make([]historicalPoint, len(history)),
		PeriodsAhead:   periodsAhead,
	}
	for i, p := range history {
		payload.HistoricalData[i] = historicalPoint{Date: p.Date.Format(time.DateOnly), Quantity: p.Quantity}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("forecast service: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+forecastPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("forecast service: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("forecast service: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("forecast service: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("forecast service: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast service: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out forecastResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("forecast service: deserializar respuesta: %w", err)
	}
	if len(out.Predictions) != periodsAhead {
		return nil, fmt.Errorf("forecast service: se esperaban %d predicciones, llegaron %d", periodsAhead, len(out.Predictions))
	}

	preds := make([]demand.Prediction, 0, len(out.Predictions))
	for _, p := range out.Predictions {
		d, err := time.Parse(time.DateOnly, p.Date)
		if err != nil {
			return nil, fmt.Errorf("forecast service: fecha inválida %q: %w", p.Date, err)
		}
		preds = append(preds, demand.Prediction{
			Date:              d,
			PredictedQuantity: max(0, p.PredictedQuantity),
			ConfidenceLower:   max(0, p.ConfidenceLower),
			ConfidenceUpper:   max(0, p.ConfidenceUpper),
		})
	}
	accuracy := 0.0
	if out.ModelAccuracy != nil {
		accuracy = *out.ModelAccuracy
	}
	return demand.New(productID, c.Name(), accuracy, periodsAhead, slices.Values(preds)), nil
}
