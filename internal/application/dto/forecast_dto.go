package dto

// ForecastPredictionDTO predicción de un día (fecha YYYY-MM-DD).
type ForecastPredictionDTO struct {
	Date              string  `json:"date"`
	PredictedQuantity float64 `json:"predictedQuantity"`
	ConfidenceLower   float64 `json:"confidenceLower"`
	ConfidenceUpper   float64 `json:"confidenceUpper"`
}

// ForecastResponse pronóstico de demanda de un producto.
type ForecastResponse struct {
	ProductID     int64                   `json:"productId"`
	Model         string                  `json:"model"`
	Predictions   []ForecastPredictionDTO `json:"predictions"`
	ModelAccuracy float64                 `json:"modelAccuracy"`
}
