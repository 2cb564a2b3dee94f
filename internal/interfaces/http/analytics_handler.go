package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/inventory-core/internal/application/analytics"
)

// ReportHandler exportaciones para hojas de cálculo.
type ReportHandler struct {
	uc *appanalytics.StockReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *appanalytics.StockReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// StockCSV godoc
// @Summary      Exportar niveles de stock como CSV
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {string}  string  "CSV con encabezado"
// @Router       /api/reports/stock.csv [get]
func (h *ReportHandler) StockCSV(c *fiber.Ctx) error {
	// se arma en memoria para poder responder un error JSON si falla a mitad
	var buf bytes.Buffer
	if err := h.uc.WriteCSV(c.UserContext(), &buf); err != nil {
		return writeError(c, err)
	}
	name := fmt.Sprintf("stock-%s.csv", time.Now().UTC().Format("20060102"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(buf.Bytes())
}
