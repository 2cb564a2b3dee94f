package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-core/internal/application/forecast"
	"github.com/jhoicas/inventory-core/internal/application/inventory"
	"github.com/jhoicas/inventory-core/internal/domain"
)

// ForecastHandler pronóstico de demanda y sugerencias de reorden.
type ForecastHandler struct {
	forecast *forecast.ForecastUseCase
	reorder  *inventory.ReorderUseCase
}

// NewForecastHandler construye el handler.
func NewForecastHandler(f *forecast.ForecastUseCase, r *inventory.ReorderUseCase) *ForecastHandler {
	return &ForecastHandler{forecast: f, reorder: r}
}

// Demand godoc
// @Summary      Pronóstico de demanda diaria
// @Tags         forecast
// @Security     Bearer
// @Produce      json
// @Param        productId     path   int  true   "Producto"
// @Param        periodsAhead  query  int  false  "Días a pronosticar (1..365)"  default(30)
// @Success      200  {object}  dto.ForecastResponse
// @Failure      422  {object}  dto.ErrorResponse  "INSUFFICIENT_HISTORY"
// @Router       /api/forecast/demand/{productId} [get]
func (h *ForecastHandler) Demand(c *fiber.Ctx) error {
	pid, err := paramID(c, "productId")
	if err != nil {
		return writeError(c, err)
	}
	periods, err := queryInt(c, "periodsAhead", 0)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.forecast.Forecast(c.UserContext(), pid, periods)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reorder godoc
// @Summary      Punto de reorden, stock de seguridad y EOQ de un producto
// @Tags         forecast
// @Security     Bearer
// @Produce      json
// @Param        productId  path  int  true  "Producto"
// @Success      200  {object}  dto.ReorderSuggestionDTO
// @Router       /api/forecast/reorder/{productId} [get]
func (h *ForecastHandler) Reorder(c *fiber.Ctx) error {
	pid, err := paramID(c, "productId")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.reorder.Suggest(c.UserContext(), pid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Replenishment lista priorizada de productos a reponer, opcionalmente por bodega.
// @Router       /api/forecast/replenishment [get]
func (h *ForecastHandler) Replenishment(c *fiber.Ctx) error {
	var warehouseID int64
	if raw := strings.TrimSpace(c.Query("warehouseId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return writeError(c, domain.InvalidArgument("warehouseId inválido: %q", raw))
		}
		warehouseID = id
	}
	out, err := h.reorder.ReplenishmentList(c.UserContext(), warehouseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
