package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/inventory-core/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve las tarjetas del dashboard.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (totalProducts, totalWarehouses, lowStockCount,
// pendingOrdersCount). Los pendientes son órdenes en SUBMITTED o APPROVED.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// GetStockValue valor del inventario por bodega.
// GET /api/dashboard/stock-value
func (h *DashboardHandler) GetStockValue(c *fiber.Ctx) error {
	out, err := h.uc.GetStockValue(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetTopProducts productos con más movimiento en 30 días.
// GET /api/dashboard/top-products?limit=10
func (h *DashboardHandler) GetTopProducts(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetTopProducts(c.UserContext(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetTrends entradas y salidas por día.
// GET /api/dashboard/trends?days=30
func (h *DashboardHandler) GetTrends(c *fiber.Ctx) error {
	days, err := queryInt(c, "days", 0)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetTrends(c.UserContext(), days)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
