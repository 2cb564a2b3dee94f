package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/application/inventory"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// InventoryHandler expone el libro de stock: niveles, ajustes, traslados y movimientos.
type InventoryHandler struct {
	ledger *inventory.StockLedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.StockLedgerUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// Adjust godoc
// @Summary      Registrar ajuste de stock (IN, OUT o ADJUSTMENT)
// @Description  quantity es con signo: IN > 0, OUT < 0, ADJUSTMENT cualquiera distinto de 0.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustmentRequest  true  "Ajuste"
// @Success      200   {object}  dto.StockLevelResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/stock/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.StockAdjustmentRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.AdjustFromRequest(c.UserContext(), GetUsername(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Transfer godoc
// @Summary      Trasladar stock entre bodegas
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockTransferRequest  true  "Traslado"
// @Success      200   {object}  dto.StockTransferResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Router       /api/stock/transfer [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.StockTransferRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.TransferFromRequest(c.UserContext(), GetUsername(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetThresholds fija mínimo y máximo de un nivel.
// @Router       /api/stock/thresholds [put]
func (h *InventoryHandler) SetThresholds(c *fiber.Ctx) error {
	var in dto.StockThresholdsRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.SetThresholdsFromRequest(c.UserContext(), GetUsername(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *InventoryHandler) All(c *fiber.Ctx) error {
	out, err := h.ledger.AllLevels(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *InventoryHandler) ByProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "productId")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.LevelsForProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *InventoryHandler) ByProductAndWarehouse(c *fiber.Ctx) error {
	pid, err := paramID(c, "productId")
	if err != nil {
		return writeError(c, err)
	}
	wid, err := paramID(c, "warehouseId")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.Level(c.UserContext(), pid, wid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Alerts niveles en o bajo su mínimo.
// @Router       /api/stock/alerts [get]
func (h *InventoryHandler) Alerts(c *fiber.Ctx) error {
	out, err := h.ledger.LowStockAlerts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Libro de movimientos (más reciente primero)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId    query  int     false  "Producto"
// @Param        warehouseId  query  int     false  "Bodega"
// @Param        type         query  string  false  "IN | OUT | TRANSFER | ADJUSTMENT"
// @Param        from         query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to           query  string  false  "Hasta, exclusivo"
// @Success      200  {object}  dto.Page[dto.StockMovementResponse]
// @Router       /api/stock/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	var f dto.MovementListRequest
	if err := c.QueryParser(&f); err != nil {
		return writeError(c, domain.InvalidArgument("filtros inválidos"))
	}
	page, err := pageRequest(c)
	if err != nil {
		return writeError(c, err)
	}
	from, err := parseInstant("from", f.From)
	if err != nil {
		return writeError(c, err)
	}
	to, err := parseInstant("to", f.To)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.Movements(c.UserContext(), inventory.MovementQuery{
		ProductID:   f.ProductID,
		WarehouseID: f.WarehouseID,
		Type:        entity.MovementType(strings.ToUpper(strings.TrimSpace(f.Type))),
		From:        from,
		To:          to,
	}, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// parseInstant acepta RFC3339 o una fecha sola (medianoche UTC).
func parseInstant(name, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return &t, nil
	}
	return nil, domain.InvalidArgument("%s debe ser ISO-8601: %q", name, raw)
}
