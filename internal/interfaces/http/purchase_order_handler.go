package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/application/purchasing"
	"github.com/jhoicas/inventory-core/internal/domain"
)

// PurchaseOrderHandler ciclo de vida de órdenes de compra.
type PurchaseOrderHandler struct {
	uc *purchasing.PurchaseOrderUseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *purchasing.PurchaseOrderUseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de compra (DRAFT)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "Proveedor, bodega e ítems"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse  "VALIDATION | EMPTY_ORDER"
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, domain.InvalidArgument("cuerpo inválido: %v", err))
	}
	// sin ítems es EMPTY_ORDER, no un error genérico de validación
	if len(in.Items) == 0 {
		return writeError(c, domain.ErrEmptyOrder)
	}
	if err := validateStruct(&in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateFromRequest(c.UserContext(), GetUsername(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *PurchaseOrderHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "DRAFT | SUBMITTED | APPROVED | RECEIVED | CANCELLED"
// @Success      200  {object}  dto.Page[dto.PurchaseOrderResponse]
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	var f dto.OrderListRequest
	if err := c.QueryParser(&f); err != nil {
		return writeError(c, domain.InvalidArgument("filtros inválidos"))
	}
	page, err := pageRequest(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), f.Status, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *PurchaseOrderHandler) Submit(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Submit)
}

func (h *PurchaseOrderHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Approve)
}

func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Cancel)
}

// Receive godoc
// @Summary      Recibir mercancía de una orden APPROVED
// @Description  Sin body se recibe el saldo pendiente de cada ítem.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                      true   "ID de la orden"
// @Param        body  body  dto.ReceiveOrderRequest  false  "Cantidades recibidas por producto"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse  "INVALID_STATE_TRANSITION"
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in *dto.ReceiveOrderRequest
	if len(c.Body()) > 0 {
		in = &dto.ReceiveOrderRequest{}
		if err := parseBody(c, in); err != nil {
			return writeError(c, err)
		}
	}
	out, err := h.uc.ReceiveFromRequest(c.UserContext(), GetUsername(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PDF documento imprimible de la orden.
// @Produce      application/pdf
// @Router       /api/purchase-orders/{id}/pdf [get]
func (h *PurchaseOrderHandler) PDF(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	data, filename, err := h.uc.PDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.Send(data)
}

type orderAction func(ctx context.Context, actor string, id int64) (*dto.PurchaseOrderResponse, error)

func (h *PurchaseOrderHandler) transition(c *fiber.Ctx, action orderAction) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := action(c.UserContext(), GetUsername(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
