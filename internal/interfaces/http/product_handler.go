package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/application/usecase"
	"github.com/jhoicas/inventory-core/internal/domain"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	uc     *usecase.ProductUseCase
	labels *usecase.LabelUseCase
}

// NewProductHandler construye el handler. labels sirve GET /products/:id/barcode.
func NewProductHandler(uc *usecase.ProductUseCase, labels *usecase.LabelUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, labels: labels}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetUsername(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        page        query  int     false  "Página (base 0)"  default(0)
// @Param        size        query  int     false  "Tamaño"           default(20)
// @Param        sort        query  string  false  "campo,asc|desc"
// @Param        activeOnly  query  bool    false  "Solo activos"     default(true)
// @Success      200  {object}  dto.Page[dto.ProductResponse]
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page, err := pageRequest(c)
	if err != nil {
		return writeError(c, err)
	}
	activeOnly, err := queryBool(c, "activeOnly", true)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), dto.ProductSearchRequest{}, activeOnly, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar productos por nombre, SKU o categoría
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        name        query  string  false  "Contiene (sin distinguir mayúsculas)"
// @Param        sku         query  string  false  "Contiene"
// @Param        categoryId  query  int     false  "Categoría"
// @Success      200  {object}  dto.Page[dto.ProductResponse]
// @Router       /api/products/search [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	var search dto.ProductSearchRequest
	if err := c.QueryParser(&search); err != nil {
		return writeError(c, domain.InvalidArgument("filtros de búsqueda inválidos"))
	}
	page, err := pageRequest(c)
	if err != nil {
		return writeError(c, err)
	}
	activeOnly, err := queryBool(c, "activeOnly", true)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), search, activeOnly, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                        true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateProductRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetUsername(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete desactiva el producto (borrado lógico); sus movimientos se conservan.
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Deactivate(c.UserContext(), GetUsername(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Barcode godoc
// @Summary      Etiqueta PDF con el SKU como código de barras (Code128) o QR
// @Tags         products
// @Security     Bearer
// @Produce      application/pdf
// @Param        id      path   int     true   "ID del producto"
// @Param        format  query  string  false  "barcode | qr"  default(barcode)
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/barcode [get]
func (h *ProductHandler) Barcode(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	format := c.Query("format")
	data, err := h.labels.Label(c.UserContext(), id, format)
	if err != nil {
		return writeError(c, err)
	}
	if format == "" {
		format = "barcode"
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=\"etiqueta-%d-%s.pdf\"", id, strings.ToLower(strings.TrimSpace(format))))
	return c.Send(data)
}

// CategoryHandler categorías del catálogo.
type CategoryHandler struct {
	uc *usecase.CategoryUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetUsername(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
