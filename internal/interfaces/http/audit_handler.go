package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-core/internal/application/audit"
	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/domain"
)

// AuditHandler consulta de la bitácora del catálogo (solo ADMIN y MANAGER).
type AuditHandler struct {
	uc *audit.AuditUseCase
}

func NewAuditHandler(uc *audit.AuditUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Bitácora de cambios del catálogo (más reciente primero)
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        entityType  query  string  false  "PRODUCT | CATEGORY | SUPPLIER | WAREHOUSE"
// @Param        entityId    query  int     false  "ID de la entidad"
// @Param        actor       query  string  false  "Usuario que hizo el cambio"
// @Param        from        query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta, exclusivo"
// @Success      200  {object}  dto.Page[dto.AuditEntryResponse]
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var search dto.AuditSearchRequest
	if err := c.QueryParser(&search); err != nil {
		return writeError(c, domain.InvalidArgument("filtros inválidos"))
	}
	return h.list(c, search)
}

// ByEntity historial de una entidad: GET /api/audit/entity/:entityType/:entityId.
func (h *AuditHandler) ByEntity(c *fiber.Ctx) error {
	id, err := paramID(c, "entityId")
	if err != nil {
		return writeError(c, err)
	}
	return h.list(c, dto.AuditSearchRequest{EntityType: c.Params("entityType"), EntityID: id})
}

func (h *AuditHandler) list(c *fiber.Ctx, search dto.AuditSearchRequest) error {
	page, err := pageRequest(c)
	if err != nil {
		return writeError(c, err)
	}
	from, err := parseInstant("from", search.From)
	if err != nil {
		return writeError(c, err)
	}
	to, err := parseInstant("to", search.To)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), search, from, to, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
