package http

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/domain"
)

// validate instancia compartida; validator cachea la estructura de cada tipo.
var validate = validator.New(validator.WithRequiredStructEnabled())

// errorStatus traduce un error de dominio a status HTTP y código de la API.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrEmptyOrder):
		return fiber.StatusBadRequest, "EMPTY_ORDER"
	case errors.Is(err, domain.ErrInvalidArgument):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnknownReference):
		return fiber.StatusNotFound, "UNKNOWN_REFERENCE"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return fiber.StatusConflict, "INVALID_STATE_TRANSITION"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrInsufficientHistory):
		return fiber.StatusUnprocessableEntity, "INSUFFICIENT_HISTORY"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fiberCodeName(fe.Code)
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

func fiberCodeName(code int) string {
	switch code {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	}
	return "HTTP_" + strconv.Itoa(code)
}

// writeError responde con el cuerpo de error estándar. Los 5xx no exponen el detalle interno.
func writeError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	msg := err.Error()
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error no controlado")
		if status == fiber.StatusInternalServerError {
			msg = "error interno"
		}
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// ErrorHandler manejador global de fiber: cualquier error que escape de un handler pasa por aquí.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}

// parseBody decodifica el JSON y aplica las reglas `validate` del DTO.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.InvalidArgument("cuerpo inválido: %v", err)
	}
	return validateStruct(out)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.InvalidArgument("%v", err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fe.Field()+": "+fe.Tag()+"="+fe.Param())
			continue
		}
		parts = append(parts, fe.Field()+": "+fe.Tag())
	}
	return domain.InvalidArgument("%s", strings.Join(parts, "; "))
}

// paramID lee un id numérico positivo de la ruta.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.InvalidArgument("%s inválido: %q", name, raw)
	}
	return id, nil
}

// pageRequest lee page, size y sort del query string.
func pageRequest(c *fiber.Ctx) (dto.PageRequest, error) {
	var p dto.PageRequest
	if err := c.QueryParser(&p); err != nil {
		return p, domain.InvalidArgument("parámetros de paginación inválidos")
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// queryInt entero opcional del query string con valor por defecto.
func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.InvalidArgument("%s debe ser un entero", name)
	}
	return n, nil
}

// queryBool booleano opcional del query string.
func queryBool(c *fiber.Ctx, name string, def bool) (bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.InvalidArgument("%s debe ser true o false", name)
	}
	return b, nil
}
