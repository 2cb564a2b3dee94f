package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Todos salvo ErrStorageUnavailable son recuperables por el llamador (4xx).
var (
	ErrInvalidArgument        = errors.New("argumento inválido")
	ErrUnknownReference       = errors.New("referencia desconocida")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrEmptyOrder             = errors.New("la orden no tiene ítems")
	ErrInsufficientHistory    = errors.New("historial insuficiente para pronosticar")

	ErrNotFound     = errors.New("recurso no encontrado")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// ErrStorageUnavailable clase fatal: la persistencia no responde. Nunca se reintenta en el core.
	ErrStorageUnavailable = errors.New("almacenamiento no disponible")
)

// InsufficientStockError detalle de un rechazo por stock insuficiente.
type InsufficientStockError struct {
	ProductID   int64
	WarehouseID int64
	Available   int64
	Requested   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: producto %d en bodega %d tiene %d, se solicitaron %d",
		e.ProductID, e.WarehouseID, e.Available, e.Requested)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// StateTransitionError nombra el estado actual y la acción rechazada.
type StateTransitionError struct {
	OrderID int64
	Status  string
	Action  string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("transición de estado inválida: no se puede %s la orden %d en estado %s",
		e.Action, e.OrderID, e.Status)
}

// Is permite errors.Is(err, ErrInvalidStateTransition).
func (e *StateTransitionError) Is(target error) bool { return target == ErrInvalidStateTransition }

// InvalidArgument envuelve ErrInvalidArgument con el detalle del campo.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// UnknownReference envuelve ErrUnknownReference indicando la entidad y el id.
func UnknownReference(entity string, id int64) error {
	return fmt.Errorf("%w: %s %d", ErrUnknownReference, entity, id)
}
