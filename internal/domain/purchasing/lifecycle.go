// Package purchasing contiene la máquina de estados de las órdenes de compra.
package purchasing

import (
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// Action acción solicitada sobre una orden.
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReceive Action = "receive"
	ActionCancel  Action = "cancel"
)

// transitions tabla completa de movimientos legales. Cualquier par ausente es ilegal.
var transitions = map[entity.OrderStatus]map[Action]entity.OrderStatus{
	entity.OrderStatusDraft: {
		ActionSubmit: entity.OrderStatusSubmitted,
		ActionCancel: entity.OrderStatusCancelled,
	},
	entity.OrderStatusSubmitted: {
		ActionApprove: entity.OrderStatusApproved,
		ActionCancel:  entity.OrderStatusCancelled,
	},
	entity.OrderStatusApproved: {
		ActionReceive: entity.OrderStatusReceived,
		ActionCancel:  entity.OrderStatusCancelled,
	},
}

// Next devuelve el estado destino de aplicar action sobre una orden en from,
// o un *domain.StateTransitionError si la transición no existe.
func Next(orderID int64, from entity.OrderStatus, action Action) (entity.OrderStatus, error) {
	if to, ok := transitions[from][action]; ok {
		return to, nil
	}
	return from, &domain.StateTransitionError{OrderID: orderID, Status: string(from), Action: string(action)}
}

// Allowed lista las acciones válidas desde un estado (vacío en estados terminales).
func Allowed(from entity.OrderStatus) []Action {
	out := make([]Action, 0, 2)
	for _, a := range []Action{ActionSubmit, ActionApprove, ActionReceive, ActionCancel} {
		if _, ok := transitions[from][a]; ok {
			out = append(out, a)
		}
	}
	return out
}
