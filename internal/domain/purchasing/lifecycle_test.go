package purchasing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

var allStatuses = []entity.OrderStatus{
	entity.OrderStatusDraft, entity.OrderStatusSubmitted, entity.OrderStatusApproved,
	entity.OrderStatusReceived, entity.OrderStatusCancelled,
}

var allActions = []Action{ActionSubmit, ActionApprove, ActionReceive, ActionCancel}

func TestNext_TransicionesLegales(t *testing.T) {
	cases := []struct {
		from   entity.OrderStatus
		action Action
		to     entity.OrderStatus
	}{
		{entity.OrderStatusDraft, ActionSubmit, entity.OrderStatusSubmitted},
		{entity.OrderStatusSubmitted, ActionApprove, entity.OrderStatusApproved},
		{entity.OrderStatusSubmitted, ActionCancel, entity.OrderStatusCancelled},
		{entity.OrderStatusApproved, ActionReceive, entity.OrderStatusReceived},
		{entity.OrderStatusApproved, ActionCancel, entity.OrderStatusCancelled},
		{entity.OrderStatusDraft, ActionCancel, entity.OrderStatusCancelled},
	}
	for _, c := range cases {
		to, err := Next(1, c.from, c.action)
		require.NoError(t, err, "%s --%s-->", c.from, c.action)
		assert.Equal(t, c.to, to)
	}
}

func TestNext_ExactamenteSeisTransiciones(t *testing.T) {
	legal := 0
	for _, s := range allStatuses {
		for _, a := range allActions {
			if _, err := Next(1, s, a); err == nil {
				legal++
			}
		}
	}
	assert.Equal(t, 6, legal)
}

func TestNext_IlegalNombraEstadoYAccion(t *testing.T) {
	_, err := Next(9, entity.OrderStatusDraft, ActionReceive)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidStateTransition))

	var ste *domain.StateTransitionError
	require.True(t, errors.As(err, &ste))
	assert.Equal(t, int64(9), ste.OrderID)
	assert.Equal(t, "DRAFT", ste.Status)
	assert.Equal(t, "receive", ste.Action)
}

func TestNext_TerminalesNoAdmitenNada(t *testing.T) {
	for _, s := range []entity.OrderStatus{entity.OrderStatusReceived, entity.OrderStatusCancelled} {
		assert.Empty(t, Allowed(s))
		for _, a := range allActions {
			_, err := Next(1, s, a)
			assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
		}
	}
}

// Ningún camino llega a RECEIVED sin pasar por APPROVED, SUBMITTED y DRAFT.
func TestNext_NoSeSaltaEstados(t *testing.T) {
	predecessors := map[entity.OrderStatus]map[entity.OrderStatus]bool{}
	for _, s := range allStatuses {
		for _, a := range allActions {
			if to, err := Next(1, s, a); err == nil {
				if predecessors[to] == nil {
					predecessors[to] = map[entity.OrderStatus]bool{}
				}
				predecessors[to][s] = true
			}
		}
	}
	assert.Equal(t, map[entity.OrderStatus]bool{entity.OrderStatusApproved: true}, predecessors[entity.OrderStatusReceived])
	assert.Equal(t, map[entity.OrderStatus]bool{entity.OrderStatusSubmitted: true}, predecessors[entity.OrderStatusApproved])
	assert.Equal(t, map[entity.OrderStatus]bool{entity.OrderStatusDraft: true}, predecessors[entity.OrderStatusSubmitted])
}
