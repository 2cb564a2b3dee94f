package ports

import (
	"context"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// AuditEvent mutación del catálogo a registrar. Before y After se serializan a JSON; nil = sin valor.
type AuditEvent struct {
	EntityType string
	EntityID   int64
	Action     entity.AuditAction
	Actor      string
	Before     any
	After      any
}

// AuditTrail registra quién cambió qué en el catálogo. Record no falla la operación que lo invoca.
type AuditTrail interface {
	Record(ctx context.Context, ev AuditEvent)
}

// NopAuditTrail no registra nada.
type NopAuditTrail struct{}

func (NopAuditTrail) Record(context.Context, AuditEvent) {}
