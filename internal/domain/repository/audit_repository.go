package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
)

// AuditFilter filtros de la bitácora. Campos nil no filtran; From inclusivo, To exclusivo.
type AuditFilter struct {
	EntityType *string
	EntityID   *int64
	Actor      *string
	From       *time.Time
	To         *time.Time
}

// AuditRepository bitácora de cambios del catálogo (solo anexar).
type AuditRepository interface {
	Append(ctx context.Context, e *entity.AuditEntry) error
	// List página más reciente primero.
	List(ctx context.Context, f AuditFilter, q ListQuery) ([]*entity.AuditEntry, int64, error)
}
