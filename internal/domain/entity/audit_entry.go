package entity

import "time"

// AuditAction acción registrada sobre una entidad del catálogo.
type AuditAction string

const (
	AuditActionCreate     AuditAction = "CREATE"
	AuditActionUpdate     AuditAction = "UPDATE"
	AuditActionDeactivate AuditAction = "DEACTIVATE"
)

// Tipos de entidad auditados.
const (
	AuditEntityProduct   = "PRODUCT"
	AuditEntityCategory  = "CATEGORY"
	AuditEntitySupplier  = "SUPPLIER"
	AuditEntityWarehouse = "WAREHOUSE"
)

// AuditEntry una mutación del catálogo con su autor. OldValue y NewValue son JSON; nil = sin valor
// (un alta no tiene OldValue).
type AuditEntry struct {
	ID         int64
	EntityType string
	EntityID   int64
	Action     AuditAction
	Actor      string
	OldValue   []byte
	NewValue   []byte
	CreatedAt  time.Time
}
