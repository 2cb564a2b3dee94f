package dto

import (
	"encoding/json"
	"time"
)

// AuditSearchRequest filtros de GET /audit.
type AuditSearchRequest struct {
	EntityType string `query:"entityType"`
	EntityID   int64  `query:"entityId"`
	Actor      string `query:"actor"`
	From       string `query:"from"`
	To         string `query:"to"`
}

// AuditEntryResponse entrada de la bitácora del catálogo.
type AuditEntryResponse struct {
	ID         int64           `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   int64           `json:"entityId"`
	Action     string          `json:"action"`
	Actor      string          `json:"actor"`
	OldValue   json.RawMessage `json:"oldValue,omitempty"`
	NewValue   json.RawMessage `json:"newValue,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}
