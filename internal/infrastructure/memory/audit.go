package memory

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// AuditRepository bitácora del catálogo en memoria.
type AuditRepository struct {
	s *Store
}

func (r *AuditRepository) Append(_ context.Context, e *entity.AuditEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.auditSeq++
	e.ID = r.s.auditSeq
	r.s.audit = append(r.s.audit, cloneAudit(e))
	return nil
}

func (r *AuditRepository) List(_ context.Context, f repository.AuditFilter, q repository.ListQuery) ([]*entity.AuditEntry, int64, error) {
	r.s.mu.RLock()
	matched := make([]*entity.AuditEntry, 0)
	for _, e := range r.s.audit {
		if auditMatches(e, f) {
			matched = append(matched, cloneAudit(e))
		}
	}
	r.s.mu.RUnlock()

	slices.Reverse(matched)
	return paginate(matched, q), int64(len(matched)), nil
}

func auditMatches(e *entity.AuditEntry, f repository.AuditFilter) bool {
	switch {
	case f.EntityType != nil && e.EntityType != *f.EntityType:
		return false
	case f.EntityID != nil && e.EntityID != *f.EntityID:
		return false
	case f.Actor != nil && e.Actor != *f.Actor:
		return false
	case f.From != nil && e.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && !e.CreatedAt.Before(*f.To):
		return false
	}
	return true
}

func cloneAudit(e *entity.AuditEntry) *entity.AuditEntry {
	c := *e
	c.OldValue = bytes.Clone(e.OldValue)
	c.NewValue = bytes.Clone(e.NewValue)
	return &c
}
