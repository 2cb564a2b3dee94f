package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo bitácora del catálogo sobre la tabla audit_log. old_value y new_value son JSONB.
type AuditRepo struct {
	q Querier
}

func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

func (r *AuditRepo) Append(ctx context.Context, e *entity.AuditEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO audit_log (entity_type, entity_id, action, actor, old_value, new_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		e.EntityType, e.EntityID, string(e.Action), e.Actor, e.OldValue, e.NewValue, e.CreatedAt,
	).Scan(&e.ID)
	return wrap("append audit entry", err)
}

func (r *AuditRepo) List(ctx context.Context, f repository.AuditFilter, q repository.ListQuery) ([]*entity.AuditEntry, int64, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.EntityType != nil {
		add("entity_type = $%d", *f.EntityType)
	}
	if f.EntityID != nil {
		add("entity_id = $%d", *f.EntityID)
	}
	if f.Actor != nil {
		add("actor = $%d", *f.Actor)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at < $%d", *f.To)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM audit_log`+where, args...).Scan(&total); err != nil {
		return nil, 0, wrap("count audit entries", err)
	}
	limit, args := limitClause(q.Limit, q.Offset, args)
	rows, err := r.q.Query(ctx, `SELECT id, entity_type, entity_id, action, actor, old_value, new_value, created_at
		FROM audit_log`+where+` ORDER BY id DESC`+limit, args...)
	if err != nil {
		return nil, 0, wrap("list audit entries", err)
	}
	defer rows.Close()

	var list []*entity.AuditEntry
	for rows.Next() {
		var (
			e      entity.AuditEntry
			action string
		)
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &action, &e.Actor, &e.OldValue, &e.NewValue, &e.CreatedAt); err != nil {
			return nil, 0, wrap("scan audit entry", err)
		}
		e.Action = entity.AuditAction(action)
		list = append(list, &e)
	}
	return list, total, wrap("list audit entries", rows.Err())
}
