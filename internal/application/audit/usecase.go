// Package audit bitácora de cambios del catálogo: quién creó, modificó o dio de baja cada
// producto, categoría, proveedor y bodega, con el valor anterior y el nuevo.
package audit

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/application/ports"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
	"github.com/jhoicas/inventory-core/pkg/logger"
)

var _ ports.AuditTrail = (*AuditUseCase)(nil)

var entityTypes = []string{
	entity.AuditEntityProduct,
	entity.AuditEntityCategory,
	entity.AuditEntitySupplier,
	entity.AuditEntityWarehouse,
}

// AuditUseCase registra y consulta la bitácora.
type AuditUseCase struct {
	repo repository.AuditRepository
	log  *logger.Logger
	now  func() time.Time
}

func NewAuditUseCase(repo repository.AuditRepository, log *logger.Logger) *AuditUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuditUseCase{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Record anexa la entrada. La mutación ya quedó confirmada: un fallo aquí solo se registra en log.
func (uc *AuditUseCase) Record(ctx context.Context, ev ports.AuditEvent) {
	e := &entity.AuditEntry{
		EntityType: ev.EntityType,
		EntityID:   ev.EntityID,
		Action:     ev.Action,
		Actor:      ev.Actor,
		CreatedAt:  uc.now(),
	}
	var err error
	if e.OldValue, err = snapshot(ev.Before); err == nil {
		e.NewValue, err = snapshot(ev.After)
	}
	if err == nil {
		err = uc.repo.Append(ctx, e)
	}
	if err != nil {
		uc.log.Warn().Err(err).
			Str("entity_type", ev.EntityType).
			Int64("entity_id", ev.EntityID).
			Str("action", string(ev.Action)).
			Str("actor", ev.Actor).
			Msg("no se pudo registrar la bitácora")
	}
}

func snapshot(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// List página de la bitácora, más reciente primero.
func (uc *AuditUseCase) List(ctx context.Context, search dto.AuditSearchRequest, from, to *time.Time, page dto.PageRequest) (dto.Page[dto.AuditEntryResponse], error) {
	if err := page.Validate(); err != nil {
		return dto.Page[dto.AuditEntryResponse]{}, err
	}
	var f repository.AuditFilter
	if t := strings.ToUpper(strings.TrimSpace(search.EntityType)); t != "" {
		if !slices.Contains(entityTypes, t) {
			return dto.Page[dto.AuditEntryResponse]{}, domain.InvalidArgument("entityType desconocido %q", search.EntityType)
		}
		f.EntityType = &t
	}
	if search.EntityID < 0 {
		return dto.Page[dto.AuditEntryResponse]{}, domain.InvalidArgument("entityId inválido")
	}
	if search.EntityID > 0 {
		f.EntityID = &search.EntityID
	}
	if a := strings.TrimSpace(search.Actor); a != "" {
		f.Actor = &a
	}
	if from != nil && to != nil && !from.Before(*to) {
		return dto.Page[dto.AuditEntryResponse]{}, domain.InvalidArgument("from debe ser anterior a to")
	}
	f.From, f.To = from, to

	list, total, err := uc.repo.List(ctx, f, repository.ListQuery{Offset: page.Offset(), Limit: page.Size})
	if err != nil {
		return dto.Page[dto.AuditEntryResponse]{}, err
	}
	items := make([]dto.AuditEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, dto.AuditEntryResponse{
			ID:         e.ID,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Action:     string(e.Action),
			Actor:      e.Actor,
			OldValue:   e.OldValue,
			NewValue:   e.NewValue,
			Timestamp:  e.CreatedAt,
		})
	}
	return dto.NewPage(items, total, page), nil
}
