package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/application/ports"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas.
type WarehouseUseCase struct {
	repo  repository.WarehouseRepository
	audit ports.AuditTrail
	now   func() time.Time
}

// NewWarehouseUseCase construye el caso de uso. audit puede ser nil.
func NewWarehouseUseCase(repo repository.WarehouseRepository, audit ports.AuditTrail) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, audit: auditOrNop(audit), now: func() time.Time { return time.Now().UTC() }}
}

// Create crea una bodega activa. El código es único y se guarda en mayúsculas.
func (uc *WarehouseUseCase) Create(ctx context.Context, actor string, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if actor == "" {
		return nil, domain.InvalidArgument("actor requerido")
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, domain.InvalidArgument("código y nombre son obligatorios")
	}
	if in.Capacity != nil && *in.Capacity < 0 {
		return nil, domain.InvalidArgument("capacity no puede ser negativa")
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := uc.now()
	w := &entity.Warehouse{
		Code:      code,
		Name:      name,
		Address:   in.Address,
		Capacity:  in.Capacity,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, w); err != nil {
		return nil, err
	}
	out := toWarehouseResponse(w)
	uc.record(ctx, actor, w.ID, entity.AuditActionCreate, nil, out)
	return out, nil
}

// GetByID obtiene una bodega; ErrNotFound si no existe.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id int64) (*dto.WarehouseResponse, error) {
	w, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(w), nil
}

// Update actualización parcial; el código no cambia.
func (uc *WarehouseUseCase) Update(ctx context.Context, actor string, id int64, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if actor == "" {
		return nil, domain.InvalidArgument("actor requerido")
	}
	w, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := toWarehouseResponse(w)
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.InvalidArgument("el nombre no puede quedar vacío")
		}
		w.Name = name
	}
	if in.Address != nil {
		w.Address = *in.Address
	}
	if in.Capacity != nil {
		if *in.Capacity < 0 {
			return nil, domain.InvalidArgument("capacity no puede ser negativa")
		}
		w.Capacity = in.Capacity
	}
	if in.Active != nil {
		w.Active = *in.Active
	}
	w.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	out := toWarehouseResponse(w)
	uc.record(ctx, actor, w.ID, entity.AuditActionUpdate, before, out)
	return out, nil
}

// Deactivate baja lógica; los niveles y movimientos existentes se conservan.
func (uc *WarehouseUseCase) Deactivate(ctx context.Context, actor string, id int64) error {
	if actor == "" {
		return domain.InvalidArgument("actor requerido")
	}
	w, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if !w.Active {
		return nil
	}
	before := toWarehouseResponse(w)
	w.Active = false
	w.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, w); err != nil {
		return err
	}
	uc.record(ctx, actor, w.ID, entity.AuditActionDeactivate, before, toWarehouseResponse(w))
	return nil
}

func (uc *WarehouseUseCase) record(ctx context.Context, actor string, id int64, action entity.AuditAction, before, after *dto.WarehouseResponse) {
	ev := ports.AuditEvent{EntityType: entity.AuditEntityWarehouse, EntityID: id, Action: action, Actor: actor, After: after}
	if before != nil {
		ev.Before = before
	}
	uc.audit.Record(ctx, ev)
}

// List bodegas paginadas.
func (uc *WarehouseUseCase) List(ctx context.Context, activeOnly bool, page dto.PageRequest) (dto.Page[dto.WarehouseResponse], error) {
	page.Normalize()
	q, err := page.ListQuery(repository.WarehouseSortFields)
	if err != nil {
		return dto.Page[dto.WarehouseResponse]{}, err
	}
	list, total, err := uc.repo.List(ctx, activeOnly, q)
	if err != nil {
		return dto.Page[dto.WarehouseResponse]{}, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return dto.NewPage(items, total, page), nil
}

func (uc *WarehouseUseCase) get(ctx context.Context, id int64) (*entity.Warehouse, error) {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	return w, nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Address:   w.Address,
		Capacity:  w.Capacity,
		Active:    w.Active,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
