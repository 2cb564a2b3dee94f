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

// SupplierUseCase casos de uso CRUD para proveedores. Solo baja lógica.
type SupplierUseCase struct {
	repo  repository.SupplierRepository
	audit ports.AuditTrail
	now   func() time.Time
}

// NewSupplierUseCase construye el caso de uso. audit puede ser nil.
func NewSupplierUseCase(repo repository.SupplierRepository, audit ports.AuditTrail) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, audit: auditOrNop(audit), now: func() time.Time { return time.Now().UTC() }}
}

// Create crea un proveedor activo.
func (uc *SupplierUseCase) Create(ctx context.Context, actor string, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if actor == "" {
		return nil, domain.InvalidArgument("actor requerido")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.InvalidArgument("el nombre es obligatorio")
	}
	now := uc.now()
	s := &entity.Supplier{
		Name:        name,
		ContactName: in.ContactName,
		Email:       in.Email,
		Phone:       in.Phone,
		Address:     in.Address,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	out := toSupplierResponse(s)
	uc.audit.Record(ctx, ports.AuditEvent{
		EntityType: entity.AuditEntitySupplier, EntityID: s.ID, Action: entity.AuditActionCreate, Actor: actor, After: out,
	})
	return out, nil
}

// GetByID obtiene un proveedor; ErrNotFound si no existe.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id int64) (*dto.SupplierResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// Update actualización parcial.
func (uc *SupplierUseCase) Update(ctx context.Context, actor string, id int64, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	if actor == "" {
		return nil, domain.InvalidArgument("actor requerido")
	}
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := toSupplierResponse(s)
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.InvalidArgument("el nombre no puede quedar vacío")
		}
		s.Name = name
	}
	if in.ContactName != nil {
		s.ContactName = *in.ContactName
	}
	if in.Email != nil {
		s.Email = *in.Email
	}
	if in.Phone != nil {
		s.Phone = *in.Phone
	}
	if in.Address != nil {
		s.Address = *in.Address
	}
	if in.Active != nil {
		s.Active = *in.Active
	}
	s.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	out := toSupplierResponse(s)
	uc.audit.Record(ctx, ports.AuditEvent{
		EntityType: entity.AuditEntitySupplier, EntityID: s.ID, Action: entity.AuditActionUpdate, Actor: actor, Before: before, After: out,
	})
	return out, nil
}

// Deactivate impide emitir órdenes nuevas al proveedor; las existentes siguen su ciclo.
func (uc *SupplierUseCase) Deactivate(ctx context.Context, actor string, id int64) error {
	if actor == "" {
		return domain.InvalidArgument("actor requerido")
	}
	s, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if !s.Active {
		return nil
	}
	before := toSupplierResponse(s)
	s.Active = false
	s.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return err
	}
	uc.audit.Record(ctx, ports.AuditEvent{
		EntityType: entity.AuditEntitySupplier, EntityID: s.ID, Action: entity.AuditActionDeactivate, Actor: actor,
		Before: before, After: toSupplierResponse(s),
	})
	return nil
}

// List proveedores paginados.
func (uc *SupplierUseCase) List(ctx context.Context, activeOnly bool, page dto.PageRequest) (dto.Page[dto.SupplierResponse], error) {
	page.Normalize()
	q, err := page.ListQuery(repository.SupplierSortFields)
	if err != nil {
		return dto.Page[dto.SupplierResponse]{}, err
	}
	list, total, err := uc.repo.List(ctx, activeOnly, q)
	if err != nil {
		return dto.Page[dto.SupplierResponse]{}, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return dto.NewPage(items, total, page), nil
}

func (uc *SupplierUseCase) get(ctx context.Context, id int64) (*entity.Supplier, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		ContactName: s.ContactName,
		Email:       s.Email,
		Phone:       s.Phone,
		Address:     s.Address,
		Active:      s.Active,
		CreatedAt:   s.CreatedAt,
	}
}
