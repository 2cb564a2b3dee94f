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

// CategoryUseCase alta y consulta de categorías.
type CategoryUseCase struct {
	repo  repository.CategoryRepository
	audit ports.AuditTrail
}

func NewCategoryUseCase(repo repository.CategoryRepository, audit ports.AuditTrail) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, audit: auditOrNop(audit)}
}

func (uc *CategoryUseCase) Create(ctx context.Context, actor string, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if actor == "" {
		return nil, domain.InvalidArgument("actor requerido")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.InvalidArgument("el nombre es obligatorio")
	}
	c := &entity.Category{Name: name, Description: in.Description, CreatedAt: time.Now().UTC()}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	out := toCategoryResponse(c)
	uc.audit.Record(ctx, ports.AuditEvent{
		EntityType: entity.AuditEntityCategory, EntityID: c.ID, Action: entity.AuditActionCreate, Actor: actor, After: out,
	})
	return out, nil
}

func (uc *CategoryUseCase) GetByID(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCategoryResponse(c), nil
}

// List todas las categorías; son pocas y no se paginan.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}
