package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/application/ports"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo de productos. El stock no se toca aquí:
// solo el libro de stock lo modifica vía movimientos.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	audit        ports.AuditTrail
	now          func() time.Time
}

// NewProductUseCase construye el caso de uso. audit puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, audit ports.AuditTrail) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo, audit: auditOrNop(audit), now: func() time.Time { return time.Now().UTC() }}
}

// Create crea un producto activo. El SKU es único.
func (uc *ProductUseCase) Create(ctx context.Context, actor string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if actor == "" {
		return nil, domain.InvalidArgument("actor requerido")
	}
	sku := strings.TrimSpace(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" {
		return nil, domain.InvalidArgument("sku y nombre son obligatorios")
	}
	if in.UnitPrice.IsNegative() {
		return nil, domain.InvalidArgument("unitPrice no puede ser negativo")
	}
	if in.ReorderPoint < 0 || in.ReorderQuantity < 0 {
		return nil, domain.InvalidArgument("reorderPoint y reorderQuantity no pueden ser negativos")
	}
	if err := validateOverrides(in.LeadTimeDays, in.OrderingCost, in.HoldingCostRate); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	category, err := uc.category(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	p := &entity.Product{
		SKU:             sku,
		Name:            name,
		Description:     in.Description,
		CategoryID:      in.CategoryID,
		Unit:            in.Unit,
		UnitPrice:       in.UnitPrice,
		ReorderPoint:    in.ReorderPoint,
		ReorderQuantity: in.ReorderQuantity,
		LeadTimeDays:    in.LeadTimeDays,
		OrderingCost:    in.OrderingCost,
		HoldingCostRate: in.HoldingCostRate,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	out := toProductResponse(p, category)
	uc.audit.Record(ctx, ports.AuditEvent{
		EntityType: entity.AuditEntityProduct, EntityID: p.ID, Action: entity.AuditActionCreate, Actor: actor, After: out,
	})
	return out, nil
}

// GetByID obtiene un producto; ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	category, err := uc.category(ctx, p.CategoryID)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p, category), nil
}

// Update actualización parcial. El SKU es inmutable.
func (uc *ProductUseCase) Update(ctx context.Context, actor string, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if actor == "" {
		return nil, domain.InvalidArgument("actor requerido")
	}
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	prevCategory, err := uc.category(ctx, p.CategoryID)
	if err != nil {
		return nil, err
	}
	before := toProductResponse(p, prevCategory)
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.InvalidArgument("el nombre no puede quedar vacío")
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.CategoryID != nil {
		p.CategoryID = in.CategoryID
	}
	if in.Unit != nil {
		p.Unit = *in.Unit
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, domain.InvalidArgument("unitPrice no puede ser negativo")
		}
		p.UnitPrice = *in.UnitPrice
	}
	if in.ReorderPoint != nil {
		if *in.ReorderPoint < 0 {
			return nil, domain.InvalidArgument("reorderPoint no puede ser negativo")
		}
		p.ReorderPoint = *in.ReorderPoint
	}
	if in.ReorderQuantity != nil {
		if *in.ReorderQuantity < 0 {
			return nil, domain.InvalidArgument("reorderQuantity no puede ser negativo")
		}
		p.ReorderQuantity = *in.ReorderQuantity
	}
	if err := validateOverrides(in.LeadTimeDays, in.OrderingCost, in.HoldingCostRate); err != nil {
		return nil, err
	}
	if in.LeadTimeDays != nil {
		p.LeadTimeDays = in.LeadTimeDays
	}
	if in.OrderingCost != nil {
		p.OrderingCost = in.OrderingCost
	}
	if in.HoldingCostRate != nil {
		p.HoldingCostRate = in.HoldingCostRate
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	category, err := uc.category(ctx, p.CategoryID)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	out := toProductResponse(p, category)
	uc.audit.Record(ctx, ports.AuditEvent{
		EntityType: entity.AuditEntityProduct, EntityID: p.ID, Action: entity.AuditActionUpdate, Actor: actor, Before: before, After: out,
	})
	return out, nil
}

// Deactivate baja lógica: el producto deja de aceptar movimientos y órdenes nuevas.
// Desactivar un producto ya inactivo no hace nada ni deja rastro.
func (uc *ProductUseCase) Deactivate(ctx context.Context, actor string, id int64) error {
	if actor == "" {
		return domain.InvalidArgument("actor requerido")
	}
	p, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if !p.Active {
		return nil
	}
	category, err := uc.category(ctx, p.CategoryID)
	if err != nil {
		return err
	}
	before := toProductResponse(p, category)
	p.Active = false
	p.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return err
	}
	uc.audit.Record(ctx, ports.AuditEvent{
		EntityType: entity.AuditEntityProduct, EntityID: p.ID, Action: entity.AuditActionDeactivate, Actor: actor,
		Before: before, After: toProductResponse(p, category),
	})
	return nil
}

// List página del catálogo. activeOnly deja fuera los productos dados de baja.
func (uc *ProductUseCase) List(ctx context.Context, search dto.ProductSearchRequest, activeOnly bool, page dto.PageRequest) (dto.Page[dto.ProductResponse], error) {
	page.Normalize()
	q, err := page.ListQuery(repository.ProductSortFields)
	if err != nil {
		return dto.Page[dto.ProductResponse]{}, err
	}
	f := repository.ProductFilter{
		Name:       strings.TrimSpace(search.Name),
		SKU:        strings.TrimSpace(search.SKU),
		ActiveOnly: activeOnly,
	}
	if search.CategoryID > 0 {
		f.CategoryID = &search.CategoryID
	}
	list, total, err := uc.repo.List(ctx, f, q)
	if err != nil {
		return dto.Page[dto.ProductResponse]{}, err
	}

	categories := map[int64]*entity.Category{}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		var c *entity.Category
		if p.CategoryID != nil {
			var ok bool
			if c, ok = categories[*p.CategoryID]; !ok {
				if c, err = uc.categoryRepo.GetByID(ctx, *p.CategoryID); err != nil {
					return dto.Page[dto.ProductResponse]{}, err
				}
				categories[*p.CategoryID] = c
			}
		}
		items = append(items, *toProductResponse(p, c))
	}
	return dto.NewPage(items, total, page), nil
}

func (uc *ProductUseCase) get(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// category resuelve la categoría referenciada; nil si el producto no tiene.
func (uc *ProductUseCase) category(ctx context.Context, id *int64) (*entity.Category, error) {
	if id == nil {
		return nil, nil
	}
	c, err := uc.categoryRepo.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.UnknownReference("categoría", *id)
	}
	return c, nil
}

func validateOverrides(lead *int, orderingCost, holdingRate *decimal.Decimal) error {
	if lead != nil && (*lead <= 0 || *lead > 365) {
		return domain.InvalidArgument("leadTimeDays debe estar entre 1 y 365")
	}
	if orderingCost != nil && orderingCost.IsNegative() {
		return domain.InvalidArgument("orderingCost no puede ser negativo")
	}
	if holdingRate != nil && (!holdingRate.IsPositive() || holdingRate.GreaterThan(decimal.NewFromInt(1))) {
		return domain.InvalidArgument("holdingCostRate debe estar en (0, 1]")
	}
	return nil
}

func toProductResponse(p *entity.Product, c *entity.Category) *dto.ProductResponse {
	out := &dto.ProductResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Description:     p.Description,
		CategoryID:      p.CategoryID,
		Unit:            p.Unit,
		UnitPrice:       p.UnitPrice,
		ReorderPoint:    p.ReorderPoint,
		ReorderQuantity: p.ReorderQuantity,
		LeadTimeDays:    p.LeadTimeDays,
		OrderingCost:    p.OrderingCost,
		HoldingCostRate: p.HoldingCostRate,
		Active:          p.Active,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if c != nil {
		out.CategoryName = c.Name
	}
	return out
}
