package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-core/internal/application/audit"
	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/application/usecase"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/infrastructure/memory"
)

func ptr[T any](v T) *T { return &v }

func TestProductUseCase_CrearActualizarDesactivar(t *testing.T) {
	repos := memory.NewStore().Repositories()
	ctx := context.Background()
	categories := usecase.NewCategoryUseCase(repos.Categories, nil)
	products := usecase.NewProductUseCase(repos.Products, repos.Categories, nil)

	cat, err := categories.Create(ctx, "ana", dto.CreateCategoryRequest{Name: "Herramientas"})
	require.NoError(t, err)

	p, err := products.Create(ctx, "ana", dto.CreateProductRequest{
		SKU: " H-001 ", Name: "Llave inglesa", CategoryID: &cat.ID, UnitPrice: decimal.RequireFromString("25.90"), ReorderQuantity: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "H-001", p.SKU)
	assert.Equal(t, "Herramientas", p.CategoryName)
	assert.True(t, p.Active)

	_, err = products.Create(ctx, "ana", dto.CreateProductRequest{SKU: "H-001", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	up, err := products.Update(ctx, "ana", p.ID, dto.UpdateProductRequest{
		Name: ptr("Llave ajustable"), LeadTimeDays: ptr(14), HoldingCostRate: ptr(decimal.RequireFromString("0.25")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Llave ajustable", up.Name)
	assert.Equal(t, "H-001", up.SKU)
	assert.Equal(t, 14, *up.LeadTimeDays)

	require.NoError(t, products.Deactivate(ctx, "ana", p.ID))
	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	active, err := products.List(ctx, dto.ProductSearchRequest{}, true, dto.PageRequest{})
	require.NoError(t, err)
	assert.Zero(t, active.TotalElements)
}

func TestProductUseCase_Validaciones(t *testing.T) {
	repos := memory.NewStore().Repositories()
	ctx := context.Background()
	products := usecase.NewProductUseCase(repos.Products, repos.Categories, nil)

	cases := map[string]dto.CreateProductRequest{
		"sin sku":          {Name: "x"},
		"precio negativo":  {SKU: "A", Name: "x", UnitPrice: decimal.NewFromInt(-1)},
		"lead time cero":   {SKU: "A", Name: "x", LeadTimeDays: ptr(0)},
		"tasa mayor que 1": {SKU: "A", Name: "x", HoldingCostRate: ptr(decimal.NewFromInt(2))},
		"reorden negativo": {SKU: "A", Name: "x", ReorderPoint: -3},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := products.Create(ctx, "ana", in)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}

	_, err := products.Create(ctx, "ana", dto.CreateProductRequest{SKU: "A", Name: "x", CategoryID: ptr(int64(9))})
	assert.ErrorIs(t, err, domain.ErrUnknownReference)

	_, err = products.GetByID(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_BusquedaYOrden(t *testing.T) {
	repos := memory.NewStore().Repositories()
	ctx := context.Background()
	products := usecase.NewProductUseCase(repos.Products, repos.Categories, nil)
	for _, in := range []dto.CreateProductRequest{
		{SKU: "T-1", Name: "Tornillo 1/4", UnitPrice: decimal.NewFromInt(1)},
		{SKU: "T-2", Name: "Tornillo 1/2", UnitPrice: decimal.NewFromInt(3)},
		{SKU: "C-1", Name: "Cable", UnitPrice: decimal.NewFromInt(2)},
	} {
		_, err := products.Create(ctx, "ana", in)
		require.NoError(t, err)
	}

	page, err := products.List(ctx, dto.ProductSearchRequest{Name: "tornillo"}, false, dto.PageRequest{Sort: "unitPrice,desc"})
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "T-2", page.Content[0].SKU)

	page, err = products.List(ctx, dto.ProductSearchRequest{}, false, dto.PageRequest{Size: 2, Page: 1, Sort: "sku"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.Last)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "T-2", page.Content[0].SKU)

	_, err = products.List(ctx, dto.ProductSearchRequest{}, false, dto.PageRequest{Sort: "costo"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestWarehouseUseCase(t *testing.T) {
	repos := memory.NewStore().Repositories()
	ctx := context.Background()
	warehouses := usecase.NewWarehouseUseCase(repos.Warehouses, nil)

	w, err := warehouses.Create(ctx, "ana", dto.CreateWarehouseRequest{Code: "med", Name: "Medellín", Capacity: ptr(int64(500))})
	require.NoError(t, err)
	assert.Equal(t, "MED", w.Code)

	_, err = warehouses.Create(ctx, "ana", dto.CreateWarehouseRequest{Code: "MED", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = warehouses.Create(ctx, "ana", dto.CreateWarehouseRequest{Code: "X", Name: "X", Capacity: ptr(int64(-1))})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	up, err := warehouses.Update(ctx, "ana", w.ID, dto.UpdateWarehouseRequest{Name: ptr("Medellín Centro")})
	require.NoError(t, err)
	assert.Equal(t, "MED", up.Code)
	assert.Equal(t, "Medellín Centro", up.Name)

	require.NoError(t, warehouses.Deactivate(ctx, "ana", w.ID))
	page, err := warehouses.List(ctx, true, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, page.Content)

	_, err = warehouses.GetByID(ctx, 77)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSupplierUseCase(t *testing.T) {
	repos := memory.NewStore().Repositories()
	ctx := context.Background()
	suppliers := usecase.NewSupplierUseCase(repos.Suppliers, nil)

	s, err := suppliers.Create(ctx, "ana", dto.CreateSupplierRequest{Name: "Distribuidora Andina", Email: "ventas@andina.co"})
	require.NoError(t, err)
	assert.True(t, s.Active)

	_, err = suppliers.Create(ctx, "ana", dto.CreateSupplierRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	up, err := suppliers.Update(ctx, "ana", s.ID, dto.UpdateSupplierRequest{Phone: ptr("+57 300 000 0000")})
	require.NoError(t, err)
	assert.Equal(t, "+57 300 000 0000", up.Phone)

	require.NoError(t, suppliers.Deactivate(ctx, "ana", s.ID))
	got, err := suppliers.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	page, err := suppliers.List(ctx, false, dto.PageRequest{Sort: "name,asc"})
	require.NoError(t, err)
	assert.Len(t, page.Content, 1)
}

func TestCategoryUseCase(t *testing.T) {
	repos := memory.NewStore().Repositories()
	ctx := context.Background()
	categories := usecase.NewCategoryUseCase(repos.Categories, nil)

	_, err := categories.Create(ctx, "ana", dto.CreateCategoryRequest{Name: "Eléctricos"})
	require.NoError(t, err)
	_, err = categories.Create(ctx, "ana", dto.CreateCategoryRequest{Name: "Eléctricos"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = categories.GetByID(ctx, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalog_BitacoraConActor(t *testing.T) {
	repos := memory.NewStore().Repositories()
	ctx := context.Background()
	trail := audit.NewAuditUseCase(repos.Audit, nil)
	products := usecase.NewProductUseCase(repos.Products, repos.Categories, trail)
	warehouses := usecase.NewWarehouseUseCase(repos.Warehouses, trail)
	suppliers := usecase.NewSupplierUseCase(repos.Suppliers, trail)
	categories := usecase.NewCategoryUseCase(repos.Categories, trail)

	_, err := products.Create(ctx, "", dto.CreateProductRequest{SKU: "A", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = warehouses.Create(ctx, "", dto.CreateWarehouseRequest{Code: "A", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.ErrorIs(t, suppliers.Deactivate(ctx, "", 1), domain.ErrInvalidArgument)
	_, err = categories.Create(ctx, "", dto.CreateCategoryRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	p, err := products.Create(ctx, "ana", dto.CreateProductRequest{SKU: "H-9", Name: "Martillo", UnitPrice: decimal.NewFromInt(30)})
	require.NoError(t, err)
	_, err = products.Update(ctx, "luis", p.ID, dto.UpdateProductRequest{UnitPrice: ptr(decimal.NewFromInt(35))})
	require.NoError(t, err)
	require.NoError(t, products.Deactivate(ctx, "ana", p.ID))
	// la segunda baja no cambia nada y no deja rastro
	require.NoError(t, products.Deactivate(ctx, "ana", p.ID))

	w, err := warehouses.Create(ctx, "luis", dto.CreateWarehouseRequest{Code: "bog", Name: "Bogotá"})
	require.NoError(t, err)
	s, err := suppliers.Create(ctx, "ana", dto.CreateSupplierRequest{Name: "Andina"})
	require.NoError(t, err)
	_, err = categories.Create(ctx, "ana", dto.CreateCategoryRequest{Name: "Herramientas"})
	require.NoError(t, err)

	page, err := trail.List(ctx, dto.AuditSearchRequest{EntityType: "product", EntityID: p.ID}, nil, nil, dto.PageRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(3), page.TotalElements)
	deactivated, updated, created := page.Content[0], page.Content[1], page.Content[2]

	assert.Equal(t, "DEACTIVATE", deactivated.Action)
	assert.Equal(t, "ana", deactivated.Actor)
	assert.JSONEq(t, `true`, jsonField(t, deactivated.OldValue, "active"))
	assert.JSONEq(t, `false`, jsonField(t, deactivated.NewValue, "active"))

	assert.Equal(t, "UPDATE", updated.Action)
	assert.Equal(t, "luis", updated.Actor)
	assert.JSONEq(t, `"30"`, jsonField(t, updated.OldValue, "unitPrice"))
	assert.JSONEq(t, `"35"`, jsonField(t, updated.NewValue, "unitPrice"))

	assert.Equal(t, "CREATE", created.Action)
	assert.Nil(t, created.OldValue)
	assert.JSONEq(t, `"H-9"`, jsonField(t, created.NewValue, "sku"))

	byLuis, err := trail.List(ctx, dto.AuditSearchRequest{Actor: "luis"}, nil, nil, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, byLuis.Content, 2)
	assert.Equal(t, "WAREHOUSE", byLuis.Content[0].EntityType)
	assert.Equal(t, w.ID, byLuis.Content[0].EntityID)

	suppliersOnly, err := trail.List(ctx, dto.AuditSearchRequest{EntityType: "SUPPLIER"}, nil, nil, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, suppliersOnly.Content, 1)
	assert.Equal(t, s.ID, suppliersOnly.Content[0].EntityID)

	all, err := trail.List(ctx, dto.AuditSearchRequest{}, nil, nil, dto.PageRequest{Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(6), all.TotalElements)
	assert.Equal(t, 3, all.TotalPages)
	assert.Equal(t, "CATEGORY", all.Content[0].EntityType)
}

func jsonField(t *testing.T, raw json.RawMessage, key string) string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	v, ok := m[key]
	require.True(t, ok, "falta %q en %s", key, raw)
	return string(v)
}
