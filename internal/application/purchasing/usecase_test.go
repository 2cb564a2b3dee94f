package purchasing_test

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/application/purchasing"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
	"github.com/jhoicas/inventory-core/internal/infrastructure/memory"
)

const actor = "compras"

type fixture struct {
	repos memory.Repositories
	uc    *purchasing.PurchaseOrderUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	ctx := context.Background()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{SKU: "P-1", Name: "Taladro", UnitPrice: decimal.NewFromInt(5), Active: true}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{SKU: "P-2", Name: "Broca", UnitPrice: decimal.NewFromInt(1), Active: true}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{Code: "MAIN", Name: "Principal", Active: true}))
	require.NoError(t, repos.Suppliers.Create(ctx, &entity.Supplier{Name: "Ferretería SAS", Active: true}))
	uc := purchasing.NewPurchaseOrderUseCase(memory.NewTxRunner(store), repos.Orders, repos.Suppliers, repos.Warehouses, repos.Products, nil, nil)
	return &fixture{repos: repos, uc: uc}
}

func (f *fixture) create(t *testing.T, lines ...purchasing.OrderLine) *dto.PurchaseOrderResponse {
	t.Helper()
	o, err := f.uc.Create(context.Background(), actor, purchasing.CreateOrderInput{SupplierID: 1, WarehouseID: 1, Items: lines})
	require.NoError(t, err)
	return o
}

func (f *fixture) approved(t *testing.T, lines ...purchasing.OrderLine) int64 {
	t.Helper()
	ctx := context.Background()
	o := f.create(t, lines...)
	_, err := f.uc.Submit(ctx, actor, o.ID)
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, actor, o.ID)
	require.NoError(t, err)
	return o.ID
}

func (f *fixture) stock(t *testing.T, productID int64) int64 {
	t.Helper()
	l, err := f.repos.Levels.Get(context.Background(), productID, 1)
	require.NoError(t, err)
	if l == nil {
		return 0
	}
	return l.Quantity
}

func (f *fixture) movementCount(t *testing.T) int64 {
	t.Helper()
	_, total, err := f.repos.Movements.List(context.Background(), repository.MovementFilter{}, repository.ListQuery{})
	require.NoError(t, err)
	return total
}

func line(pid, qty int64, price string) purchasing.OrderLine {
	return purchasing.OrderLine{ProductID: pid, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}

func TestCicloCompleto_RecepcionSinOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o := f.create(t, line(1, 10, "5.00"))
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("50.00")))
	assert.Equal(t, "DRAFT", o.Status)
	assert.Regexp(t, regexp.MustCompile(`^PO-\d{8}-1000$`), o.OrderNumber)
	assert.Equal(t, "Ferretería SAS", o.SupplierName)
	assert.Equal(t, "Taladro", o.Items[0].ProductName)

	_, err := f.uc.Submit(ctx, actor, o.ID)
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, actor, o.ID)
	require.NoError(t, err)
	got, err := f.uc.Receive(ctx, actor, o.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, "RECEIVED", got.Status)
	assert.NotNil(t, got.ReceivedAt)
	assert.Equal(t, int64(10), got.Items[0].ReceivedQuantity)
	assert.Equal(t, int64(10), f.stock(t, 1))

	movs, _, err := f.repos.Movements.List(ctx, repository.MovementFilter{}, repository.ListQuery{})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeIN, movs[0].Type)
	assert.Equal(t, o.OrderNumber, movs[0].Reference)
	assert.Equal(t, "Received from PO: "+o.OrderNumber, movs[0].Notes)
	assert.Equal(t, actor, movs[0].CreatedBy)
}

func TestReceive_ParcialConOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.approved(t, line(1, 10, "5"), line(2, 4, "1"))

	got, err := f.uc.Receive(ctx, actor, id, []purchasing.ReceiveLine{
		{ProductID: 1, ReceivedQuantity: 25}, // se acota a lo pedido
		{ProductID: 2, ReceivedQuantity: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, "RECEIVED", got.Status)
	assert.Equal(t, int64(10), f.stock(t, 1))
	assert.Equal(t, int64(0), f.stock(t, 2))
	assert.Equal(t, int64(1), f.movementCount(t))

	received := map[int64]int64{}
	for _, it := range got.Items {
		received[it.ProductID] = it.ReceivedQuantity
	}
	assert.Equal(t, map[int64]int64{1: 10, 2: 0}, received)
}

func TestReceive_ProductoAjenoALaOrden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.approved(t, line(1, 3, "5"))

	_, err := f.uc.Receive(ctx, actor, id, []purchasing.ReceiveLine{{ProductID: 2, ReceivedQuantity: 1}})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	o, err := f.uc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", o.Status)
	assert.Zero(t, f.movementCount(t))
}

func TestTransicionesInvalidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.create(t, line(1, 1, "1"))

	_, err := f.uc.Approve(ctx, actor, o.ID)
	require.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	var st *domain.StateTransitionError
	require.ErrorAs(t, err, &st)
	assert.Equal(t, "DRAFT", st.Status)
	assert.Equal(t, "approve", st.Action)

	_, err = f.uc.Receive(ctx, actor, o.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	_, err = f.uc.Submit(ctx, actor, o.ID)
	require.NoError(t, err)
	_, err = f.uc.Receive(ctx, actor, o.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.Zero(t, f.movementCount(t))
}

func TestCancel_NuncaPosteaYEsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := f.create(t, line(1, 1, "1"))
	submitted := f.create(t, line(1, 1, "1"))
	_, err := f.uc.Submit(ctx, actor, submitted.ID)
	require.NoError(t, err)
	approved := f.approved(t, line(1, 1, "1"))

	for _, id := range []int64{draft.ID, submitted.ID, approved} {
		o, err := f.uc.Cancel(ctx, actor, id)
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", o.Status)

		_, err = f.uc.Cancel(ctx, actor, id)
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	}
	assert.Zero(t, f.movementCount(t))

	received := f.approved(t, line(1, 1, "1"))
	_, err = f.uc.Receive(ctx, actor, received, nil)
	require.NoError(t, err)
	_, err = f.uc.Cancel(ctx, actor, received)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestApproveYCancelConcurrentes_GanaElPrimero(t *testing.T) {
	for range 20 {
		f := newFixture(t)
		ctx := context.Background()
		o := f.create(t, line(1, 1, "1"))
		_, err := f.uc.Submit(ctx, actor, o.ID)
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		wg.Add(2)
		go func() { defer wg.Done(); _, errs[0] = f.uc.Approve(ctx, actor, o.ID) }()
		go func() { defer wg.Done(); _, errs[1] = f.uc.Cancel(ctx, actor, o.ID) }()
		wg.Wait()

		// APPROVED también es cancelable: cancel siempre se aplica; approve solo si llegó primero.
		final, err := f.uc.Get(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", final.Status)
		assert.NoError(t, errs[1])
		if errs[0] != nil {
			assert.ErrorIs(t, errs[0], domain.ErrInvalidStateTransition)
		}
	}
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, actor, purchasing.CreateOrderInput{SupplierID: 1, WarehouseID: 1})
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)

	cases := []struct {
		name string
		in   purchasing.CreateOrderInput
		want error
	}{
		{"proveedor", purchasing.CreateOrderInput{SupplierID: 9, WarehouseID: 1, Items: []purchasing.OrderLine{line(1, 1, "1")}}, domain.ErrUnknownReference},
		{"bodega", purchasing.CreateOrderInput{SupplierID: 1, WarehouseID: 9, Items: []purchasing.OrderLine{line(1, 1, "1")}}, domain.ErrUnknownReference},
		{"producto", purchasing.CreateOrderInput{SupplierID: 1, WarehouseID: 1, Items: []purchasing.OrderLine{line(9, 1, "1")}}, domain.ErrUnknownReference},
		{"cantidad", purchasing.CreateOrderInput{SupplierID: 1, WarehouseID: 1, Items: []purchasing.OrderLine{line(1, 0, "1")}}, domain.ErrInvalidArgument},
		{"precio", purchasing.CreateOrderInput{SupplierID: 1, WarehouseID: 1, Items: []purchasing.OrderLine{line(1, 1, "-1")}}, domain.ErrInvalidArgument},
		{"repetido", purchasing.CreateOrderInput{SupplierID: 1, WarehouseID: 1, Items: []purchasing.OrderLine{line(1, 1, "1"), line(1, 2, "1")}}, domain.ErrInvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.Create(ctx, actor, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreate_NumerosUnicos(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, line(1, 1, "1"))
	b := f.create(t, line(1, 1, "1"))
	assert.NotEqual(t, a.OrderNumber, b.OrderNumber)
}

func TestList_FiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, line(1, 1, "1"))
	o := f.create(t, line(1, 1, "1"))
	_, err := f.uc.Submit(ctx, actor, o.ID)
	require.NoError(t, err)

	page, err := f.uc.List(ctx, "SUBMITTED", dto.PageRequest{Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, o.ID, page.Content[0].ID)

	all, err := f.uc.List(ctx, "", dto.PageRequest{Size: 10, Sort: "id,asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.TotalElements)

	_, err = f.uc.List(ctx, "PERDIDA", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = f.uc.List(ctx, "", dto.PageRequest{Sort: "supplier,asc"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestGet_Desconocida(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrUnknownReference)
}
