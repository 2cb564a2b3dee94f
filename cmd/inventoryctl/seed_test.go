package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/inventory-core/internal/application/audit"
	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/application/inventory"
	"github.com/jhoicas/inventory-core/internal/application/usecase"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
	"github.com/jhoicas/inventory-core/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-core/pkg/logger"
)

func TestReadSeedRows_Latin1(t *testing.T) {
	raw := "sku;nombre;precio;bodega;cantidad\n" +
		"TOR-001;Tornillo cabeza plana ñ;2,50;bog;10\n" +
		"CAN-002;Candado acero;12.75;MED;0\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(raw)
	require.NoError(t, err)

	rows, err := readSeedRows(bytes.NewBufferString(encoded), "latin1", ';')
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "TOR-001", rows[0].SKU)
	assert.Equal(t, "Tornillo cabeza plana ñ", rows[0].Name)
	assert.True(t, rows[0].UnitPrice.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, "BOG", rows[0].WarehouseCode)
	assert.Equal(t, int64(10), rows[0].Quantity)
	assert.Equal(t, 2, rows[0].Line)
	assert.True(t, rows[1].UnitPrice.Equal(decimal.RequireFromString("12.75")))
}

func TestReadSeedRows_Errores(t *testing.T) {
	cases := map[string]string{
		"precio":   "A;Nombre;abc;BOG;1\n",
		"negativo": "A;Nombre;1;BOG;-3\n",
		"vacío":    "A;;1;BOG;1\n",
		"columnas": "A;Nombre;1;BOG\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := readSeedRows(strings.NewReader(in), "utf8", ';')
			assert.Error(t, err)
		})
	}

	_, err := readSeedRows(strings.NewReader(""), "ebcdic", ';')
	assert.ErrorContains(t, err, "encoding no soportado")
}

func TestSeeder_Run(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	r := store.Repositories()
	_, err := usecase.NewWarehouseUseCase(r.Warehouses, nil).Create(ctx, "admin", dto.CreateWarehouseRequest{Code: "BOG", Name: "Bogotá"})
	require.NoError(t, err)

	ledger := inventory.NewStockLedgerUseCase(memory.NewTxRunner(store), r.Products, r.Warehouses, r.Levels, r.Movements, nil)
	s := &seeder{
		products:    usecase.NewProductUseCase(r.Products, r.Categories, audit.NewAuditUseCase(r.Audit, nil)),
		productRepo: r.Products,
		warehouses:  r.Warehouses,
		ledger:      ledger,
		log:         logger.Nop(),
	}

	rows, err := readSeedRows(strings.NewReader(
		"TOR-001;Tornillo;2.50;BOG;10\n"+
			"TOR-001;Tornillo;2.50;BOG;5\n"+
			"CAN-002;Candado;12;BOG;0\n"), "utf8", ';')
	require.NoError(t, err)

	res, err := s.run(ctx, rows, "seed:test.csv")
	require.NoError(t, err)
	assert.Equal(t, seedResult{Created: 2, Existing: 1, Units: 15}, res)

	p, err := r.Products.GetBySKU(ctx, "TOR-001")
	require.NoError(t, err)
	levels, err := ledger.LevelsForProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, int64(15), levels[0].Quantity)

	page, err := ledger.Movements(ctx, inventory.MovementQuery{ProductID: p.ID}, dto.PageRequest{Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, seedActor, page.Content[0].CreatedBy)
	assert.Equal(t, "seed:test.csv", page.Content[0].Reference)

	created, total, err := r.Audit.List(ctx, repository.AuditFilter{}, repository.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, e := range created {
		assert.Equal(t, seedActor, e.Actor)
		assert.Equal(t, entity.AuditActionCreate, e.Action)
	}
}

func TestSeeder_BodegaInexistente(t *testing.T) {
	store := memory.NewStore()
	r := store.Repositories()
	s := &seeder{
		products:    usecase.NewProductUseCase(r.Products, r.Categories, nil),
		productRepo: r.Products,
		warehouses:  r.Warehouses,
		ledger:      inventory.NewStockLedgerUseCase(memory.NewTxRunner(store), r.Products, r.Warehouses, r.Levels, r.Movements, nil),
		log:         logger.Nop(),
	}
	_, err := s.run(context.Background(), []seedRow{{Line: 1, SKU: "X", Name: "X", WarehouseCode: "NOPE", Quantity: 1}}, "seed")
	assert.ErrorContains(t, err, "bodega \"NOPE\" no existe")
}
