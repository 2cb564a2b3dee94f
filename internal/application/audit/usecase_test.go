package audit_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-core/internal/application/audit"
	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/application/ports"
	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
	"github.com/jhoicas/inventory-core/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-core/pkg/logger"
)

type failingRepo struct {
	repository.AuditRepository
}

func (failingRepo) Append(context.Context, *entity.AuditEntry) error {
	return errors.New("conexión cerrada")
}

func TestRecord_FalloSoloQuedaEnLog(t *testing.T) {
	var buf bytes.Buffer
	uc := audit.NewAuditUseCase(failingRepo{}, logger.New(logger.Config{Env: "production", Level: "info", Output: &buf}))

	uc.Record(context.Background(), ports.AuditEvent{
		EntityType: entity.AuditEntityProduct, EntityID: 3, Action: entity.AuditActionUpdate, Actor: "ana",
	})
	assert.Contains(t, buf.String(), "no se pudo registrar la bitácora")
	assert.Contains(t, buf.String(), `"actor":"ana"`)
}

func TestRecord_ValorNoSerializable(t *testing.T) {
	var buf bytes.Buffer
	repos := memory.NewStore().Repositories()
	uc := audit.NewAuditUseCase(repos.Audit, logger.New(logger.Config{Env: "production", Level: "info", Output: &buf}))

	uc.Record(context.Background(), ports.AuditEvent{
		EntityType: entity.AuditEntityProduct, EntityID: 1, Action: entity.AuditActionCreate, Actor: "ana",
		After: map[string]any{"canal": make(chan int)},
	})
	assert.Contains(t, buf.String(), "no se pudo registrar la bitácora")

	_, total, err := repos.Audit.List(context.Background(), repository.AuditFilter{}, repository.ListQuery{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestList_FiltrosYRango(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	uc := audit.NewAuditUseCase(repos.Audit, nil)

	day := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	for i, actor := range []string{"ana", "luis", "ana"} {
		require.NoError(t, repos.Audit.Append(ctx, &entity.AuditEntry{
			EntityType: entity.AuditEntityWarehouse, EntityID: 1, Action: entity.AuditActionUpdate, Actor: actor,
			NewValue: []byte(`{"name":"Norte"}`), CreatedAt: day.AddDate(0, 0, i),
		}))
	}

	from, to := day.AddDate(0, 0, 1), day.AddDate(0, 0, 3)
	page, err := uc.List(ctx, dto.AuditSearchRequest{Actor: " ana "}, &from, &to, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, int64(3), page.Content[0].ID)
	assert.JSONEq(t, `{"name":"Norte"}`, string(page.Content[0].NewValue))

	cases := map[string]func() error{
		"tipo desconocido": func() error {
			_, err := uc.List(ctx, dto.AuditSearchRequest{EntityType: "INVOICE"}, nil, nil, dto.PageRequest{})
			return err
		},
		"id negativo": func() error {
			_, err := uc.List(ctx, dto.AuditSearchRequest{EntityID: -1}, nil, nil, dto.PageRequest{})
			return err
		},
		"rango invertido": func() error {
			_, err := uc.List(ctx, dto.AuditSearchRequest{}, &to, &from, dto.PageRequest{})
			return err
		},
		"página fuera de rango": func() error {
			_, err := uc.List(ctx, dto.AuditSearchRequest{}, nil, nil, dto.PageRequest{Page: dto.MaxPage + 1})
			return err
		},
	}
	for name, call := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(), domain.ErrInvalidArgument)
		})
	}
}
