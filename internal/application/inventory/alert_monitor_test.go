package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/application/ports"
)

type stubSource struct {
	alerts []dto.LowStockAlertDTO
	err    error
}

func (s *stubSource) LowStockAlerts(context.Context) ([]dto.LowStockAlertDTO, error) {
	return s.alerts, s.err
}

type gaugeSpy struct {
	ports.NopMetrics
	last int
}

func (g *gaugeSpy) LowStockLevels(n int) { g.last = n }

func TestAlertMonitor_SoloReportaLlavesNuevas(t *testing.T) {
	src := &stubSource{alerts: []dto.LowStockAlertDTO{{ProductID: 1, WarehouseID: 1}}}
	spy := &gaugeSpy{}
	m := NewAlertMonitor(src, spy, nil, 0)
	ctx := context.Background()

	assert.Len(t, m.Check(ctx), 1)
	assert.Equal(t, 1, spy.last)
	assert.Empty(t, m.Check(ctx))

	src.alerts = append(src.alerts, dto.LowStockAlertDTO{ProductID: 2, WarehouseID: 1})
	fresh := m.Check(ctx)
	assert.Len(t, fresh, 1)
	assert.Equal(t, int64(2), fresh[0].ProductID)
	assert.Equal(t, 2, spy.last)

	// una llave que se recupera y vuelve a caer se reporta de nuevo
	src.alerts = src.alerts[1:]
	assert.Empty(t, m.Check(ctx))
	src.alerts = append(src.alerts, dto.LowStockAlertDTO{ProductID: 1, WarehouseID: 1})
	assert.Len(t, m.Check(ctx), 1)
}

func TestAlertMonitor_ErrorNoRompe(t *testing.T) {
	m := NewAlertMonitor(&stubSource{err: errors.New("db caída")}, nil, nil, 0)
	assert.Nil(t, m.Check(context.Background()))
	m.Run(context.Background()) // interval 0: retorna de inmediato
}
