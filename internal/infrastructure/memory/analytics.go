package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// AnalyticsRepository agregaciones de lectura sobre el snapshot confirmado.
type AnalyticsRepository struct {
	s *Store
}

func (r *AnalyticsRepository) StockValueByWarehouse(_ context.Context) ([]repository.WarehouseValueRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make(map[int64]*repository.WarehouseValueRow)
	for _, w := range r.s.warehouses {
		if !w.Active {
			continue
		}
		rows[w.ID] = &repository.WarehouseValueRow{
			WarehouseID:   w.ID,
			WarehouseName: w.Name,
			WarehouseCode: w.Code,
			Capacity:      w.Capacity,
			TotalValue:    decimal.Zero,
		}
	}
	for _, l := range r.s.levels {
		row, ok := rows[l.WarehouseID]
		if !ok {
			continue
		}
		row.TotalQuantity += l.Quantity
		if p, ok := r.s.products[l.ProductID]; ok {
			row.TotalValue = row.TotalValue.Add(p.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
		}
	}
	out := make([]repository.WarehouseValueRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out, nil
}

func (r *AnalyticsRepository) TopMovers(_ context.Context, from, to time.Time, limit int) ([]repository.ProductMovementRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make(map[int64]*repository.ProductMovementRow)
	for _, m := range r.s.movements {
		if m.CreatedAt.Before(from) || !m.CreatedAt.Before(to) {
			continue
		}
		row, ok := rows[m.ProductID]
		if !ok {
			row = &repository.ProductMovementRow{ProductID: m.ProductID}
			if p, ok := r.s.products[m.ProductID]; ok {
				row.ProductName, row.SKU = p.Name, p.SKU
			}
			rows[m.ProductID] = row
		}
		if m.Quantity > 0 {
			row.TotalIn += m.Quantity
		} else {
			row.TotalOut -= m.Quantity
		}
	}
	out := make([]repository.ProductMovementRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		vi, vj := out[i].TotalIn+out[i].TotalOut, out[j].TotalIn+out[j].TotalOut
		if vi != vj {
			return vi > vj
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AnalyticsRepository) DailyTotals(_ context.Context, from, to time.Time) ([]repository.DailyMovementRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	days := make(map[time.Time]*repository.DailyMovementRow)
	for _, m := range r.s.movements {
		if m.CreatedAt.Before(from) || !m.CreatedAt.Before(to) {
			continue
		}
		if m.Type != entity.MovementTypeIN && m.Type != entity.MovementTypeOUT {
			continue
		}
		u := m.CreatedAt.UTC()
		d := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
		row, ok := days[d]
		if !ok {
			row = &repository.DailyMovementRow{Date: d}
			days[d] = row
		}
		if m.Type == entity.MovementTypeIN {
			row.TotalIn += m.Quantity
		} else {
			row.TotalOut -= m.Quantity
		}
	}
	out := make([]repository.DailyMovementRow, 0, len(days))
	for _, row := range days {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
