package memory

import (
	"context"
	"errors"

	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// errNoUnit GetForUpdate solo tiene sentido dentro de TxRunner.
var errNoUnit = errors.New("memory: bloqueo fuera de una unidad")

// txState cambios pendientes de una unidad y las llaves que tiene bloqueadas.
type txState struct {
	s      *Store
	held   map[string]struct{}
	order  []string
	levels map[entity.StockKey]*entity.StockLevel
	movs   []*entity.StockMovement
	orders map[int64]*entity.PurchaseOrder
}

func (s *Store) begin() *txState {
	return &txState{
		s:      s,
		held:   make(map[string]struct{}),
		levels: make(map[entity.StockKey]*entity.StockLevel),
		orders: make(map[int64]*entity.PurchaseOrder),
	}
}

// lock es reentrante dentro de la misma unidad.
func (tx *txState) lock(ctx context.Context, key string) error {
	if _, ok := tx.held[key]; ok {
		return nil
	}
	if err := tx.s.locks.acquire(ctx, key); err != nil {
		return err
	}
	tx.held[key] = struct{}{}
	tx.order = append(tx.order, key)
	return nil
}

func (tx *txState) releaseAll() {
	for i := len(tx.order) - 1; i >= 0; i-- {
		tx.s.locks.release(tx.order[i])
	}
	tx.order = nil
	clear(tx.held)
}

// commit publica todo bajo el candado de escritura: los lectores ven la unidad completa o nada.
func (tx *txState) commit() {
	s := tx.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, l := range tx.levels {
		if l.ID == 0 {
			s.levelSeq++
			l.ID = s.levelSeq
		}
		s.levels[k] = l.Clone()
	}
	for _, m := range tx.movs {
		s.movementSeq++
		m.ID = s.movementSeq
		c := *m
		s.movements = append(s.movements, &c)
	}
	for id, o := range tx.orders {
		s.orders[id] = o.Clone()
	}
}

// TxRunner unidades atómicas sobre el store. Implementa los TxRunner de inventario y compras.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con los repositorios de stock de la unidad.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockLevelRepository,
) error) error {
	return r.run(ctx, func(tx *txState) error {
		return fn(&StockMovementRepository{s: r.s, tx: tx}, &StockLevelRepository{s: r.s, tx: tx})
	})
}

// RunPurchasing ejecuta fn con los repositorios de stock y órdenes de la unidad.
func (r *TxRunner) RunPurchasing(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockLevelRepository,
	orderRepo repository.PurchaseOrderRepository,
) error) error {
	return r.run(ctx, func(tx *txState) error {
		return fn(
			&StockMovementRepository{s: r.s, tx: tx},
			&StockLevelRepository{s: r.s, tx: tx},
			&PurchaseOrderRepository{s: r.s, tx: tx},
		)
	})
}

func (r *TxRunner) run(ctx context.Context, fn func(tx *txState) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := r.s.begin()
	defer tx.releaseAll()
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}
