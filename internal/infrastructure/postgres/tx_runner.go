package postgres

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventory-core/internal/application/inventory"
	"github.com/jhoicas/inventory-core/internal/application/purchasing"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

var (
	_ inventory.TxRunner  = (*TxRunner)(nil)
	_ purchasing.TxRunner = (*TxRunner)(nil)
)

const maxTxRetries = 3

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Un deadlock o fallo de serialización reintenta la transacción completa hasta maxTxRetries veces.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockLevelRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewStockMovementRepository(tx), newTxStockLevelRepository(tx))
	})
}

// RunPurchasing transacción con repos de stock y órdenes (recepción de mercancía).
func (r *TxRunner) RunPurchasing(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockRepo repository.StockLevelRepository,
	orderRepo repository.PurchaseOrderRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewStockMovementRepository(tx), newTxStockLevelRepository(tx), newTxPurchaseOrderRepository(tx))
	})
}

func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	backoff := 20 * time.Millisecond
	for attempt := 0; ; attempt++ {
		err := r.once(ctx, fn)
		if err == nil || !isRetryable(err) || attempt == maxTxRetries {
			return err
		}
		wait := backoff + time.Duration(rand.Int64N(int64(backoff/4)+1))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
}

func (r *TxRunner) once(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", classify(err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", classify(err))
	}
	return nil
}
