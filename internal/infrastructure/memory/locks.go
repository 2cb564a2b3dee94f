package memory

import (
	"context"
	"fmt"
	"sync"
)

// lockTable un semáforo de capacidad 1 por llave. Adquirir respeta la cancelación del contexto.
type lockTable struct {
	mu   sync.Mutex
	sems map[string]chan struct{}
}

func newLockTable() *lockTable {
	return &lockTable{sems: make(map[string]chan struct{})}
}

func (t *lockTable) sem(key string) chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch, ok := t.sems[key]
	if !ok {
		ch = make(chan struct{}, 1)
		t.sems[key] = ch
	}
	return ch
}

func (t *lockTable) acquire(ctx context.Context, key string) error {
	select {
	case t.sem(key) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("memory: esperando bloqueo %s: %w", key, ctx.Err())
	}
}

func (t *lockTable) release(key string) {
	<-t.sem(key)
}

func stockLockKey(productID, warehouseID int64) string {
	return fmt.Sprintf("stock:%d:%d", productID, warehouseID)
}

func orderLockKey(id int64) string {
	return fmt.Sprintf("order:%d", id)
}
