package entity

import "time"

// Warehouse representa una bodega. Code es único e inmutable.
// Capacity es informativa: el libro de stock no la hace cumplir.
type Warehouse struct {
	ID        int64
	Code      string
	Name      string
	Address   string
	Capacity  *int64
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
