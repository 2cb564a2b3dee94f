package entity

import "time"

// Supplier proveedor al que se emiten órdenes de compra.
type Supplier struct {
	ID          int64
	Name        string
	ContactName string
	Email       string
	Phone       string
	Address     string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
