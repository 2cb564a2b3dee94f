package entity

import "time"

// StockLevel cantidad materializada de un producto en una bodega.
// Quantity es siempre la suma de los deltas de sus StockMovement y nunca es negativa.
type StockLevel struct {
	ID          int64
	ProductID   int64
	WarehouseID int64
	Quantity    int64
	MinQuantity *int64
	MaxQuantity *int64
	LastUpdated time.Time
}

// StockKey identifica un StockLevel.
type StockKey struct {
	ProductID   int64
	WarehouseID int64
}

// Key devuelve la llave (producto, bodega) del nivel.
func (s *StockLevel) Key() StockKey {
	return StockKey{ProductID: s.ProductID, WarehouseID: s.WarehouseID}
}

// IsLow indica si el nivel tiene mínimo definido y está en o por debajo de él.
func (s *StockLevel) IsLow() bool {
	return s.MinQuantity != nil && s.Quantity <= *s.MinQuantity
}

// Clone copia el nivel incluyendo los punteros de mínimo y máximo.
func (s *StockLevel) Clone() *StockLevel {
	c := *s
	if s.MinQuantity != nil {
		v := *s.MinQuantity
		c.MinQuantity = &v
	}
	if s.MaxQuantity != nil {
		v := *s.MaxQuantity
		c.MaxQuantity = &v
	}
	return &c
}
