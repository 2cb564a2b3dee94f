package entity

import "time"

// MovementType tipo de movimiento del libro de stock.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         MovementType = "IN"         // entrada
	MovementTypeOUT        MovementType = "OUT"        // salida
	MovementTypeADJUSTMENT MovementType = "ADJUSTMENT" // ajuste (+/-)
	MovementTypeTRANSFER   MovementType = "TRANSFER"   // traslado entre bodegas
)

// Valid indica si t es un tipo conocido.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUSTMENT, MovementTypeTRANSFER:
		return true
	}
	return false
}

// StockMovement entrada inmutable del libro. ID es el número de secuencia que ordena
// totalmente los movimientos; Quantity es el delta con signo.
type StockMovement struct {
	ID            int64
	TransactionID string // enlaza las patas de un traslado o las líneas de una recepción
	ProductID     int64
	WarehouseID   int64
	Type          MovementType
	Quantity      int64
	Reference     string
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
}
