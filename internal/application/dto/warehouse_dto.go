package dto

import "time"

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Code     string `json:"code" validate:"required,min=1,max=20"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Address  string `json:"address" validate:"max=300"`
	Capacity *int64 `json:"capacity" validate:"omitempty,gte=0"`
}

// UpdateWarehouseRequest actualización parcial. El código no se puede cambiar.
type UpdateWarehouseRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Address  *string `json:"address" validate:"omitempty,max=300"`
	Capacity *int64  `json:"capacity" validate:"omitempty,gte=0"`
	Active   *bool   `json:"active"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Capacity  *int64    `json:"capacity"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
