package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleStaff   = "STAFF"
)

// User usuario del sistema. Username es el actor que queda en movimientos y órdenes.
type User struct {
	ID           int64
	Username     string
	Email        string
	FullName     string
	PasswordHash string // bcrypt
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole indica si r es un rol conocido.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleManager || r == RoleStaff
}
