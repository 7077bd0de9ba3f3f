package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"     // administrador: gestión completa, borrado de órdenes/compras
	RoleBodeguero = "bodeguero" // encargado de bodega: movimientos de stock, recepciones
	RoleVendedor  = "vendedor"  // comercial: órdenes de venta
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string // bcrypt, nunca en claro después de persistir
	Role         string // admin, bodeguero, vendedor
	Active       bool
	CreatedAt    time.Time
	LastAccess   *time.Time
}

// ValidRole verifica que el rol pertenezca al conjunto soportado.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleBodeguero, RoleVendedor:
		return true
	}
	return false
}
