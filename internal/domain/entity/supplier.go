package entity

import "time"

// Supplier representa un proveedor (origen de compras).
// No puede eliminarse mientras tenga compras asociadas.
type Supplier struct {
	ID        string
	Name      string // razón social
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
