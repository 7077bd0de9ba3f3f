package entity

import "time"

// Client representa un cliente (destinatario de órdenes de venta).
// No puede eliminarse mientras tenga órdenes asociadas.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
