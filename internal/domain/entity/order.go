package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una commande (orden de venta).
// delivered y cancelled son terminales.
const (
	OrderStatusDraft     = "draft"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Order representa una orden de venta a un cliente.
// Total es el monto antes de impuestos, con el descuento ya aplicado.
type Order struct {
	ID           string
	Reference    string // CMD-aaaammdd-hhmmss
	ClientID     string
	UserID       string // usuario que creó la orden
	OrderDate    time.Time
	DeliveryDate *time.Time
	DiscountPct  decimal.Decimal
	Notes        string
	Total        decimal.Decimal
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderLine es una línea de la orden. UnitPrice captura el precio al momento
// de crearla; un cambio posterior en el catálogo no altera el histórico.
type OrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// LineTotal devuelve cantidad por precio unitario.
func (l *OrderLine) LineTotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// OrderTerminal indica si el estado no admite más transiciones.
func OrderTerminal(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}
