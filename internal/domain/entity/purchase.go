package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un achat (orden de compra a proveedor).
// received y cancelled son terminales.
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusPartial   = "partial"
	PurchaseStatusReceived  = "received"
	PurchaseStatusCancelled = "cancelled"
)

// Purchase representa una compra a un proveedor. El stock solo aumenta al
// recibir mercancía, nunca al crear la compra.
type Purchase struct {
	ID           string
	Reference    string // ACH-aaaammdd-hhmmss
	SupplierID   string
	UserID       string
	PurchaseDate time.Time
	Notes        string
	Total        decimal.Decimal
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PurchaseLine es una línea de compra. ReceivedQty acumula lo ya recibido;
// la línea queda inmutable una vez que la compra afecta el stock.
type PurchaseLine struct {
	ID          string
	PurchaseID  string
	ProductID   string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	ReceivedQty decimal.Decimal
}

// Outstanding devuelve la cantidad pendiente por recibir.
func (l *PurchaseLine) Outstanding() decimal.Decimal {
	return l.Quantity.Sub(l.ReceivedQty)
}

// LineTotal devuelve cantidad por costo unitario.
func (l *PurchaseLine) LineTotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCost)
}

// PurchaseTerminal indica si el estado no admite más transiciones.
func PurchaseTerminal(status string) bool {
	return status == PurchaseStatusReceived || status == PurchaseStatusCancelled
}
