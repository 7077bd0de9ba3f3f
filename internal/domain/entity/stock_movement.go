package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeEntry      = "entry"      // entrada (recepción, anulación de commande)
	MovementTypeExit       = "exit"       // salida (venta, commande)
	MovementTypeInventory  = "inventory"  // conteo de inventario
	MovementTypeAdjustment = "adjustment" // ajuste manual (cantidad con signo)
)

// Tipos de documento que originan un movimiento (trazabilidad).
const (
	DocumentTypeOrder    = "order"
	DocumentTypePurchase = "purchase"
)

// StockMovement es una entrada inmutable del libro de movimientos (append-only).
// Quantity guarda la magnitud positiva; el signo lo determina el tipo.
// Para adjustment la cantidad lleva el signo que indique el operador.
type StockMovement struct {
	ID           string
	ProductID    string
	LocationID   string // ubicación afectada; vacío = stock sin ubicar
	Type         string
	Quantity     decimal.Decimal
	UserID       string
	DocumentType string // "order" | "purchase" | "" (movimiento manual)
	DocumentID   string
	Note         string
	CreatedAt    time.Time
}

// SignedDelta devuelve el efecto del movimiento sobre el stock actual:
// entry/inventory suman, exit resta, adjustment aplica la cantidad tal cual.
func (m *StockMovement) SignedDelta() decimal.Decimal {
	return SignedDelta(m.Type, m.Quantity)
}

// SignedDelta aplica la semántica de signo de cada tipo de movimiento.
func SignedDelta(movementType string, quantity decimal.Decimal) decimal.Decimal {
	switch movementType {
	case MovementTypeExit:
		return quantity.Neg()
	default:
		return quantity
	}
}

// ValidMovementType verifica que el tipo pertenezca al conjunto soportado.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeInventory, MovementTypeAdjustment:
		return true
	}
	return false
}
