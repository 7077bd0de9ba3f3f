package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Location representa una ubicación física de almacenamiento (estantería,
// bodega, zona de picking). El stock por ubicación se lleva en StockLevel.
type Location struct {
	ID          string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StockLevel representa la cantidad de un producto en una ubicación concreta.
// La suma de niveles de un producto puede ser menor que current_stock: el
// stock sin ubicar no aparece aquí.
type StockLevel struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}
