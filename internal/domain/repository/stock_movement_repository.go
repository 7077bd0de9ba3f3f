package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// MovementFilter filtros del listado de movimientos.
type MovementFilter struct {
	ProductID  string
	LocationID string
	Type       string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// StockImbalance producto cuyo contador desnormalizado difiere de la suma del libro.
type StockImbalance struct {
	ProductID    string
	Reference    string
	Name         string
	CurrentStock decimal.Decimal
	LedgerSum    decimal.Decimal
}

// StockMovementRepository define el puerto de persistencia del libro de movimientos.
// El libro es append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	List(f MovementFilter) ([]*entity.StockMovement, error)
	Count(f MovementFilter) (int, error)
	// SumByProduct devuelve la suma con signo de todos los movimientos del producto.
	SumByProduct(productID string) (decimal.Decimal, error)
	// ListImbalances devuelve los productos con current_stock distinto de la suma del libro.
	ListImbalances() ([]*StockImbalance, error)
}
