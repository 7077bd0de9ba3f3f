package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ProductFilter filtros de listado de productos.
// Search se compara contra name_search (normalizado) y reference.
type ProductFilter struct {
	Search     string
	CategoryID string
	LowStock   bool // current_stock <= minimum_stock
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// UpdateStock y AdjustStock son las únicas vías de escritura sobre current_stock.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByReference(reference string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) dentro de la tx.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateStock fija el contador desnormalizado a un valor calculado bajo bloqueo.
	UpdateStock(productID string, stock decimal.Decimal) error
	// AdjustStock aplica un delta directo (usado por la eliminación de compras).
	AdjustStock(productID string, delta decimal.Decimal) error
	UpdatePurchasePrice(productID string, price decimal.Decimal) error
	List(f ProductFilter) ([]*entity.Product, error)
	Count(f ProductFilter) (int, error)
	SetActive(id string, active bool) error
}
