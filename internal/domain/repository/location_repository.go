package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para Location.
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	Update(location *entity.Location) error
	List(activeOnly bool) ([]*entity.Location, error)
	SetActive(id string, active bool) error
}

// LocatedStock fila del listado de stock de una ubicación, con los datos del
// producto ya resueltos para la vista.
type LocatedStock struct {
	ProductID string
	Reference string
	Name      string
	Unit      string
	Quantity  decimal.Decimal
}

// StockLevelRepository define el puerto del stock por ubicación (producto ×
// ubicación → cantidad). Los niveles se mantienen junto al contador global
// dentro de la misma transacción.
type StockLevelRepository interface {
	Get(productID, locationID string) (*entity.StockLevel, error)
	// GetForUpdate bloquea el nivel (SELECT FOR UPDATE) dentro de la tx.
	GetForUpdate(productID, locationID string) (*entity.StockLevel, error)
	// Adjust aplica un delta al nivel, creándolo si no existe (upsert).
	Adjust(productID, locationID string, delta decimal.Decimal) error
	ListByProduct(productID string) ([]*entity.StockLevel, error)
	ListByLocation(locationID string, limit, offset int) ([]*LocatedStock, error)
	// SumByProduct devuelve el total ubicado del producto en todas las ubicaciones.
	SumByProduct(productID string) (decimal.Decimal, error)
}
