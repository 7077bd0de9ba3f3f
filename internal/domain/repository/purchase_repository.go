package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// PurchaseFilter filtros del listado de compras.
type PurchaseFilter struct {
	Status     string
	SupplierID string
	Search     string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// PurchaseRepository define el puerto de persistencia para Purchase y sus líneas.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	CreateLine(line *entity.PurchaseLine) error
	GetByID(id string) (*entity.Purchase, error)
	// GetForUpdate bloquea la fila de la compra durante recepción/anulación/borrado.
	GetForUpdate(id string) (*entity.Purchase, error)
	ListLines(purchaseID string) ([]*entity.PurchaseLine, error)
	UpdateStatus(id, status string) error
	// UpdateStatusFrom actualiza el estado solo si el actual sigue siendo from
	// (compare-and-set contra transiciones concurrentes). Devuelve si aplicó.
	UpdateStatusFrom(id, from, to string) (bool, error)
	UpdateLineReceived(lineID string, receivedQty decimal.Decimal) error
	List(f PurchaseFilter) ([]*entity.Purchase, error)
	Count(f PurchaseFilter) (int, error)
	Delete(id string) error
	DeleteLines(purchaseID string) error
	CountBySupplier(supplierID string) (int, error)
}
