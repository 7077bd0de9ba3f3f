package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	List(f DirectoryFilter) ([]*entity.Supplier, error)
	Count(f DirectoryFilter) (int, error)
	Delete(id string) error
}
