package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// DirectoryFilter filtro simple de búsqueda para clientes y proveedores.
type DirectoryFilter struct {
	Search string
	Limit  int
	Offset int
}

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	Update(client *entity.Client) error
	List(f DirectoryFilter) ([]*entity.Client, error)
	Count(f DirectoryFilter) (int, error)
	Delete(id string) error
}
