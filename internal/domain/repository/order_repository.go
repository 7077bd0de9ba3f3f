package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// OrderFilter filtros del listado de órdenes de venta.
// Search se compara contra la referencia de la orden y el nombre del cliente.
type OrderFilter struct {
	Status   string
	ClientID string
	Search   string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	Create(order *entity.Order) error
	CreateLine(line *entity.OrderLine) error
	GetByID(id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila de la orden durante una transición de estado.
	GetForUpdate(id string) (*entity.Order, error)
	ListLines(orderID string) ([]*entity.OrderLine, error)
	UpdateStatus(id, status string) error
	// UpdateStatusFrom actualiza el estado solo si el actual sigue siendo from
	// (compare-and-set contra transiciones concurrentes). Devuelve si aplicó.
	UpdateStatusFrom(id, from, to string) (bool, error)
	List(f OrderFilter) ([]*entity.Order, error)
	Count(f OrderFilter) (int, error)
	Delete(id string) error
	DeleteLines(orderID string) error
	CountByClient(clientID string) (int, error)
}
