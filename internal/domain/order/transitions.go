package order

import (
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Acciones sobre una orden de venta.
const (
	ActionConfirm = "confirm"
	ActionPrepare = "prepare"
	ActionDeliver = "deliver"
	ActionCancel  = "cancel"
)

// transitions define la tabla exhaustiva de transiciones legales:
// draft → confirmed → preparing → delivered; cancel desde cualquier estado no terminal.
var transitions = map[string]map[string]string{
	entity.OrderStatusDraft: {
		ActionConfirm: entity.OrderStatusConfirmed,
		ActionCancel:  entity.OrderStatusCancelled,
	},
	entity.OrderStatusConfirmed: {
		ActionPrepare: entity.OrderStatusPreparing,
		ActionCancel:  entity.OrderStatusCancelled,
	},
	entity.OrderStatusPreparing: {
		ActionDeliver: entity.OrderStatusDelivered,
		ActionCancel:  entity.OrderStatusCancelled,
	},
	// delivered y cancelled: terminales, sin transiciones.
}

// NextStatus resuelve la transición para (estado actual, acción).
// Devuelve ErrInvalidTransition si la acción no es legal desde ese estado.
func NextStatus(current, action string) (string, error) {
	next, ok := transitions[current][action]
	if !ok {
		return "", domain.ErrInvalidTransition
	}
	return next, nil
}
