package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/order"
)

// La tabla cubre el producto cartesiano completo estado × acción: toda
// combinación no listada como legal debe fallar con ErrInvalidTransition.
func TestNextStatus_TablaExhaustiva(t *testing.T) {
	legal := map[string]map[string]string{
		entity.OrderStatusDraft: {
			order.ActionConfirm: entity.OrderStatusConfirmed,
			order.ActionCancel:  entity.OrderStatusCancelled,
		},
		entity.OrderStatusConfirmed: {
			order.ActionPrepare: entity.OrderStatusPreparing,
			order.ActionCancel:  entity.OrderStatusCancelled,
		},
		entity.OrderStatusPreparing: {
			order.ActionDeliver: entity.OrderStatusDelivered,
			order.ActionCancel:  entity.OrderStatusCancelled,
		},
	}
	statuses := []string{
		entity.OrderStatusDraft,
		entity.OrderStatusConfirmed,
		entity.OrderStatusPreparing,
		entity.OrderStatusDelivered,
		entity.OrderStatusCancelled,
	}
	actions := []string{
		order.ActionConfirm,
		order.ActionPrepare,
		order.ActionDeliver,
		order.ActionCancel,
	}

	for _, status := range statuses {
		for _, action := range actions {
			want, ok := legal[status][action]
			got, err := order.NextStatus(status, action)
			if ok {
				require.NoError(t, err, "%s + %s debe ser legal", status, action)
				assert.Equal(t, want, got)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidTransition,
					"%s + %s debe ser ilegal", status, action)
			}
		}
	}
}

func TestNextStatus_EstadosTerminalesSinSalida(t *testing.T) {
	for _, status := range []string{entity.OrderStatusDelivered, entity.OrderStatusCancelled} {
		_, err := order.NextStatus(status, order.ActionCancel)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition,
			"cancelar desde %s debe rechazarse", status)
	}
}

func TestNextStatus_AccionDesconocida(t *testing.T) {
	_, err := order.NextStatus(entity.OrderStatusDraft, "ship")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestNextStatus_EstadoDesconocido(t *testing.T) {
	_, err := order.NextStatus("archived", order.ActionConfirm)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestOrderTerminal(t *testing.T) {
	assert.True(t, entity.OrderTerminal(entity.OrderStatusDelivered))
	assert.True(t, entity.OrderTerminal(entity.OrderStatusCancelled))
	assert.False(t, entity.OrderTerminal(entity.OrderStatusDraft))
	assert.False(t, entity.OrderTerminal(entity.OrderStatusConfirmed))
	assert.False(t, entity.OrderTerminal(entity.OrderStatusPreparing))
}
