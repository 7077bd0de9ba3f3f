package purchase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/purchase"
)

func TestCanReceive(t *testing.T) {
	assert.True(t, purchase.CanReceive(entity.PurchaseStatusPending))
	assert.True(t, purchase.CanReceive(entity.PurchaseStatusPartial))
	assert.False(t, purchase.CanReceive(entity.PurchaseStatusReceived))
	assert.False(t, purchase.CanReceive(entity.PurchaseStatusCancelled))
}

func TestCanCancel(t *testing.T) {
	assert.True(t, purchase.CanCancel(entity.PurchaseStatusPending))
	assert.True(t, purchase.CanCancel(entity.PurchaseStatusPartial))
	assert.False(t, purchase.CanCancel(entity.PurchaseStatusReceived))
	assert.False(t, purchase.CanCancel(entity.PurchaseStatusCancelled))
}

// Eliminar solo es legal antes de cualquier recepción.
func TestCanDelete_SoloPending(t *testing.T) {
	assert.True(t, purchase.CanDelete(entity.PurchaseStatusPending))
	assert.False(t, purchase.CanDelete(entity.PurchaseStatusPartial))
	assert.False(t, purchase.CanDelete(entity.PurchaseStatusReceived))
	assert.False(t, purchase.CanDelete(entity.PurchaseStatusCancelled))
}

func TestEnsureReceivable(t *testing.T) {
	assert.NoError(t, purchase.EnsureReceivable(entity.PurchaseStatusPending))
	assert.NoError(t, purchase.EnsureReceivable(entity.PurchaseStatusPartial))
	assert.ErrorIs(t, purchase.EnsureReceivable(entity.PurchaseStatusReceived), domain.ErrInvalidTransition)
	assert.ErrorIs(t, purchase.EnsureReceivable(entity.PurchaseStatusCancelled), domain.ErrInvalidTransition)
}

func TestStatusAfterReceipt_TodoRecibido(t *testing.T) {
	lines := []*entity.PurchaseLine{
		{Quantity: decimal.NewFromInt(5), ReceivedQty: decimal.NewFromInt(5)},
		{Quantity: decimal.NewFromInt(2), ReceivedQty: decimal.NewFromInt(2)},
	}
	assert.Equal(t, entity.PurchaseStatusReceived, purchase.StatusAfterReceipt(lines))
}

func TestStatusAfterReceipt_QuedaPendiente(t *testing.T) {
	lines := []*entity.PurchaseLine{
		{Quantity: decimal.NewFromInt(5), ReceivedQty: decimal.NewFromInt(5)},
		{Quantity: decimal.NewFromInt(2), ReceivedQty: decimal.NewFromInt(1)},
	}
	assert.Equal(t, entity.PurchaseStatusPartial, purchase.StatusAfterReceipt(lines))
}

func TestStatusAfterReceipt_SinLineas(t *testing.T) {
	// Sin líneas no hay nada pendiente: cuenta como recibido.
	assert.Equal(t, entity.PurchaseStatusReceived, purchase.StatusAfterReceipt(nil))
}

func TestOutstanding(t *testing.T) {
	l := &entity.PurchaseLine{Quantity: decimal.NewFromInt(10), ReceivedQty: decimal.NewFromInt(4)}
	assert.True(t, l.Outstanding().Equal(decimal.NewFromInt(6)))
}
