package purchase

import (
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// CanReceive indica si una compra admite recepción de mercancía.
func CanReceive(status string) bool {
	return status == entity.PurchaseStatusPending || status == entity.PurchaseStatusPartial
}

// CanCancel indica si una compra puede anularse (solo pending o partial).
func CanCancel(status string) bool {
	return status == entity.PurchaseStatusPending || status == entity.PurchaseStatusPartial
}

// CanDelete indica si una compra puede eliminarse: únicamente en pending,
// antes de que exista recepción alguna.
func CanDelete(status string) bool {
	return status == entity.PurchaseStatusPending
}

// StatusAfterReceipt calcula el estado tras una recepción: received si todas
// las líneas quedaron completas, partial en caso contrario.
func StatusAfterReceipt(lines []*entity.PurchaseLine) string {
	for _, l := range lines {
		if l.Outstanding().IsPositive() {
			return entity.PurchaseStatusPartial
		}
	}
	return entity.PurchaseStatusReceived
}

// EnsureReceivable valida el estado previo a una recepción.
func EnsureReceivable(status string) error {
	if !CanReceive(status) {
		return domain.ErrInvalidTransition
	}
	return nil
}
