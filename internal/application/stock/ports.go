package stock

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad: toda mutación multi-fila
// (crear orden con líneas, anular orden, eliminar compra, recepción) pasa por aquí;
// nunca se persiste un efecto parcial.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		levelRepo repository.StockLevelRepository,
		orderRepo repository.OrderRepository,
		purchaseRepo repository.PurchaseRepository,
	) error) error
}
