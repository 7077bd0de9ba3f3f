package orders

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// OrderLineForPDF línea enriquecida con datos del producto para la hoja de pedido.
type OrderLineForPDF struct {
	Reference string
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// OrderPDFGenerator genera la hoja de pedido imprimible de una orden.
type OrderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, o *entity.Order, client *entity.Client, lines []OrderLineForPDF) ([]byte, error)
}
