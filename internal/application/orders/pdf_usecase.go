package orders

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// PDFUseCase arma la hoja de pedido de una orden: orden + cliente + líneas con
// datos del producto, y delega el render al generador (Maroto).
type PDFUseCase struct {
	orderRepo   repository.OrderRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	generator   OrderPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(orderRepo repository.OrderRepository, clientRepo repository.ClientRepository, productRepo repository.ProductRepository, generator OrderPDFGenerator) *PDFUseCase {
	return &PDFUseCase{orderRepo: orderRepo, clientRepo: clientRepo, productRepo: productRepo, generator: generator}
}

// Generate produce los bytes del PDF de la orden.
func (uc *PDFUseCase) Generate(ctx context.Context, orderID string) ([]byte, error) {
	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	client, err := uc.clientRepo.GetByID(o.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.orderRepo.ListLines(orderID)
	if err != nil {
		return nil, err
	}
	pdfLines := make([]OrderLineForPDF, 0, len(lines))
	for _, l := range lines {
		ref, name := l.ProductID, ""
		if p, err := uc.productRepo.GetByID(l.ProductID); err == nil && p != nil {
			ref, name = p.Reference, p.Name
		}
		pdfLines = append(pdfLines, OrderLineForPDF{
			Reference: ref,
			Name:      name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal(),
		})
	}
	return uc.generator.GenerateOrderPDF(ctx, o, client, pdfLines)
}
