package purchases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/purchase"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// UseCase implementa el ciclo de vida de las compras a proveedor: creación sin
// efecto de stock, recepción (parcial o total) con movimientos entry y costo
// promedio ponderado, anulación y borrado administrativo.
type UseCase struct {
	txRunner     stock.TxRunner
	stockUC      *stock.UseCase
	purchaseRepo repository.PurchaseRepository
	supplierRepo repository.SupplierRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner stock.TxRunner, stockUC *stock.UseCase, purchaseRepo repository.PurchaseRepository, supplierRepo repository.SupplierRepository) *UseCase {
	return &UseCase{txRunner: txRunner, stockUC: stockUC, purchaseRepo: purchaseRepo, supplierRepo: supplierRepo}
}

// Create valida y persiste una compra con sus líneas en estado pending.
// No mueve stock: el stock solo aumenta al recibir.
func (uc *UseCase) Create(ctx context.Context, actor domain.RequestContext, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if in.SupplierID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.Quantity.IsPositive() || !l.UnitCost.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	total := decimal.Zero
	for _, l := range in.Lines {
		total = total.Add(l.Quantity.Mul(l.UnitCost))
	}

	now := time.Now()
	p := &entity.Purchase{
		ID:           uuid.New().String(),
		Reference:    "ACH-" + now.Format("20060102-150405"),
		SupplierID:   in.SupplierID,
		UserID:       actor.UserID,
		PurchaseDate: now,
		Notes:        in.Notes,
		Total:        total,
		Status:       entity.PurchaseStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
		_ repository.StockLevelRepository,
		_ repository.OrderRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		if err := purchaseRepo.Create(p); err != nil {
			return err
		}
		for _, l := range in.Lines {
			line := &entity.PurchaseLine{
				ID:          uuid.New().String(),
				PurchaseID:  p.ID,
				ProductID:   l.ProductID,
				Quantity:    l.Quantity,
				UnitCost:    l.UnitCost,
				ReceivedQty: decimal.Zero,
			}
			if err := purchaseRepo.CreateLine(line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(p), nil
}

// Receive registra la recepción de mercancía. Sin líneas en el request se
// recibe todo lo pendiente. Por cada cantidad recibida: movimiento entry con la
// compra como documento, recálculo del costo promedio ponderado del producto y
// acumulado en received_qty. El estado queda en received si todas las líneas se
// completaron, partial si no. Solo desde pending/partial.
func (uc *UseCase) Receive(ctx context.Context, actor domain.RequestContext, purchaseID string, in dto.ReceivePurchaseRequest) (string, error) {
	now := time.Now()
	var newStatus string
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		levelRepo repository.StockLevelRepository,
		_ repository.OrderRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		p, err := purchaseRepo.GetForUpdate(purchaseID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := purchase.EnsureReceivable(p.Status); err != nil {
			return err
		}
		lines, err := purchaseRepo.ListLines(purchaseID)
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.PurchaseLine, len(lines))
		for _, l := range lines {
			byID[l.ID] = l
		}

		receipts := in.Lines
		if len(receipts) == 0 {
			// Recepción total: todo lo pendiente de cada línea.
			for _, l := range lines {
				if l.Outstanding().IsPositive() {
					receipts = append(receipts, dto.ReceiptLineRequest{LineID: l.ID, Quantity: l.Outstanding()})
				}
			}
			if len(receipts) == 0 {
				return domain.ErrInvalidInput
			}
		}

		for _, r := range receipts {
			line, ok := byID[r.LineID]
			if !ok {
				return domain.ErrNotFound
			}
			if !r.Quantity.IsPositive() || r.Quantity.GreaterThan(line.Outstanding()) {
				return domain.ErrInvalidInput
			}
			// Costo promedio ponderado antes de sumar el stock recibido.
			product, err := productRepo.GetByID(line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			newCost := inventory.WeightedAverageCost(product.CurrentStock, product.PurchasePrice, r.Quantity, line.UnitCost)
			if err := productRepo.UpdatePurchasePrice(line.ProductID, newCost); err != nil {
				return err
			}
			mov := stock.MovementInput{
				ProductID:    line.ProductID,
				Type:         entity.MovementTypeEntry,
				Quantity:     r.Quantity,
				UserID:       actor.UserID,
				DocumentType: entity.DocumentTypePurchase,
				DocumentID:   purchaseID,
				Note:         "purchase receipt",
			}
			if err := uc.stockUC.ApplyInTx(movRepo, productRepo, levelRepo, mov, now); err != nil {
				return err
			}
			line.ReceivedQty = line.ReceivedQty.Add(r.Quantity)
			if err := purchaseRepo.UpdateLineReceived(line.ID, line.ReceivedQty); err != nil {
				return err
			}
		}

		newStatus = purchase.StatusAfterReceipt(lines)
		return purchaseRepo.UpdateStatus(purchaseID, newStatus)
	})
	if err != nil {
		return "", err
	}
	return newStatus, nil
}

// Cancel anula una compra desde pending/partial. Lo ya recibido permanece en
// stock; la anulación no genera movimientos.
func (uc *UseCase) Cancel(ctx context.Context, actor domain.RequestContext, purchaseID string) error {
	p, err := uc.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if !purchase.CanCancel(p.Status) {
		return domain.ErrInvalidTransition
	}
	// Compare-and-set: una recepción concurrente que ya cerró la compra no
	// debe quedar pisada por la anulación.
	applied, err := uc.purchaseRepo.UpdateStatusFrom(purchaseID, p.Status, entity.PurchaseStatusCancelled)
	if err != nil {
		return err
	}
	if !applied {
		return domain.ErrInvalidTransition
	}
	return nil
}

// Delete elimina una compra pending con sus líneas. Solo administradores.
// Reproduce el comportamiento heredado: decrementa current_stock por cada línea
// de forma directa, sin fila en el libro de movimientos. La conciliación puede
// reportar la diferencia; no se corrige aquí.
func (uc *UseCase) Delete(ctx context.Context, actor domain.RequestContext, purchaseID string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return uc.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		_ repository.StockLevelRepository,
		_ repository.OrderRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		p, err := purchaseRepo.GetForUpdate(purchaseID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if !purchase.CanDelete(p.Status) {
			return domain.ErrInvalidTransition
		}
		lines, err := purchaseRepo.ListLines(purchaseID)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if err := productRepo.AdjustStock(l.ProductID, l.Quantity.Neg()); err != nil {
				return err
			}
		}
		if err := purchaseRepo.DeleteLines(purchaseID); err != nil {
			return err
		}
		return purchaseRepo.Delete(purchaseID)
	})
}

// Get devuelve la compra con sus líneas.
func (uc *UseCase) Get(ctx context.Context, purchaseID string) (*dto.PurchaseDetailResponse, error) {
	p, err := uc.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.purchaseRepo.ListLines(purchaseID)
	if err != nil {
		return nil, err
	}
	detail := &dto.PurchaseDetailResponse{PurchaseResponse: *toPurchaseResponse(p)}
	for _, l := range lines {
		detail.Lines = append(detail.Lines, dto.PurchaseLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
			ReceivedQty: l.ReceivedQty,
			LineTotal:   l.LineTotal(),
		})
	}
	return detail, nil
}

// List lista compras con filtros y paginación.
func (uc *UseCase) List(ctx context.Context, f repository.PurchaseFilter) (*dto.PurchaseListResponse, error) {
	list, err := uc.purchaseRepo.List(f)
	if err != nil {
		return nil, err
	}
	total, err := uc.purchaseRepo.Count(f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPurchaseResponse(p))
	}
	return &dto.PurchaseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total},
	}, nil
}

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	if p == nil {
		return nil
	}
	return &dto.PurchaseResponse{
		ID:           p.ID,
		Reference:    p.Reference,
		SupplierID:   p.SupplierID,
		UserID:       p.UserID,
		PurchaseDate: p.PurchaseDate,
		Notes:        p.Notes,
		Total:        p.Total,
		Status:       p.Status,
	}
}
