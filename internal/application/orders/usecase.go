package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/order"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// UseCase implementa el ciclo de vida de las órdenes de venta:
// creación con descuento explícito de stock por línea, transiciones de estado
// (confirm/prepare/deliver/cancel) y borrado administrativo.
type UseCase struct {
	txRunner   stock.TxRunner
	stockUC    *stock.UseCase
	orderRepo  repository.OrderRepository
	clientRepo repository.ClientRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner stock.TxRunner, stockUC *stock.UseCase, orderRepo repository.OrderRepository, clientRepo repository.ClientRepository) *UseCase {
	return &UseCase{txRunner: txRunner, stockUC: stockUC, orderRepo: orderRepo, clientRepo: clientRepo}
}

// Create valida y persiste una orden con sus líneas. El descuento de stock es
// explícito y transaccional: una salida (exit) por línea, con la orden como
// documento de origen. Total = Σ(cant × precio) × (1 − descuento/100).
func (uc *UseCase) Create(ctx context.Context, actor domain.RequestContext, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.ClientID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.DiscountPct.IsNegative() || in.DiscountPct.GreaterThan(hundred) {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.Quantity.IsPositive() || !l.UnitPrice.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
	}
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	total := decimal.Zero
	for _, l := range in.Lines {
		total = total.Add(l.Quantity.Mul(l.UnitPrice))
	}
	total = total.Mul(hundred.Sub(in.DiscountPct)).Div(hundred)

	now := time.Now()
	o := &entity.Order{
		ID:           uuid.New().String(),
		Reference:    "CMD-" + now.Format("20060102-150405"),
		ClientID:     in.ClientID,
		UserID:       actor.UserID,
		OrderDate:    now,
		DeliveryDate: in.DeliveryDate,
		DiscountPct:  in.DiscountPct,
		Notes:        in.Notes,
		Total:        total,
		Status:       entity.OrderStatusDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		levelRepo repository.StockLevelRepository,
		orderRepo repository.OrderRepository,
		_ repository.PurchaseRepository,
	) error {
		if err := orderRepo.Create(o); err != nil {
			return err
		}
		for _, l := range in.Lines {
			line := &entity.OrderLine{
				ID:        uuid.New().String(),
				OrderID:   o.ID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
			}
			if err := orderRepo.CreateLine(line); err != nil {
				return err
			}
			mov := stock.MovementInput{
				ProductID:    l.ProductID,
				Type:         entity.MovementTypeExit,
				Quantity:     l.Quantity,
				UserID:       actor.UserID,
				DocumentType: entity.DocumentTypeOrder,
				DocumentID:   o.ID,
				Note:         "order creation",
			}
			if err := uc.stockUC.ApplyInTx(movRepo, productRepo, levelRepo, mov, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// Transition aplica una acción sobre la orden según la tabla de transiciones.
// confirm/prepare/deliver son actualizaciones puras de estado; cancel devuelve
// cada línea al stock con un movimiento entry y marca la orden como cancelled,
// todo en una sola transacción.
func (uc *UseCase) Transition(ctx context.Context, actor domain.RequestContext, orderID, action string) (string, error) {
	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return "", err
	}
	if o == nil {
		return "", domain.ErrNotFound
	}
	next, err := order.NextStatus(o.Status, action)
	if err != nil {
		return "", err
	}

	if action != order.ActionCancel {
		// Compare-and-set: si otra transición (p. ej. una anulación) movió el
		// estado entre la lectura y el UPDATE, no se pisa.
		applied, err := uc.orderRepo.UpdateStatusFrom(orderID, o.Status, next)
		if err != nil {
			return "", err
		}
		if !applied {
			return "", domain.ErrInvalidTransition
		}
		return next, nil
	}

	now := time.Now()
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		levelRepo repository.StockLevelRepository,
		orderRepo repository.OrderRepository,
		_ repository.PurchaseRepository,
	) error {
		// Revalida el estado bajo bloqueo: dos cancelaciones concurrentes
		// no deben devolver el stock dos veces.
		locked, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if _, err := order.NextStatus(locked.Status, order.ActionCancel); err != nil {
			return err
		}
		lines, err := orderRepo.ListLines(orderID)
		if err != nil {
			return err
		}
		for _, l := range lines {
			mov := stock.MovementInput{
				ProductID:    l.ProductID,
				Type:         entity.MovementTypeEntry,
				Quantity:     l.Quantity,
				UserID:       actor.UserID,
				DocumentType: entity.DocumentTypeOrder,
				DocumentID:   orderID,
				Note:         "order cancellation",
			}
			if err := uc.stockUC.ApplyInTx(movRepo, productRepo, levelRepo, mov, now); err != nil {
				return err
			}
		}
		return orderRepo.UpdateStatus(orderID, entity.OrderStatusCancelled)
	})
	if err != nil {
		return "", err
	}
	return entity.OrderStatusCancelled, nil
}

// Delete elimina la orden y sus líneas. Solo administradores.
// No revierte movimientos de stock: asimetría heredada frente a cancel.
func (uc *UseCase) Delete(ctx context.Context, actor domain.RequestContext, orderID string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return domain.ErrNotFound
	}
	return uc.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
		_ repository.StockLevelRepository,
		orderRepo repository.OrderRepository,
		_ repository.PurchaseRepository,
	) error {
		if err := orderRepo.DeleteLines(orderID); err != nil {
			return err
		}
		return orderRepo.Delete(orderID)
	})
}

// Get devuelve la orden con sus líneas.
func (uc *UseCase) Get(ctx context.Context, orderID string) (*dto.OrderDetailResponse, error) {
	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.orderRepo.ListLines(orderID)
	if err != nil {
		return nil, err
	}
	detail := &dto.OrderDetailResponse{OrderResponse: *toOrderResponse(o)}
	for _, l := range lines {
		detail.Lines = append(detail.Lines, dto.OrderLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal(),
		})
	}
	return detail, nil
}

// List lista órdenes con filtros y paginación.
func (uc *UseCase) List(ctx context.Context, f repository.OrderFilter) (*dto.OrderListResponse, error) {
	list, err := uc.orderRepo.List(f)
	if err != nil {
		return nil, err
	}
	total, err := uc.orderRepo.Count(f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total},
	}, nil
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	return &dto.OrderResponse{
		ID:           o.ID,
		Reference:    o.Reference,
		ClientID:     o.ClientID,
		UserID:       o.UserID,
		OrderDate:    o.OrderDate,
		DeliveryDate: o.DeliveryDate,
		DiscountPct:  o.DiscountPct,
		Notes:        o.Notes,
		Total:        o.Total,
		Status:       o.Status,
	}
}
