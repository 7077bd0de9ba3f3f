package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// UseCase implementa el libro de movimientos de stock: registrar un movimiento
// de forma transaccional (bloqueo de fila + delta sobre el contador + fila en el
// libro), el stock por ubicación con transferencias entre ubicaciones y los
// diagnósticos de conciliación contador vs libro.
type UseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	levelRepo   repository.StockLevelRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, productRepo repository.ProductRepository, movRepo repository.StockMovementRepository, levelRepo repository.StockLevelRepository) *UseCase {
	return &UseCase{txRunner: txRunner, productRepo: productRepo, movRepo: movRepo, levelRepo: levelRepo}
}

// MovementInput entrada para registrar un movimiento.
// Quantity es magnitud positiva para entry/exit/inventory; adjustment lleva signo.
// LocationID vacío mueve stock sin ubicar: solo el contador global cambia.
type MovementInput struct {
	ProductID    string
	LocationID   string
	Type         string
	Quantity     decimal.Decimal
	UserID       string
	DocumentType string
	DocumentID   string
	Note         string
}

// validate aplica las reglas de cantidad por tipo.
func (in MovementInput) validate() error {
	if in.ProductID == "" || !entity.ValidMovementType(in.Type) {
		return domain.ErrInvalidInput
	}
	switch in.Type {
	case entity.MovementTypeAdjustment:
		if in.Quantity.IsZero() {
			return domain.ErrInvalidInput
		}
	default:
		if !in.Quantity.IsPositive() {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// RecordMovement valida la entrada, verifica que el producto exista y registra
// el movimiento en una transacción propia (Commit o Rollback completos).
func (uc *UseCase) RecordMovement(ctx context.Context, input MovementInput) error {
	if err := input.validate(); err != nil {
		return err
	}
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		levelRepo repository.StockLevelRepository,
		_ repository.OrderRepository,
		_ repository.PurchaseRepository,
	) error {
		return uc.ApplyInTx(movRepo, productRepo, levelRepo, input, now)
	})
}

// ApplyInTx aplica un movimiento usando repositorios atados a la transacción del
// caller (creación/anulación de órdenes, recepción de compras). Bloquea la fila
// del producto (SELECT FOR UPDATE), aplica el delta con signo al contador, y si
// el movimiento lleva ubicación, el mismo delta al nivel de esa ubicación; al
// final añade la fila inmutable al libro. Una salida no puede dejar negativo ni
// el contador global ni el nivel de la ubicación.
func (uc *UseCase) ApplyInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	levelRepo repository.StockLevelRepository,
	input MovementInput,
	now time.Time,
) error {
	if err := input.validate(); err != nil {
		return err
	}
	product, err := productRepo.GetForUpdate(input.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	delta := entity.SignedDelta(input.Type, input.Quantity)
	newStock := product.CurrentStock.Add(delta)
	if delta.IsNegative() && newStock.IsNegative() {
		return domain.ErrInsufficientStock
	}

	if input.LocationID != "" {
		level, err := levelRepo.GetForUpdate(input.ProductID, input.LocationID)
		if err != nil {
			return err
		}
		located := decimal.Zero
		if level != nil {
			located = level.Quantity
		}
		if delta.IsNegative() && located.Add(delta).IsNegative() {
			return domain.ErrInsufficientStock
		}
		if err := levelRepo.Adjust(input.ProductID, input.LocationID, delta); err != nil {
			return err
		}
	}

	if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
		return err
	}

	mov := &entity.StockMovement{
		ID:           uuid.New().String(),
		ProductID:    input.ProductID,
		LocationID:   input.LocationID,
		Type:         input.Type,
		Quantity:     input.Quantity,
		UserID:       input.UserID,
		DocumentType: input.DocumentType,
		DocumentID:   input.DocumentID,
		Note:         input.Note,
		CreatedAt:    now,
	}
	return movRepo.Create(mov)
}

// TransferInput entrada para una transferencia entre ubicaciones.
type TransferInput struct {
	ProductID      string
	FromLocationID string
	ToLocationID   string
	Quantity       decimal.Decimal
	UserID         string
	Note           string
}

// Transfer mueve una cantidad de una ubicación a otra en una sola transacción:
// una salida en el origen y una entrada en el destino. El contador global y la
// suma del libro quedan netos en cero; solo los niveles cambian.
func (uc *UseCase) Transfer(ctx context.Context, input TransferInput) error {
	if input.ProductID == "" || input.FromLocationID == "" || input.ToLocationID == "" ||
		input.FromLocationID == input.ToLocationID || !input.Quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	note := input.Note
	if note == "" {
		note = "location transfer"
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		levelRepo repository.StockLevelRepository,
		_ repository.OrderRepository,
		_ repository.PurchaseRepository,
	) error {
		out := MovementInput{
			ProductID:  input.ProductID,
			LocationID: input.FromLocationID,
			Type:       entity.MovementTypeExit,
			Quantity:   input.Quantity,
			UserID:     input.UserID,
			Note:       note,
		}
		if err := uc.ApplyInTx(movRepo, productRepo, levelRepo, out, now); err != nil {
			return err
		}
		in := MovementInput{
			ProductID:  input.ProductID,
			LocationID: input.ToLocationID,
			Type:       entity.MovementTypeEntry,
			Quantity:   input.Quantity,
			UserID:     input.UserID,
			Note:       note,
		}
		return uc.ApplyInTx(movRepo, productRepo, levelRepo, in, now)
	})
}

// LevelsByProduct devuelve el desglose por ubicación de un producto junto con
// el total ubicado (puede ser menor que current_stock: stock sin ubicar).
func (uc *UseCase) LevelsByProduct(ctx context.Context, productID string) ([]*entity.StockLevel, decimal.Decimal, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if product == nil {
		return nil, decimal.Zero, domain.ErrNotFound
	}
	levels, err := uc.levelRepo.ListByProduct(productID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	total := decimal.Zero
	for _, l := range levels {
		total = total.Add(l.Quantity)
	}
	return levels, total, nil
}

// LevelsByLocation lista el stock presente en una ubicación.
func (uc *UseCase) LevelsByLocation(ctx context.Context, locationID string, limit, offset int) ([]*repository.LocatedStock, error) {
	return uc.levelRepo.ListByLocation(locationID, limit, offset)
}

// ReconcileResult diagnóstico contador vs suma del libro para un producto.
type ReconcileResult struct {
	ProductID    string
	CurrentStock decimal.Decimal
	LedgerSum    decimal.Decimal
	Mismatch     bool
}

// Reconcile compara el contador desnormalizado con la suma con signo del libro.
// Es de solo lectura: una incoherencia se reporta al operador, nunca se corrige sola.
func (uc *UseCase) Reconcile(ctx context.Context, productID string) (*ReconcileResult, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	sum, err := uc.movRepo.SumByProduct(productID)
	if err != nil {
		return nil, err
	}
	return &ReconcileResult{
		ProductID:    productID,
		CurrentStock: product.CurrentStock,
		LedgerSum:    sum,
		Mismatch:     !product.CurrentStock.Equal(sum),
	}, nil
}

// ListImbalances devuelve los productos cuyo contador difiere del libro.
func (uc *UseCase) ListImbalances(ctx context.Context) ([]*repository.StockImbalance, error) {
	return uc.movRepo.ListImbalances()
}

// ListMovements lista el libro con filtros (tipo, producto, rango de fechas).
func (uc *UseCase) ListMovements(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, int, error) {
	list, err := uc.movRepo.List(f)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.movRepo.Count(f)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
