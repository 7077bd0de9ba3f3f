package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/stock/movements (movimiento manual).
// Para entry/exit/inventory la cantidad debe ser positiva; adjustment lleva signo.
// location_id opcional: si viene, el movimiento también ajusta el nivel de esa ubicación.
type RegisterMovementRequest struct {
	ProductID  string          `json:"product_id" validate:"required,uuid"`
	LocationID string          `json:"location_id,omitempty" validate:"omitempty,uuid"`
	Type       string          `json:"type" validate:"required,oneof=entry exit inventory adjustment"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
	Note       string          `json:"note,omitempty"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	LocationID   string          `json:"location_id,omitempty"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	UserID       string          `json:"user_id"`
	DocumentType string          `json:"document_type,omitempty"`
	DocumentID   string          `json:"document_id,omitempty"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TransferStockRequest body para POST /api/stock/transfer (movimiento entre ubicaciones).
type TransferStockRequest struct {
	ProductID      string          `json:"product_id" validate:"required,uuid"`
	FromLocationID string          `json:"from_location_id" validate:"required,uuid"`
	ToLocationID   string          `json:"to_location_id" validate:"required,uuid"`
	Quantity       decimal.Decimal `json:"quantity" validate:"required"`
	Note           string          `json:"note,omitempty"`
}

// StockLevelResponse cantidad de un producto en una ubicación.
type StockLevelResponse struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ProductLevelsResponse desglose por ubicación de un producto. El total ubicado
// puede ser menor que current_stock (stock sin ubicar).
type ProductLevelsResponse struct {
	ProductID    string               `json:"product_id"`
	LocatedTotal decimal.Decimal      `json:"located_total"`
	Levels       []StockLevelResponse `json:"levels"`
}

// LocatedStockResponse fila del stock presente en una ubicación.
type LocatedStockResponse struct {
	ProductID string          `json:"product_id"`
	Reference string          `json:"reference"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ReconcileResponse resultado del diagnóstico contador vs libro para un producto.
// Mismatch=true se reporta, nunca se corrige automáticamente.
type ReconcileResponse struct {
	ProductID    string          `json:"product_id"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	LedgerSum    decimal.Decimal `json:"ledger_sum"`
	Mismatch     bool            `json:"mismatch"`
}

// ImbalanceResponse producto con incoherencia de stock.
type ImbalanceResponse struct {
	ProductID    string          `json:"product_id"`
	Reference    string          `json:"reference"`
	Name         string          `json:"name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	LedgerSum    decimal.Decimal `json:"ledger_sum"`
}
