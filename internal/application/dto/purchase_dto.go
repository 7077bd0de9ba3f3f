package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest línea dentro de CreatePurchaseRequest.
type PurchaseLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost" validate:"required"`
}

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	SupplierID string                `json:"supplier_id" validate:"required,uuid"`
	Lines      []PurchaseLineRequest `json:"lines" validate:"required,min=1"`
	Notes      string                `json:"notes,omitempty"`
}

// ReceiptLineRequest cantidad recibida para una línea de compra.
type ReceiptLineRequest struct {
	LineID   string          `json:"line_id" validate:"required,uuid"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
}

// ReceivePurchaseRequest body para POST /api/purchases/:id/receive.
// Sin líneas se recibe todo lo pendiente.
type ReceivePurchaseRequest struct {
	Lines []ReceiptLineRequest `json:"lines,omitempty"`
}

// PurchaseResponse salida resumida de una compra.
type PurchaseResponse struct {
	ID           string          `json:"id"`
	Reference    string          `json:"reference"`
	SupplierID   string          `json:"supplier_id"`
	UserID       string          `json:"user_id"`
	PurchaseDate time.Time       `json:"purchase_date"`
	Notes        string          `json:"notes,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
}

// PurchaseLineResponse línea de compra en el detalle.
type PurchaseLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// PurchaseDetailResponse compra con sus líneas.
type PurchaseDetailResponse struct {
	PurchaseResponse
	Lines []PurchaseLineResponse `json:"lines"`
}

// PurchaseListResponse listado paginado de compras.
type PurchaseListResponse struct {
	Items []PurchaseResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
