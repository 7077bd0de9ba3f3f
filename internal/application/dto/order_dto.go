package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea dentro de CreateOrderRequest.
// UnitPrice se captura aquí y queda congelado en la orden.
type OrderLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	ClientID     string             `json:"client_id" validate:"required,uuid"`
	Lines        []OrderLineRequest `json:"lines" validate:"required,min=1"`
	DeliveryDate *time.Time         `json:"delivery_date,omitempty"`
	DiscountPct  decimal.Decimal    `json:"discount_pct"`
	Notes        string             `json:"notes,omitempty"`
}

// OrderActionRequest body para POST /api/orders/:id/actions.
type OrderActionRequest struct {
	Action string `json:"action" validate:"required,oneof=confirm prepare deliver cancel"`
}

// OrderResponse salida resumida de una orden.
type OrderResponse struct {
	ID           string          `json:"id"`
	Reference    string          `json:"reference"`
	ClientID     string          `json:"client_id"`
	UserID       string          `json:"user_id"`
	OrderDate    time.Time       `json:"order_date"`
	DeliveryDate *time.Time      `json:"delivery_date,omitempty"`
	DiscountPct  decimal.Decimal `json:"discount_pct"`
	Notes        string          `json:"notes,omitempty"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
}

// OrderLineResponse línea de orden en el detalle.
type OrderLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderDetailResponse orden con sus líneas.
type OrderDetailResponse struct {
	OrderResponse
	Lines []OrderLineResponse `json:"lines"`
}

// OrderListResponse listado paginado de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
