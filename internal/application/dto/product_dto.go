package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock inicial es 0;
// solo cambia mediante movimientos.
type CreateProductRequest struct {
	Reference    string          `json:"reference" validate:"required,max=50"`
	Name         string          `json:"name" validate:"required,max=200"`
	CategoryID   *string         `json:"category_id,omitempty"`
	Unit         string          `json:"unit"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	SalePrice    decimal.Decimal `json:"sale_price"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
// No permite tocar CurrentStock ni PurchasePrice.
type UpdateProductRequest struct {
	Name         *string          `json:"name,omitempty"`
	CategoryID   *string          `json:"category_id,omitempty"`
	Unit         *string          `json:"unit,omitempty"`
	MinimumStock *decimal.Decimal `json:"minimum_stock,omitempty"`
	SalePrice    *decimal.Decimal `json:"sale_price,omitempty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Reference     string          `json:"reference"`
	Name          string          `json:"name"`
	CategoryID    *string         `json:"category_id,omitempty"`
	Unit          string          `json:"unit"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinimumStock  decimal.Decimal `json:"minimum_stock"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Active        bool            `json:"active"`
	LowStock      bool            `json:"low_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}
