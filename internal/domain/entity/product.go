package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// CurrentStock es un contador desnormalizado: se muta únicamente a través de
// operaciones que generan movimientos en el libro de stock, nunca de forma directa.
// PurchasePrice es el costo promedio ponderado, recalculado al recibir compras.
type Product struct {
	ID            string
	Reference     string // código único, visible para el operador (ej. PRD-0042)
	Name          string
	NameSearch    string // nombre normalizado (sin acentos, minúsculas) para búsqueda
	CategoryID    *string
	Unit          string // unidad de medida: unité, kg, litre...
	CurrentStock  decimal.Decimal
	MinimumStock  decimal.Decimal
	PurchasePrice decimal.Decimal // costo promedio ponderado
	SalePrice     decimal.Decimal
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BelowMinimum indica si el stock actual está en o por debajo del umbral mínimo.
func (p *Product) BelowMinimum() bool {
	return p.CurrentStock.LessThanOrEqual(p.MinimumStock)
}
