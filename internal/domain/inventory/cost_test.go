package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-api/internal/domain/inventory"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestWeightedAverageCost(t *testing.T) {
	// 10 unidades a 4.00 + 10 unidades a 6.00 → 5.00
	got := inventory.WeightedAverageCost(dec("10"), dec("4"), dec("10"), dec("6"))
	assert.True(t, got.Equal(dec("5")), "got %s", got)
}

func TestWeightedAverageCost_StockCero(t *testing.T) {
	// Sin stock previo el promedio es el costo recibido.
	got := inventory.WeightedAverageCost(decimal.Zero, decimal.Zero, dec("7"), dec("3.50"))
	assert.True(t, got.Equal(dec("3.50")), "got %s", got)
}

func TestWeightedAverageCost_SinCantidades(t *testing.T) {
	got := inventory.WeightedAverageCost(decimal.Zero, dec("9"), decimal.Zero, dec("3"))
	assert.True(t, got.IsZero(), "sin cantidades el promedio queda en cero, got %s", got)
}

func TestWeightedAverageCost_PonderaPorCantidad(t *testing.T) {
	// 30 a 2.00 + 10 a 6.00 → (60+60)/40 = 3.00
	got := inventory.WeightedAverageCost(dec("30"), dec("2"), dec("10"), dec("6"))
	assert.True(t, got.Equal(dec("3")), "got %s", got)
}
