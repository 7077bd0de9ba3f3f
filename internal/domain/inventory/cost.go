package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost calcula el costo promedio ponderado tras una recepción:
// ((StockActual * CostoActual) + (CantRecibida * CostoRecibido)) / (StockActual + CantRecibida)
func WeightedAverageCost(currentStock, currentCost, receivedQty, receivedCost decimal.Decimal) decimal.Decimal {
	sum := currentStock.Add(receivedQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := currentStock.Mul(currentCost).Add(receivedQty.Mul(receivedCost))
	return num.Div(sum)
}
