package dto

// DashboardResponse resumen de la página de inicio.
type DashboardResponse struct {
	ActiveProducts   int                `json:"active_products"`
	LowStockProducts int                `json:"low_stock_products"`
	OpenOrders       int                `json:"open_orders"`    // confirmed + preparing
	OpenPurchases    int                `json:"open_purchases"` // pending + partial
	RecentMovements  []MovementResponse `json:"recent_movements"`
	LowStockList     []ProductResponse  `json:"low_stock_list"`
}
