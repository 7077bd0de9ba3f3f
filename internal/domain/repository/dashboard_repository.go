package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// DashboardRepository define las consultas agregadas de la página de inicio.
type DashboardRepository interface {
	CountActiveProducts() (int, error)
	CountLowStockProducts() (int, error)
	// CountOpenOrders cuenta órdenes en curso (confirmed + preparing).
	CountOpenOrders() (int, error)
	// CountOpenPurchases cuenta compras abiertas (pending + partial).
	CountOpenPurchases() (int, error)
	RecentMovements(limit int) ([]*entity.StockMovement, error)
	LowStockProducts(limit int) ([]*entity.Product, error)
}
