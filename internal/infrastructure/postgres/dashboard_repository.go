package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas agregadas de la página de inicio.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador de consultas del tablero.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

func (r *DashboardRepo) CountActiveProducts() (int, error) {
	return r.countQuery(`SELECT COUNT(*) FROM products WHERE active = TRUE`)
}

func (r *DashboardRepo) CountLowStockProducts() (int, error) {
	return r.countQuery(`SELECT COUNT(*) FROM products WHERE active = TRUE AND current_stock <= minimum_stock`)
}

func (r *DashboardRepo) CountOpenOrders() (int, error) {
	return r.countQuery(`SELECT COUNT(*) FROM orders WHERE status IN ('confirmed', 'preparing')`)
}

func (r *DashboardRepo) CountOpenPurchases() (int, error) {
	return r.countQuery(`SELECT COUNT(*) FROM purchases WHERE status IN ('pending', 'partial')`)
}

func (r *DashboardRepo) countQuery(query string) (int, error) {
	var total int
	if err := r.q.QueryRow(context.Background(), query).Scan(&total); err != nil {
		return 0, fmt.Errorf("dashboard count: %w", err)
	}
	return total, nil
}

// RecentMovements devuelve los últimos movimientos del libro.
func (r *DashboardRepo) RecentMovements(limit int) ([]*entity.StockMovement, error) {
	query := `SELECT id, product_id, movement_type, quantity, user_id,
		COALESCE(document_type, ''), COALESCE(document_id::text, ''), note, created_at
		FROM stock_movements ORDER BY created_at DESC LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard recent movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.UserID,
			&m.DocumentType, &m.DocumentID, &m.Note, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// LowStockProducts devuelve los productos activos en o bajo el mínimo,
// ordenados del déficit más severo al menor.
func (r *DashboardRepo) LowStockProducts(limit int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE active = TRUE AND current_stock <= minimum_stock
		ORDER BY (minimum_stock - current_stock) DESC LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard low stock products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Reference, &p.Name, &p.NameSearch, &p.CategoryID, &p.Unit,
			&p.CurrentStock, &p.MinimumStock, &p.PurchasePrice, &p.SalePrice,
			&p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
