package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo implementación del puerto StockLevelRepository sobre
// PostgreSQL. Una fila por (producto, ubicación); los deltas se aplican por
// upsert bajo el mismo bloqueo transaccional que el contador global.
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador del stock por ubicación.
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

func (r *StockLevelRepo) Get(productID, locationID string) (*entity.StockLevel, error) {
	return r.getOne(productID, locationID, "")
}

// GetForUpdate bloquea el nivel durante la transacción del caller. Un nivel
// inexistente devuelve nil, nil: el caller lo trata como cantidad cero.
func (r *StockLevelRepo) GetForUpdate(productID, locationID string) (*entity.StockLevel, error) {
	return r.getOne(productID, locationID, " FOR UPDATE")
}

func (r *StockLevelRepo) getOne(productID, locationID, suffix string) (*entity.StockLevel, error) {
	query := `SELECT product_id, location_id, quantity, updated_at
		FROM stock_levels WHERE product_id = $1 AND location_id = $2` + suffix
	var l entity.StockLevel
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
		&l.ProductID, &l.LocationID, &l.Quantity, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return &l, nil
}

// Adjust aplica un delta al nivel, creando la fila si no existe.
func (r *StockLevelRepo) Adjust(productID, locationID string, delta decimal.Decimal) error {
	query := `
		INSERT INTO stock_levels (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = stock_levels.quantity + EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, productID, locationID, delta)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("adjust stock level: %w", err)
	}
	return nil
}

func (r *StockLevelRepo) ListByProduct(productID string) ([]*entity.StockLevel, error) {
	query := `SELECT product_id, location_id, quantity, updated_at
		FROM stock_levels WHERE product_id = $1 ORDER BY location_id`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock levels by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLevel
	for rows.Next() {
		var l entity.StockLevel
		if err := rows.Scan(&l.ProductID, &l.LocationID, &l.Quantity, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ListByLocation lista el stock de una ubicación con los datos del producto
// resueltos para la vista.
func (r *StockLevelRepo) ListByLocation(locationID string, limit, offset int) ([]*repository.LocatedStock, error) {
	query := `
		SELECT p.id, p.reference, p.name, p.unit, sl.quantity
		FROM stock_levels sl
		JOIN products p ON p.id = sl.product_id
		WHERE sl.location_id = $1
		ORDER BY p.name ASC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock levels by location: %w", err)
	}
	defer rows.Close()
	var list []*repository.LocatedStock
	for rows.Next() {
		var ls repository.LocatedStock
		if err := rows.Scan(&ls.ProductID, &ls.Reference, &ls.Name, &ls.Unit, &ls.Quantity); err != nil {
			return nil, fmt.Errorf("scan located stock: %w", err)
		}
		list = append(list, &ls)
	}
	return list, rows.Err()
}

func (r *StockLevelRepo) SumByProduct(productID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM stock_levels WHERE product_id = $1`,
		productID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum stock levels: %w", err)
	}
	return sum, nil
}
