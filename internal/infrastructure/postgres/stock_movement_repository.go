package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, location_id, movement_type, quantity, user_id, document_type, document_id, note, created_at`

// signedQuantity expresa la semántica de signo del libro en SQL: las salidas
// restan, el resto aplica la cantidad tal cual (adjustment ya viene con signo).
const signedQuantity = `CASE WHEN movement_type = 'exit' THEN -quantity ELSE quantity END`

// StockMovementRepo implementación del puerto StockMovementRepository sobre PostgreSQL.
// El libro es append-only: este adaptador no expone Update ni Delete.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador del libro de movimientos.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta una entrada del libro.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ProductID, m.LocationID, m.Type, m.Quantity, m.UserID,
		m.DocumentType, m.DocumentID, m.Note, m.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT id, product_id, COALESCE(location_id::text, ''), movement_type, quantity, user_id,
		COALESCE(document_type, ''), COALESCE(document_id::text, ''), note, created_at
		FROM stock_movements WHERE id = $1`
	var m entity.StockMovement
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductID, &m.LocationID, &m.Type, &m.Quantity, &m.UserID,
		&m.DocumentType, &m.DocumentID, &m.Note, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return &m, nil
}

// List lista movimientos del más reciente al más antiguo.
func (r *StockMovementRepo) List(f repository.MovementFilter) ([]*entity.StockMovement, error) {
	where, args := movementWhere(f)
	query := `SELECT id, product_id, COALESCE(location_id::text, ''), movement_type, quantity, user_id,
		COALESCE(document_type, ''), COALESCE(document_id::text, ''), note, created_at
		FROM stock_movements ` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.LocationID, &m.Type, &m.Quantity, &m.UserID,
			&m.DocumentType, &m.DocumentID, &m.Note, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Count cuenta movimientos bajo los mismos filtros del listado.
func (r *StockMovementRepo) Count(f repository.MovementFilter) (int, error) {
	where, args := movementWhere(f)
	var total int
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM stock_movements `+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count stock movements: %w", err)
	}
	return total, nil
}

// SumByProduct devuelve la suma con signo de todo el libro para un producto.
func (r *StockMovementRepo) SumByProduct(productID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(`+signedQuantity+`), 0) FROM stock_movements WHERE product_id = $1`,
		productID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum stock movements: %w", err)
	}
	return sum, nil
}

// ListImbalances devuelve los productos cuyo contador desnormalizado no
// coincide con la suma del libro. Solo reporta: nunca corrige.
func (r *StockMovementRepo) ListImbalances() ([]*repository.StockImbalance, error) {
	query := `
		SELECT p.id, p.reference, p.name, p.current_stock, COALESCE(SUM(` + signedQuantity + `), 0) AS ledger_sum
		FROM products p
		LEFT JOIN stock_movements sm ON sm.product_id = p.id
		GROUP BY p.id, p.reference, p.name, p.current_stock
		HAVING p.current_stock <> COALESCE(SUM(` + signedQuantity + `), 0)
		ORDER BY p.reference ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list stock imbalances: %w", err)
	}
	defer rows.Close()
	var list []*repository.StockImbalance
	for rows.Next() {
		var im repository.StockImbalance
		if err := rows.Scan(&im.ProductID, &im.Reference, &im.Name, &im.CurrentStock, &im.LedgerSum); err != nil {
			return nil, fmt.Errorf("scan stock imbalance: %w", err)
		}
		list = append(list, &im)
	}
	return list, rows.Err()
}

// movementWhere arma la cláusula WHERE parametrizada según los filtros.
func movementWhere(f repository.MovementFilter) (string, []any) {
	where := `WHERE 1=1`
	var args []any
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where += ` AND product_id = $` + strconv.Itoa(len(args))
	}
	if f.LocationID != "" {
		args = append(args, f.LocationID)
		where += ` AND location_id = $` + strconv.Itoa(len(args))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		where += ` AND movement_type = $` + strconv.Itoa(len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where += ` AND created_at >= $` + strconv.Itoa(len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where += ` AND created_at <= $` + strconv.Itoa(len(args))
	}
	return where, args
}
