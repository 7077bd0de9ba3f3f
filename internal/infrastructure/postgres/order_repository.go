package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, reference, client_id, user_id, order_date, delivery_date, discount_pct, notes, total, status, created_at, updated_at`

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de persistencia para órdenes de venta.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera de la orden.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Reference, order.ClientID, order.UserID, order.OrderDate,
		order.DeliveryDate, order.DiscountPct, order.Notes, order.Total, order.Status,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de la orden.
func (r *OrderRepo) CreateLine(line *entity.OrderLine) error {
	query := `
		INSERT INTO order_lines (id, order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.OrderID, line.ProductID, line.Quantity, line.UnitPrice,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert order line: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	return r.getOne(`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate obtiene la orden y bloquea la fila (SELECT FOR UPDATE).
func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return r.getOne(`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) getOne(query string, arg any) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&o.ID, &o.Reference, &o.ClientID, &o.UserID, &o.OrderDate, &o.DeliveryDate,
		&o.DiscountPct, &o.Notes, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// ListLines devuelve las líneas de una orden.
func (r *OrderRepo) ListLines(orderID string) ([]*entity.OrderLine, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, order_id, product_id, quantity, unit_price FROM order_lines WHERE order_id = $1 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.OrderLine
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// UpdateStatus cambia el estado de la orden.
func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// UpdateStatusFrom cambia el estado solo si el actual sigue siendo from.
// Una transición concurrente que ya movió la orden deja el UPDATE sin filas.
func (r *OrderRepo) UpdateStatusFrom(id, from, to string) (bool, error) {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE orders SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		return false, fmt.Errorf("update order status from: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// List lista órdenes de la más reciente a la más antigua.
func (r *OrderRepo) List(f repository.OrderFilter) ([]*entity.Order, error) {
	where, args := orderWhere(f)
	query := `SELECT ` + orderColumns + ` FROM orders o ` + where +
		` ORDER BY o.order_date DESC, o.created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.Reference, &o.ClientID, &o.UserID, &o.OrderDate, &o.DeliveryDate,
			&o.DiscountPct, &o.Notes, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// Count cuenta órdenes bajo los mismos filtros del listado.
func (r *OrderRepo) Count(f repository.OrderFilter) (int, error) {
	where, args := orderWhere(f)
	var total int
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM orders o `+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return total, nil
}

// Delete elimina la cabecera. Las líneas deben borrarse antes (DeleteLines).
func (r *OrderRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// DeleteLines elimina todas las líneas de una orden.
func (r *OrderRepo) DeleteLines(orderID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM order_lines WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete order lines: %w", err)
	}
	return nil
}

// CountByClient cuenta las órdenes asociadas a un cliente (protección de borrado).
func (r *OrderRepo) CountByClient(clientID string) (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM orders WHERE client_id = $1`, clientID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count orders by client: %w", err)
	}
	return total, nil
}

// orderWhere arma la cláusula WHERE parametrizada según los filtros.
func orderWhere(f repository.OrderFilter) (string, []any) {
	where := `WHERE 1=1`
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		where += ` AND o.status = $` + strconv.Itoa(len(args))
	}
	if f.ClientID != "" {
		args = append(args, f.ClientID)
		where += ` AND o.client_id = $` + strconv.Itoa(len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (o.reference ILIKE $` + n + ` OR EXISTS (SELECT 1 FROM clients c WHERE c.id = o.client_id AND c.name ILIKE $` + n + `))`
	}
	if f.From != nil {
		args = append(args, *f.From)
		where += ` AND o.order_date >= $` + strconv.Itoa(len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where += ` AND o.order_date <= $` + strconv.Itoa(len(args))
	}
	return where, args
}
