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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, reference, supplier_id, user_id, purchase_date, notes, total, status, created_at, updated_at`

// PurchaseRepo implementación del puerto PurchaseRepository sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de persistencia para compras.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la cabecera de la compra.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.Reference, purchase.SupplierID, purchase.UserID,
		purchase.PurchaseDate, purchase.Notes, purchase.Total, purchase.Status,
		purchase.CreatedAt, purchase.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de compra.
func (r *PurchaseRepo) CreateLine(line *entity.PurchaseLine) error {
	query := `
		INSERT INTO purchase_lines (id, purchase_id, product_id, quantity, unit_cost, received_qty)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.PurchaseID, line.ProductID, line.Quantity, line.UnitCost, line.ReceivedQty,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert purchase line: %w", err)
	}
	return nil
}

// GetByID obtiene una compra por ID.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	return r.getOne(`SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id)
}

// GetForUpdate obtiene la compra y bloquea la fila (SELECT FOR UPDATE).
func (r *PurchaseRepo) GetForUpdate(id string) (*entity.Purchase, error) {
	return r.getOne(`SELECT `+purchaseColumns+` FROM purchases WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseRepo) getOne(query string, arg any) (*entity.Purchase, error) {
	var p entity.Purchase
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&p.ID, &p.Reference, &p.SupplierID, &p.UserID, &p.PurchaseDate,
		&p.Notes, &p.Total, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return &p, nil
}

// ListLines devuelve las líneas de una compra.
func (r *PurchaseRepo) ListLines(purchaseID string) ([]*entity.PurchaseLine, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, purchase_id, product_id, quantity, unit_cost, received_qty
		 FROM purchase_lines WHERE purchase_id = $1 ORDER BY id`,
		purchaseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list purchase lines: %w", err)
	}
	defer rows.Close()
	var lines []*entity.PurchaseLine
	for rows.Next() {
		var l entity.PurchaseLine
		if err := rows.Scan(&l.ID, &l.PurchaseID, &l.ProductID, &l.Quantity, &l.UnitCost, &l.ReceivedQty); err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// UpdateStatus cambia el estado de la compra.
func (r *PurchaseRepo) UpdateStatus(id, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE purchases SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update purchase status: %w", err)
	}
	return nil
}

// UpdateStatusFrom cambia el estado solo si el actual sigue siendo from.
func (r *PurchaseRepo) UpdateStatusFrom(id, from, to string) (bool, error) {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE purchases SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		return false, fmt.Errorf("update purchase status from: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateLineReceived fija el acumulado recibido de una línea.
func (r *PurchaseRepo) UpdateLineReceived(lineID string, receivedQty decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE purchase_lines SET received_qty = $2 WHERE id = $1`,
		lineID, receivedQty,
	)
	if err != nil {
		return fmt.Errorf("update purchase line received: %w", err)
	}
	return nil
}

// List lista compras de la más reciente a la más antigua.
func (r *PurchaseRepo) List(f repository.PurchaseFilter) ([]*entity.Purchase, error) {
	where, args := purchaseWhere(f)
	query := `SELECT ` + purchaseColumns + ` FROM purchases p ` + where +
		` ORDER BY p.purchase_date DESC, p.created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(&p.ID, &p.Reference, &p.SupplierID, &p.UserID, &p.PurchaseDate,
			&p.Notes, &p.Total, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Count cuenta compras bajo los mismos filtros del listado.
func (r *PurchaseRepo) Count(f repository.PurchaseFilter) (int, error) {
	where, args := purchaseWhere(f)
	var total int
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM purchases p `+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count purchases: %w", err)
	}
	return total, nil
}

// Delete elimina la cabecera. Las líneas deben borrarse antes (DeleteLines).
func (r *PurchaseRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}

// DeleteLines elimina todas las líneas de una compra.
func (r *PurchaseRepo) DeleteLines(purchaseID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM purchase_lines WHERE purchase_id = $1`, purchaseID)
	if err != nil {
		return fmt.Errorf("delete purchase lines: %w", err)
	}
	return nil
}

// CountBySupplier cuenta las compras asociadas a un proveedor (protección de borrado).
func (r *PurchaseRepo) CountBySupplier(supplierID string) (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM purchases WHERE supplier_id = $1`, supplierID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count purchases by supplier: %w", err)
	}
	return total, nil
}

// purchaseWhere arma la cláusula WHERE parametrizada según los filtros.
func purchaseWhere(f repository.PurchaseFilter) (string, []any) {
	where := `WHERE 1=1`
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		where += ` AND p.status = $` + strconv.Itoa(len(args))
	}
	if f.SupplierID != "" {
		args = append(args, f.SupplierID)
		where += ` AND p.supplier_id = $` + strconv.Itoa(len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (p.reference ILIKE $` + n + ` OR EXISTS (SELECT 1 FROM suppliers s WHERE s.id = p.supplier_id AND s.name ILIKE $` + n + `))`
	}
	if f.From != nil {
		args = append(args, *f.From)
		where += ` AND p.purchase_date >= $` + strconv.Itoa(len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where += ` AND p.purchase_date <= $` + strconv.Itoa(len(args))
	}
	return where, args
}
