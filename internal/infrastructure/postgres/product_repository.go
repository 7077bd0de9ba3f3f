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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, reference, name, name_search, category_id, unit, current_stock, minimum_stock, purchase_price, sale_price, active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Stock y costo inician en 0.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Reference, product.Name, product.NameSearch, product.CategoryID,
		product.Unit, product.CurrentStock, product.MinimumStock, product.PurchasePrice,
		product.SalePrice, product.Active, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetByReference obtiene un producto por su código de referencia.
func (r *ProductRepo) GetByReference(reference string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE reference = $1`, reference)
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) getOne(query string, arg any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&p.ID, &p.Reference, &p.Name, &p.NameSearch, &p.CategoryID, &p.Unit,
		&p.CurrentStock, &p.MinimumStock, &p.PurchasePrice, &p.SalePrice,
		&p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update actualiza los campos del catálogo. No toca current_stock ni purchase_price.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, name_search = $3, category_id = $4, unit = $5, minimum_stock = $6, sale_price = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.NameSearch, product.CategoryID,
		product.Unit, product.MinimumStock, product.SalePrice, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock fija el contador desnormalizado (llamado bajo bloqueo de fila).
func (r *ProductRepo) UpdateStock(productID string, stock decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET current_stock = $2, updated_at = now() WHERE id = $1`,
		productID, stock,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// AdjustStock aplica un delta directo sobre current_stock (eliminación de compras).
func (r *ProductRepo) AdjustStock(productID string, delta decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET current_stock = current_stock + $2, updated_at = now() WHERE id = $1`,
		productID, delta,
	)
	if err != nil {
		return fmt.Errorf("adjust product stock: %w", err)
	}
	return nil
}

// UpdatePurchasePrice actualiza solo el costo promedio (usado en recepciones).
func (r *ProductRepo) UpdatePurchasePrice(productID string, price decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET purchase_price = $2, updated_at = now() WHERE id = $1`,
		productID, price,
	)
	if err != nil {
		return fmt.Errorf("update product purchase price: %w", err)
	}
	return nil
}

// List lista productos con filtros y paginación.
func (r *ProductRepo) List(f repository.ProductFilter) ([]*entity.Product, error) {
	where, args := productWhere(f)
	query := `SELECT ` + productColumns + ` FROM products ` + where +
		` ORDER BY name ASC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
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

// Count cuenta productos bajo los mismos filtros del listado.
func (r *ProductRepo) Count(f repository.ProductFilter) (int, error) {
	where, args := productWhere(f)
	var total int
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM products `+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

// SetActive activa o desactiva un producto.
func (r *ProductRepo) SetActive(id string, active bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET active = $2, updated_at = now() WHERE id = $1`,
		id, active,
	)
	if err != nil {
		return fmt.Errorf("set product active: %w", err)
	}
	return nil
}

// productWhere arma la cláusula WHERE parametrizada según los filtros.
func productWhere(f repository.ProductFilter) (string, []any) {
	where := `WHERE 1=1`
	var args []any
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := strconv.Itoa(len(args))
		where += ` AND (name_search LIKE $` + n + ` OR lower(reference) LIKE $` + n + `)`
	}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		where += ` AND category_id = $` + strconv.Itoa(len(args))
	}
	if f.LowStock {
		where += ` AND current_stock <= minimum_stock`
	}
	if f.ActiveOnly {
		where += ` AND active = TRUE`
	}
	return where, args
}
