// Package apptest provee dobles en memoria de los puertos de persistencia
// para las pruebas de los casos de uso. Sin base de datos: los fakes imitan
// la semántica observable de los adaptadores de PostgreSQL.
package apptest

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// World agrupa los fakes y actúa como TxRunner: ejecuta fn directamente sobre
// los mismos repositorios (los tests verifican semántica, no aislamiento).
type World struct {
	Products  *FakeProductRepo
	Movements *FakeMovementRepo
	Levels    *FakeStockLevelRepo
	Locations *FakeLocationRepo
	Orders    *FakeOrderRepo
	Purchases *FakePurchaseRepo
	Clients   *FakeClientRepo
	Suppliers *FakeSupplierRepo
}

var _ stock.TxRunner = (*World)(nil)

// NewWorld construye el mundo de fakes vacío.
func NewWorld() *World {
	products := &FakeProductRepo{byID: map[string]*entity.Product{}}
	return &World{
		Products:  products,
		Movements: &FakeMovementRepo{products: products},
		Levels:    &FakeStockLevelRepo{products: products, byKey: map[string]decimal.Decimal{}},
		Locations: &FakeLocationRepo{byID: map[string]*entity.Location{}},
		Orders:    &FakeOrderRepo{byID: map[string]*entity.Order{}},
		Purchases: &FakePurchaseRepo{byID: map[string]*entity.Purchase{}},
		Clients:   &FakeClientRepo{byID: map[string]*entity.Client{}},
		Suppliers: &FakeSupplierRepo{byID: map[string]*entity.Supplier{}},
	}
}

// Run ejecuta fn con los repositorios del mundo.
func (w *World) Run(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	levelRepo repository.StockLevelRepository,
	orderRepo repository.OrderRepository,
	purchaseRepo repository.PurchaseRepository,
) error) error {
	return fn(w.Movements, w.Products, w.Levels, w.Orders, w.Purchases)
}

// ── Products ──────────────────────────────────────────────────────────────────

type FakeProductRepo struct {
	byID map[string]*entity.Product
}

var _ repository.ProductRepository = (*FakeProductRepo)(nil)

func (r *FakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *FakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *FakeProductRepo) GetByReference(reference string) (*entity.Product, error) {
	for _, p := range r.byID {
		if p.Reference == reference {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *FakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *FakeProductRepo) Update(p *entity.Product) error {
	if cur, ok := r.byID[p.ID]; ok {
		cur.Name = p.Name
		cur.NameSearch = p.NameSearch
		cur.CategoryID = p.CategoryID
		cur.Unit = p.Unit
		cur.MinimumStock = p.MinimumStock
		cur.SalePrice = p.SalePrice
		cur.UpdatedAt = p.UpdatedAt
	}
	return nil
}

func (r *FakeProductRepo) UpdateStock(productID string, s decimal.Decimal) error {
	if p, ok := r.byID[productID]; ok {
		p.CurrentStock = s
	}
	return nil
}

func (r *FakeProductRepo) AdjustStock(productID string, delta decimal.Decimal) error {
	if p, ok := r.byID[productID]; ok {
		p.CurrentStock = p.CurrentStock.Add(delta)
	}
	return nil
}

func (r *FakeProductRepo) UpdatePurchasePrice(productID string, price decimal.Decimal) error {
	if p, ok := r.byID[productID]; ok {
		p.PurchasePrice = price
	}
	return nil
}

func (r *FakeProductRepo) List(f repository.ProductFilter) ([]*entity.Product, error) {
	var list []*entity.Product
	for _, p := range r.byID {
		if f.ActiveOnly && !p.Active {
			continue
		}
		if f.LowStock && !p.BelowMinimum() {
			continue
		}
		cp := *p
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *FakeProductRepo) Count(f repository.ProductFilter) (int, error) {
	list, _ := r.List(f)
	return len(list), nil
}

func (r *FakeProductRepo) SetActive(id string, active bool) error {
	if p, ok := r.byID[id]; ok {
		p.Active = active
	}
	return nil
}

// Stock devuelve el contador actual (helper de aserción).
func (r *FakeProductRepo) Stock(id string) decimal.Decimal {
	if p, ok := r.byID[id]; ok {
		return p.CurrentStock
	}
	return decimal.Zero
}

// Cost devuelve el costo promedio actual (helper de aserción).
func (r *FakeProductRepo) Cost(id string) decimal.Decimal {
	if p, ok := r.byID[id]; ok {
		return p.PurchasePrice
	}
	return decimal.Zero
}

// ── Movements ─────────────────────────────────────────────────────────────────

type FakeMovementRepo struct {
	products *FakeProductRepo
	rows     []*entity.StockMovement
}

var _ repository.StockMovementRepository = (*FakeMovementRepo)(nil)

func (r *FakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *FakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.rows {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *FakeMovementRepo) List(f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for _, m := range r.rows {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.LocationID != "" && m.LocationID != f.LocationID {
			continue
		}
		cp := *m
		list = append(list, &cp)
	}
	return list, nil
}

func (r *FakeMovementRepo) Count(f repository.MovementFilter) (int, error) {
	list, _ := r.List(f)
	return len(list), nil
}

func (r *FakeMovementRepo) SumByProduct(productID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.rows {
		if m.ProductID == productID {
			sum = sum.Add(m.SignedDelta())
		}
	}
	return sum, nil
}

func (r *FakeMovementRepo) ListImbalances() ([]*repository.StockImbalance, error) {
	var out []*repository.StockImbalance
	for _, p := range r.products.byID {
		sum, _ := r.SumByProduct(p.ID)
		if !p.CurrentStock.Equal(sum) {
			out = append(out, &repository.StockImbalance{
				ProductID:    p.ID,
				Reference:    p.Reference,
				Name:         p.Name,
				CurrentStock: p.CurrentStock,
				LedgerSum:    sum,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reference < out[j].Reference })
	return out, nil
}

// ByDocument devuelve los movimientos ligados a un documento (helper de aserción).
func (r *FakeMovementRepo) ByDocument(docType, docID string) []*entity.StockMovement {
	var out []*entity.StockMovement
	for _, m := range r.rows {
		if m.DocumentType == docType && m.DocumentID == docID {
			out = append(out, m)
		}
	}
	return out
}

// All devuelve todas las filas del libro (helper de aserción).
func (r *FakeMovementRepo) All() []*entity.StockMovement {
	return r.rows
}

// ── Stock levels ──────────────────────────────────────────────────────────────

type FakeStockLevelRepo struct {
	products *FakeProductRepo
	byKey    map[string]decimal.Decimal // "productID|locationID" → cantidad
}

var _ repository.StockLevelRepository = (*FakeStockLevelRepo)(nil)

func levelKey(productID, locationID string) string {
	return productID + "|" + locationID
}

func (r *FakeStockLevelRepo) Get(productID, locationID string) (*entity.StockLevel, error) {
	q, ok := r.byKey[levelKey(productID, locationID)]
	if !ok {
		return nil, nil
	}
	return &entity.StockLevel{ProductID: productID, LocationID: locationID, Quantity: q}, nil
}

func (r *FakeStockLevelRepo) GetForUpdate(productID, locationID string) (*entity.StockLevel, error) {
	return r.Get(productID, locationID)
}

func (r *FakeStockLevelRepo) Adjust(productID, locationID string, delta decimal.Decimal) error {
	k := levelKey(productID, locationID)
	r.byKey[k] = r.byKey[k].Add(delta)
	return nil
}

func (r *FakeStockLevelRepo) ListByProduct(productID string) ([]*entity.StockLevel, error) {
	var out []*entity.StockLevel
	for k, q := range r.byKey {
		pid, loc, _ := strings.Cut(k, "|")
		if pid != productID {
			continue
		}
		out = append(out, &entity.StockLevel{ProductID: pid, LocationID: loc, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out, nil
}

func (r *FakeStockLevelRepo) ListByLocation(locationID string, limit, offset int) ([]*repository.LocatedStock, error) {
	var out []*repository.LocatedStock
	for k, q := range r.byKey {
		pid, loc, _ := strings.Cut(k, "|")
		if loc != locationID {
			continue
		}
		ls := &repository.LocatedStock{ProductID: pid, Quantity: q}
		if p, ok := r.products.byID[pid]; ok {
			ls.Reference = p.Reference
			ls.Name = p.Name
			ls.Unit = p.Unit
		}
		out = append(out, ls)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reference < out[j].Reference })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *FakeStockLevelRepo) SumByProduct(productID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for k, q := range r.byKey {
		if pid, _, _ := strings.Cut(k, "|"); pid == productID {
			sum = sum.Add(q)
		}
	}
	return sum, nil
}

// Level devuelve la cantidad en una ubicación (helper de aserción).
func (r *FakeStockLevelRepo) Level(productID, locationID string) decimal.Decimal {
	return r.byKey[levelKey(productID, locationID)]
}

// ── Locations ─────────────────────────────────────────────────────────────────

type FakeLocationRepo struct {
	byID map[string]*entity.Location
}

var _ repository.LocationRepository = (*FakeLocationRepo)(nil)

func (r *FakeLocationRepo) Create(l *entity.Location) error {
	for _, cur := range r.byID {
		if cur.Name == l.Name {
			return domain.ErrDuplicate
		}
	}
	cp := *l
	r.byID[l.ID] = &cp
	return nil
}

func (r *FakeLocationRepo) GetByID(id string) (*entity.Location, error) {
	l, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *FakeLocationRepo) Update(l *entity.Location) error {
	if cur, ok := r.byID[l.ID]; ok {
		*cur = *l
	}
	return nil
}

func (r *FakeLocationRepo) List(activeOnly bool) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.byID {
		if activeOnly && !l.Active {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *FakeLocationRepo) SetActive(id string, active bool) error {
	if l, ok := r.byID[id]; ok {
		l.Active = active
	}
	return nil
}

// ── Orders ────────────────────────────────────────────────────────────────────

type FakeOrderRepo struct {
	byID  map[string]*entity.Order
	lines []*entity.OrderLine

	// BeforeStatusCAS, si está definido, corre justo antes de comparar el
	// estado en UpdateStatusFrom. Permite simular una escritura concurrente.
	BeforeStatusCAS func()
}

var _ repository.OrderRepository = (*FakeOrderRepo)(nil)

func (r *FakeOrderRepo) Create(o *entity.Order) error {
	cp := *o
	r.byID[o.ID] = &cp
	return nil
}

func (r *FakeOrderRepo) CreateLine(l *entity.OrderLine) error {
	cp := *l
	r.lines = append(r.lines, &cp)
	return nil
}

func (r *FakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *FakeOrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return r.GetByID(id)
}

func (r *FakeOrderRepo) ListLines(orderID string) ([]*entity.OrderLine, error) {
	var out []*entity.OrderLine
	for _, l := range r.lines {
		if l.OrderID == orderID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *FakeOrderRepo) UpdateStatus(id, status string) error {
	if o, ok := r.byID[id]; ok {
		o.Status = status
	}
	return nil
}

func (r *FakeOrderRepo) UpdateStatusFrom(id, from, to string) (bool, error) {
	if r.BeforeStatusCAS != nil {
		r.BeforeStatusCAS()
	}
	o, ok := r.byID[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (r *FakeOrderRepo) List(f repository.OrderFilter) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.byID {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.ClientID != "" && o.ClientID != f.ClientID {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reference < out[j].Reference })
	return out, nil
}

func (r *FakeOrderRepo) Count(f repository.OrderFilter) (int, error) {
	out, _ := r.List(f)
	return len(out), nil
}

func (r *FakeOrderRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

func (r *FakeOrderRepo) DeleteLines(orderID string) error {
	kept := r.lines[:0]
	for _, l := range r.lines {
		if l.OrderID != orderID {
			kept = append(kept, l)
		}
	}
	r.lines = kept
	return nil
}

func (r *FakeOrderRepo) CountByClient(clientID string) (int, error) {
	n := 0
	for _, o := range r.byID {
		if o.ClientID == clientID {
			n++
		}
	}
	return n, nil
}

// ── Purchases ─────────────────────────────────────────────────────────────────

type FakePurchaseRepo struct {
	byID  map[string]*entity.Purchase
	lines []*entity.PurchaseLine

	// BeforeStatusCAS, igual que en FakeOrderRepo.
	BeforeStatusCAS func()
}

var _ repository.PurchaseRepository = (*FakePurchaseRepo)(nil)

func (r *FakePurchaseRepo) Create(p *entity.Purchase) error {
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *FakePurchaseRepo) CreateLine(l *entity.PurchaseLine) error {
	cp := *l
	r.lines = append(r.lines, &cp)
	return nil
}

func (r *FakePurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *FakePurchaseRepo) GetForUpdate(id string) (*entity.Purchase, error) {
	return r.GetByID(id)
}

func (r *FakePurchaseRepo) ListLines(purchaseID string) ([]*entity.PurchaseLine, error) {
	var out []*entity.PurchaseLine
	for _, l := range r.lines {
		if l.PurchaseID == purchaseID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *FakePurchaseRepo) UpdateStatus(id, status string) error {
	if p, ok := r.byID[id]; ok {
		p.Status = status
	}
	return nil
}

func (r *FakePurchaseRepo) UpdateStatusFrom(id, from, to string) (bool, error) {
	if r.BeforeStatusCAS != nil {
		r.BeforeStatusCAS()
	}
	p, ok := r.byID[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	return true, nil
}

func (r *FakePurchaseRepo) UpdateLineReceived(lineID string, receivedQty decimal.Decimal) error {
	for _, l := range r.lines {
		if l.ID == lineID {
			l.ReceivedQty = receivedQty
		}
	}
	return nil
}

func (r *FakePurchaseRepo) List(f repository.PurchaseFilter) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	for _, p := range r.byID {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.SupplierID != "" && p.SupplierID != f.SupplierID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reference < out[j].Reference })
	return out, nil
}

func (r *FakePurchaseRepo) Count(f repository.PurchaseFilter) (int, error) {
	out, _ := r.List(f)
	return len(out), nil
}

func (r *FakePurchaseRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

func (r *FakePurchaseRepo) DeleteLines(purchaseID string) error {
	kept := r.lines[:0]
	for _, l := range r.lines {
		if l.PurchaseID != purchaseID {
			kept = append(kept, l)
		}
	}
	r.lines = kept
	return nil
}

func (r *FakePurchaseRepo) CountBySupplier(supplierID string) (int, error) {
	n := 0
	for _, p := range r.byID {
		if p.SupplierID == supplierID {
			n++
		}
	}
	return n, nil
}

// LineCount devuelve cuántas líneas quedan para la compra (helper de aserción).
func (r *FakePurchaseRepo) LineCount(purchaseID string) int {
	out, _ := r.ListLines(purchaseID)
	return len(out)
}

// ── Clients ───────────────────────────────────────────────────────────────────

type FakeClientRepo struct {
	byID map[string]*entity.Client
}

var _ repository.ClientRepository = (*FakeClientRepo)(nil)

func (r *FakeClientRepo) Create(c *entity.Client) error {
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *FakeClientRepo) GetByID(id string) (*entity.Client, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *FakeClientRepo) Update(c *entity.Client) error {
	if cur, ok := r.byID[c.ID]; ok {
		*cur = *c
	}
	return nil
}

func (r *FakeClientRepo) List(f repository.DirectoryFilter) ([]*entity.Client, error) {
	var out []*entity.Client
	for _, c := range r.byID {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *FakeClientRepo) Count(f repository.DirectoryFilter) (int, error) {
	return len(r.byID), nil
}

func (r *FakeClientRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

// ── Suppliers ─────────────────────────────────────────────────────────────────

type FakeSupplierRepo struct {
	byID map[string]*entity.Supplier
}

var _ repository.SupplierRepository = (*FakeSupplierRepo)(nil)

func (r *FakeSupplierRepo) Create(s *entity.Supplier) error {
	cp := *s
	r.byID[s.ID] = &cp
	return nil
}

func (r *FakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *FakeSupplierRepo) Update(s *entity.Supplier) error {
	if cur, ok := r.byID[s.ID]; ok {
		*cur = *s
	}
	return nil
}

func (r *FakeSupplierRepo) List(f repository.DirectoryFilter) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for _, s := range r.byID {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *FakeSupplierRepo) Count(f repository.DirectoryFilter) (int, error) {
	return len(r.byID), nil
}

func (r *FakeSupplierRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}
