package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/normalize"
)

// ProductUseCase casos de uso CRUD para productos. CurrentStock y PurchasePrice
// se manejan vía movimientos y recepciones, nunca desde aquí.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto con stock 0 y costo promedio 0.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Reference == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.MinimumStock.IsNegative() || in.SalePrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByReference(in.Reference)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	unit := in.Unit
	if unit == "" {
		unit = "unit"
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Reference:     in.Reference,
		Name:          in.Name,
		NameSearch:    normalize.SearchKey(in.Name),
		CategoryID:    in.CategoryID,
		Unit:          unit,
		CurrentStock:  decimal.Zero,
		MinimumStock:  in.MinimumStock,
		PurchasePrice: decimal.Zero,
		SalePrice:     in.SalePrice,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto (campos opcionales). No toca stock ni costo.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
		product.NameSearch = normalize.SearchKey(*in.Name)
	}
	if in.CategoryID != nil {
		product.CategoryID = in.CategoryID
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.MinimumStock != nil {
		if in.MinimumStock.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.MinimumStock = *in.MinimumStock
	}
	if in.SalePrice != nil {
		if in.SalePrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.SalePrice = *in.SalePrice
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con filtros (búsqueda insensible a acentos, categoría,
// bajo stock) y paginación.
func (uc *ProductUseCase) List(f repository.ProductFilter) (*dto.ProductListResponse, error) {
	f.Search = normalize.SearchKey(f.Search)
	list, err := uc.repo.List(f)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset, Total: total},
	}, nil
}

// Deactivate desactiva un producto (no se elimina: los movimientos lo referencian).
func (uc *ProductUseCase) Deactivate(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.SetActive(id, false)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		Reference:     p.Reference,
		Name:          p.Name,
		CategoryID:    p.CategoryID,
		Unit:          p.Unit,
		CurrentStock:  p.CurrentStock,
		MinimumStock:  p.MinimumStock,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		Active:        p.Active,
		LowStock:      p.BelowMinimum(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
