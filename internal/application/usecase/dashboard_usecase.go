package usecase

import (
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// DashboardUseCase arma el resumen de la página de inicio: contadores del
// catálogo, órdenes/compras abiertas, últimos movimientos y productos bajo mínimo.
type DashboardUseCase struct {
	repo repository.DashboardRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo}
}

// Summary consulta todos los agregados del dashboard.
func (uc *DashboardUseCase) Summary() (*dto.DashboardResponse, error) {
	activeProducts, err := uc.repo.CountActiveProducts()
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.repo.CountLowStockProducts()
	if err != nil {
		return nil, err
	}
	openOrders, err := uc.repo.CountOpenOrders()
	if err != nil {
		return nil, err
	}
	openPurchases, err := uc.repo.CountOpenPurchases()
	if err != nil {
		return nil, err
	}
	movements, err := uc.repo.RecentMovements(10)
	if err != nil {
		return nil, err
	}
	lowList, err := uc.repo.LowStockProducts(10)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		ActiveProducts:   activeProducts,
		LowStockProducts: lowStock,
		OpenOrders:       openOrders,
		OpenPurchases:    openPurchases,
	}
	for _, m := range movements {
		resp.RecentMovements = append(resp.RecentMovements, ToMovementResponse(m))
	}
	for _, p := range lowList {
		resp.LowStockList = append(resp.LowStockList, *toProductResponse(p))
	}
	return resp, nil
}

// ToMovementResponse mapea un movimiento del libro a su DTO de salida.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		LocationID:   m.LocationID,
		Type:         m.Type,
		Quantity:     m.Quantity,
		UserID:       m.UserID,
		DocumentType: m.DocumentType,
		DocumentID:   m.DocumentID,
		Note:         m.Note,
		CreatedAt:    m.CreatedAt,
	}
}
