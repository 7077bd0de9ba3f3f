package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// LocationUseCase casos de uso CRUD para ubicaciones de almacenamiento.
// Las ubicaciones no se eliminan: se desactivan, para no dejar huérfanos los
// movimientos y niveles que las referencian.
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create crea una ubicación.
func (uc *LocationUseCase) Create(in dto.SaveLocationRequest) (*dto.LocationResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	loc := &entity.Location{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// GetByID obtiene una ubicación por ID.
func (uc *LocationUseCase) GetByID(id string) (*dto.LocationResponse, error) {
	loc, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	return toLocationResponse(loc), nil
}

// Update actualiza nombre y descripción de una ubicación.
func (uc *LocationUseCase) Update(id string, in dto.SaveLocationRequest) (*dto.LocationResponse, error) {
	loc, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	loc.Name = in.Name
	loc.Description = in.Description
	loc.UpdatedAt = time.Now()
	if err := uc.repo.Update(loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// List lista ubicaciones; activeOnly filtra las desactivadas.
func (uc *LocationUseCase) List(activeOnly bool) (*dto.LocationListResponse, error) {
	list, err := uc.repo.List(activeOnly)
	if err != nil {
		return nil, err
	}
	out := &dto.LocationListResponse{Items: make([]dto.LocationResponse, 0, len(list))}
	for _, l := range list {
		out.Items = append(out.Items, *toLocationResponse(l))
	}
	return out, nil
}

// Deactivate desactiva una ubicación (no se elimina).
func (uc *LocationUseCase) Deactivate(id string) error {
	loc, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.ErrNotFound
	}
	return uc.repo.SetActive(id, false)
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}
	return &dto.LocationResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Active:      l.Active,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
