package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/apptest"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
)

func TestCrearUbicacion_NombreObligatorio(t *testing.T) {
	w := apptest.NewWorld()
	uc := usecase.NewLocationUseCase(w.Locations)

	_, err := uc.Create(dto.SaveLocationRequest{Description: "estante sin nombre"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCrearUbicacion_NombreDuplicado(t *testing.T) {
	w := apptest.NewWorld()
	uc := usecase.NewLocationUseCase(w.Locations)
	_, err := uc.Create(dto.SaveLocationRequest{Name: "Bodega A"})
	require.NoError(t, err)

	_, err = uc.Create(dto.SaveLocationRequest{Name: "Bodega A"})

	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestActualizarUbicacion(t *testing.T) {
	w := apptest.NewWorld()
	uc := usecase.NewLocationUseCase(w.Locations)
	resp, err := uc.Create(dto.SaveLocationRequest{Name: "Bodega A"})
	require.NoError(t, err)

	got, err := uc.Update(resp.ID, dto.SaveLocationRequest{Name: "Bodega A1", Description: "pasillo 1"})

	require.NoError(t, err)
	assert.Equal(t, "Bodega A1", got.Name)
	assert.Equal(t, "pasillo 1", got.Description)
}

func TestDesactivarUbicacion_SigueExistiendo(t *testing.T) {
	w := apptest.NewWorld()
	uc := usecase.NewLocationUseCase(w.Locations)
	resp, err := uc.Create(dto.SaveLocationRequest{Name: "Bodega A"})
	require.NoError(t, err)

	require.NoError(t, uc.Deactivate(resp.ID))

	// Desactivar no elimina: la ubicación sigue consultable por ID.
	got, err := uc.GetByID(resp.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	activas, err := uc.List(true)
	require.NoError(t, err)
	assert.Empty(t, activas.Items)
	todas, err := uc.List(false)
	require.NoError(t, err)
	assert.Len(t, todas.Items, 1)
}

func TestDesactivarUbicacion_Inexistente(t *testing.T) {
	w := apptest.NewWorld()
	uc := usecase.NewLocationUseCase(w.Locations)

	err := uc.Deactivate("nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
