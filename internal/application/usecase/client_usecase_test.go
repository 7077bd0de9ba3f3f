package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/apptest"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

func TestCrearCliente_NombreObligatorio(t *testing.T) {
	w := apptest.NewWorld()
	uc := usecase.NewClientUseCase(w.Clients, w.Orders)

	_, err := uc.Create(dto.SaveClientRequest{Email: "a@b.cl"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEliminarCliente_ConOrdenes_Bloqueado(t *testing.T) {
	w := apptest.NewWorld()
	uc := usecase.NewClientUseCase(w.Clients, w.Orders)
	resp, err := uc.Create(dto.SaveClientRequest{Name: "Cliente Uno"})
	require.NoError(t, err)
	require.NoError(t, w.Orders.Create(&entity.Order{
		ID: "o1", Reference: "CMD-x", ClientID: resp.ID,
		Status: entity.OrderStatusDraft, Total: decimal.Zero,
	}))

	err = uc.Delete(resp.ID)

	assert.ErrorIs(t, err, domain.ErrHasDependencies)
	// El cliente sigue existiendo.
	got, gerr := uc.GetByID(resp.ID)
	require.NoError(t, gerr)
	assert.Equal(t, "Cliente Uno", got.Name)
}

func TestEliminarCliente_SinOrdenes(t *testing.T) {
	w := apptest.NewWorld()
	uc := usecase.NewClientUseCase(w.Clients, w.Orders)
	resp, err := uc.Create(dto.SaveClientRequest{Name: "Cliente Dos"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(resp.ID))

	_, err = uc.GetByID(resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEliminarProveedor_ConCompras_Bloqueado(t *testing.T) {
	w := apptest.NewWorld()
	uc := usecase.NewSupplierUseCase(w.Suppliers, w.Purchases)
	resp, err := uc.Create(dto.SaveSupplierRequest{Name: "Proveedor Uno"})
	require.NoError(t, err)
	require.NoError(t, w.Purchases.Create(&entity.Purchase{
		ID: "a1", Reference: "ACH-x", SupplierID: resp.ID,
		Status: entity.PurchaseStatusPending, Total: decimal.Zero,
	}))

	err = uc.Delete(resp.ID)

	assert.ErrorIs(t, err, domain.ErrHasDependencies)
}

func TestActualizarCliente_Inexistente(t *testing.T) {
	w := apptest.NewWorld()
	uc := usecase.NewClientUseCase(w.Clients, w.Orders)

	_, err := uc.Update("nope", dto.SaveClientRequest{Name: "X"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
