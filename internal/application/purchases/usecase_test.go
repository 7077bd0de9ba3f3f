package purchases_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/apptest"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/purchases"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var (
	bodeguero = domain.RequestContext{UserID: "u-bod", Role: entity.RoleBodeguero}
	admin     = domain.RequestContext{UserID: "u-admin", Role: entity.RoleAdmin}
)

func newPurchasesUC(t *testing.T) (*purchases.UseCase, *apptest.World) {
	t.Helper()
	w := apptest.NewWorld()
	stockUC := stock.NewUseCase(w, w.Products, w.Movements, w.Levels)
	require.NoError(t, w.Suppliers.Create(&entity.Supplier{ID: "s1", Name: "Proveedor Uno"}))
	require.NoError(t, w.Products.Create(&entity.Product{
		ID: "p1", Reference: "PRD-p1", Name: "Producto Uno", Unit: "unité",
		CurrentStock: dec("10"), PurchasePrice: dec("4"), Active: true,
	}))
	require.NoError(t, w.Products.Create(&entity.Product{
		ID: "p2", Reference: "PRD-p2", Name: "Producto Dos", Unit: "kg",
		CurrentStock: decimal.Zero, PurchasePrice: decimal.Zero, Active: true,
	}))
	return purchases.NewUseCase(w, stockUC, w.Purchases, w.Suppliers), w
}

func createPurchase(t *testing.T, uc *purchases.UseCase, lines []dto.PurchaseLineRequest) *dto.PurchaseResponse {
	t.Helper()
	resp, err := uc.Create(context.Background(), bodeguero, dto.CreatePurchaseRequest{
		SupplierID: "s1",
		Lines:      lines,
	})
	require.NoError(t, err)
	return resp
}

func TestCrearCompra_PendingSinEfectoDeStock(t *testing.T) {
	uc, w := newPurchasesUC(t)

	resp := createPurchase(t, uc, []dto.PurchaseLineRequest{
		{ProductID: "p1", Quantity: dec("10"), UnitCost: dec("6")},
	})

	assert.Equal(t, entity.PurchaseStatusPending, resp.Status)
	assert.True(t, strings.HasPrefix(resp.Reference, "ACH-"))
	assert.True(t, resp.Total.Equal(dec("60")))
	assert.True(t, w.Products.Stock("p1").Equal(dec("10")), "crear no mueve stock")
	assert.Empty(t, w.Movements.All())
}

func TestCrearCompra_Validaciones(t *testing.T) {
	uc, _ := newPurchasesUC(t)
	line := dto.PurchaseLineRequest{ProductID: "p1", Quantity: dec("1"), UnitCost: dec("5")}

	cases := []struct {
		name    string
		in      dto.CreatePurchaseRequest
		wantErr error
	}{
		{"sin proveedor", dto.CreatePurchaseRequest{Lines: []dto.PurchaseLineRequest{line}}, domain.ErrInvalidInput},
		{"sin líneas", dto.CreatePurchaseRequest{SupplierID: "s1"}, domain.ErrInvalidInput},
		{"costo en cero", dto.CreatePurchaseRequest{SupplierID: "s1", Lines: []dto.PurchaseLineRequest{{ProductID: "p1", Quantity: dec("1"), UnitCost: decimal.Zero}}}, domain.ErrInvalidInput},
		{"proveedor inexistente", dto.CreatePurchaseRequest{SupplierID: "nope", Lines: []dto.PurchaseLineRequest{line}}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), bodeguero, tc.in)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestRecibirCompra_TotalActualizaStockYCosto(t *testing.T) {
	uc, w := newPurchasesUC(t)
	// Stock previo 10 a costo 4; se reciben 10 a costo 6 → promedio 5.
	resp := createPurchase(t, uc, []dto.PurchaseLineRequest{
		{ProductID: "p1", Quantity: dec("10"), UnitCost: dec("6")},
	})

	status, err := uc.Receive(context.Background(), bodeguero, resp.ID, dto.ReceivePurchaseRequest{})

	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusReceived, status)
	assert.True(t, w.Products.Stock("p1").Equal(dec("20")))
	assert.True(t, w.Products.Cost("p1").Equal(dec("5")), "costo promedio = %s", w.Products.Cost("p1"))

	movs := w.Movements.ByDocument(entity.DocumentTypePurchase, resp.ID)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeEntry, movs[0].Type)
	assert.Equal(t, "purchase receipt", movs[0].Note)
}

func TestRecibirCompra_SinStockPrevio_CostoEsElRecibido(t *testing.T) {
	uc, w := newPurchasesUC(t)
	resp := createPurchase(t, uc, []dto.PurchaseLineRequest{
		{ProductID: "p2", Quantity: dec("5"), UnitCost: dec("3.50")},
	})

	status, err := uc.Receive(context.Background(), bodeguero, resp.ID, dto.ReceivePurchaseRequest{})

	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusReceived, status)
	assert.True(t, w.Products.Cost("p2").Equal(dec("3.50")))
}

func TestRecibirCompra_Parcial(t *testing.T) {
	uc, w := newPurchasesUC(t)
	resp := createPurchase(t, uc, []dto.PurchaseLineRequest{
		{ProductID: "p1", Quantity: dec("10"), UnitCost: dec("6")},
	})
	detail, err := uc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	lineID := detail.Lines[0].ID

	status, err := uc.Receive(context.Background(), bodeguero, resp.ID, dto.ReceivePurchaseRequest{
		Lines: []dto.ReceiptLineRequest{{LineID: lineID, Quantity: dec("4")}},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusPartial, status)
	assert.True(t, w.Products.Stock("p1").Equal(dec("14")))

	// El resto completa la compra.
	status, err = uc.Receive(context.Background(), bodeguero, resp.ID, dto.ReceivePurchaseRequest{})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusReceived, status)
	assert.True(t, w.Products.Stock("p1").Equal(dec("20")))
}

func TestRecibirCompra_MasDeLoPendiente_RetornaError(t *testing.T) {
	uc, _ := newPurchasesUC(t)
	resp := createPurchase(t, uc, []dto.PurchaseLineRequest{
		{ProductID: "p1", Quantity: dec("10"), UnitCost: dec("6")},
	})
	detail, err := uc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	lineID := detail.Lines[0].ID

	_, err = uc.Receive(context.Background(), bodeguero, resp.ID, dto.ReceivePurchaseRequest{
		Lines: []dto.ReceiptLineRequest{{LineID: lineID, Quantity: dec("11")}},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecibirCompra_Anulada_NoPermitida(t *testing.T) {
	uc, _ := newPurchasesUC(t)
	resp := createPurchase(t, uc, []dto.PurchaseLineRequest{
		{ProductID: "p1", Quantity: dec("10"), UnitCost: dec("6")},
	})
	require.NoError(t, uc.Cancel(context.Background(), bodeguero, resp.ID))

	_, err := uc.Receive(context.Background(), bodeguero, resp.ID, dto.ReceivePurchaseRequest{})

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestRecibirCompra_Inexistente(t *testing.T) {
	uc, _ := newPurchasesUC(t)

	_, err := uc.Receive(context.Background(), bodeguero, "nope", dto.ReceivePurchaseRequest{})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnularCompra_DesdePendingYPartial(t *testing.T) {
	uc, w := newPurchasesUC(t)
	resp := createPurchase(t, uc, []dto.PurchaseLineRequest{
		{ProductID: "p1", Quantity: dec("10"), UnitCost: dec("6")},
	})
	detail, err := uc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	_, err = uc.Receive(context.Background(), bodeguero, resp.ID, dto.ReceivePurchaseRequest{
		Lines: []dto.ReceiptLineRequest{{LineID: detail.Lines[0].ID, Quantity: dec("4")}},
	})
	require.NoError(t, err)

	require.NoError(t, uc.Cancel(context.Background(), bodeguero, resp.ID))

	got, err := uc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseStatusCancelled, got.Status)
	// Lo ya recibido no se revierte.
	assert.True(t, w.Products.Stock("p1").Equal(dec("14")))
}

func TestAnularCompra_Recibida_NoPermitida(t *testing.T) {
	uc, _ := newPurchasesUC(t)
	resp := createPurchase(t, uc, []dto.PurchaseLineRequest{
		{ProductID: "p1", Quantity: dec("10"), UnitCost: dec("6")},
	})
	_, err := uc.Receive(context.Background(), bodeguero, resp.ID, dto.ReceivePurchaseRequest{})
	require.NoError(t, err)

	err = uc.Cancel(context.Background(), bodeguero, resp.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestAnularCompra_RecepcionConcurrente_NoSePisa(t *testing.T) {
	uc, w := newPurchasesUC(t)
	resp := createPurchase(t, uc, []dto.PurchaseLineRequest{
		{ProductID: "p1", Quantity: dec("10"), UnitCost: dec("6")},
	})

	// Una recepción concurrente cierra la compra entre la lectura y el UPDATE.
	w.Purchases.BeforeStatusCAS = func() {
		w.Purchases.BeforeStatusCAS = nil
		require.NoError(t, w.Purchases.UpdateStatus(resp.ID, entity.PurchaseStatusReceived))
	}

	err := uc.Cancel(context.Background(), bodeguero, resp.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	p, getErr := w.Purchases.GetByID(resp.ID)
	require.NoError(t, getErr)
	assert.Equal(t, entity.PurchaseStatusReceived, p.Status)
}

func TestEliminarCompra_SoloAdmin(t *testing.T) {
	uc, _ := newPurchasesUC(t)
	resp := createPurchase(t, uc, []dto.PurchaseLineRequest{
		{ProductID: "p1", Quantity: dec("10"), UnitCost: dec("6")},
	})

	err := uc.Delete(context.Background(), bodeguero, resp.ID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestEliminarCompra_Pending_DecrementaSinMovimiento(t *testing.T) {
	uc, w := newPurchasesUC(t)
	resp := createPurchase(t, uc, []dto.PurchaseLineRequest{
		{ProductID: "p1", Quantity: dec("3"), UnitCost: dec("6")},
	})

	err := uc.Delete(context.Background(), admin, resp.ID)

	require.NoError(t, err)
	got, gerr := uc.Get(context.Background(), resp.ID)
	assert.ErrorIs(t, gerr, domain.ErrNotFound)
	assert.Nil(t, got)
	assert.Equal(t, 0, w.Purchases.LineCount(resp.ID))
	// Decremento directo del contador, sin fila en el libro.
	assert.True(t, w.Products.Stock("p1").Equal(dec("7")))
	assert.Empty(t, w.Movements.All())
}

func TestEliminarCompra_Partial_NoPermitida(t *testing.T) {
	uc, _ := newPurchasesUC(t)
	resp := createPurchase(t, uc, []dto.PurchaseLineRequest{
		{ProductID: "p1", Quantity: dec("10"), UnitCost: dec("6")},
	})
	detail, err := uc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	_, err = uc.Receive(context.Background(), bodeguero, resp.ID, dto.ReceivePurchaseRequest{
		Lines: []dto.ReceiptLineRequest{{LineID: detail.Lines[0].ID, Quantity: dec("4")}},
	})
	require.NoError(t, err)

	err = uc.Delete(context.Background(), admin, resp.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
