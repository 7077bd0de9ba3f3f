package orders_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/apptest"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/orders"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/order"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var (
	vendedor = domain.RequestContext{UserID: "u-vend", Role: entity.RoleVendedor}
	admin    = domain.RequestContext{UserID: "u-admin", Role: entity.RoleAdmin}
)

func newOrdersUC(t *testing.T) (*orders.UseCase, *apptest.World) {
	t.Helper()
	w := apptest.NewWorld()
	stockUC := stock.NewUseCase(w, w.Products, w.Movements, w.Levels)
	require.NoError(t, w.Clients.Create(&entity.Client{ID: "c1", Name: "Cliente Uno"}))
	require.NoError(t, w.Products.Create(&entity.Product{
		ID: "p1", Reference: "PRD-p1", Name: "Producto Uno", Unit: "unité",
		CurrentStock: dec("50"), SalePrice: dec("50"), Active: true,
	}))
	require.NoError(t, w.Products.Create(&entity.Product{
		ID: "p2", Reference: "PRD-p2", Name: "Producto Dos", Unit: "unité",
		CurrentStock: dec("10"), SalePrice: dec("100"), Active: true,
	}))
	return orders.NewUseCase(w, stockUC, w.Orders, w.Clients), w
}

func createOrder(t *testing.T, uc *orders.UseCase, in dto.CreateOrderRequest) *dto.OrderResponse {
	t.Helper()
	resp, err := uc.Create(context.Background(), vendedor, in)
	require.NoError(t, err)
	return resp
}

func TestCrearOrden_DescuentaStockYRegistraSalidas(t *testing.T) {
	uc, w := newOrdersUC(t)

	resp := createOrder(t, uc, dto.CreateOrderRequest{
		ClientID: "c1",
		Lines: []dto.OrderLineRequest{
			{ProductID: "p1", Quantity: dec("2"), UnitPrice: dec("50")},
			{ProductID: "p2", Quantity: dec("1"), UnitPrice: dec("100")},
		},
	})

	assert.Equal(t, entity.OrderStatusDraft, resp.Status)
	assert.True(t, strings.HasPrefix(resp.Reference, "CMD-"))
	assert.True(t, w.Products.Stock("p1").Equal(dec("48")))
	assert.True(t, w.Products.Stock("p2").Equal(dec("9")))

	movs := w.Movements.ByDocument(entity.DocumentTypeOrder, resp.ID)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeExit, m.Type)
		assert.Equal(t, "order creation", m.Note)
	}
}

func TestCrearOrden_TotalConDescuento(t *testing.T) {
	uc, _ := newOrdersUC(t)

	// 2×50 + 1×100 = 200; con 10% de descuento → 180.
	resp := createOrder(t, uc, dto.CreateOrderRequest{
		ClientID:    "c1",
		DiscountPct: dec("10"),
		Lines: []dto.OrderLineRequest{
			{ProductID: "p1", Quantity: dec("2"), UnitPrice: dec("50")},
			{ProductID: "p2", Quantity: dec("1"), UnitPrice: dec("100")},
		},
	})

	assert.True(t, resp.Total.Equal(dec("180")), "total = %s", resp.Total)
}

func TestCrearOrden_StockInsuficiente(t *testing.T) {
	uc, _ := newOrdersUC(t)

	_, err := uc.Create(context.Background(), vendedor, dto.CreateOrderRequest{
		ClientID: "c1",
		Lines:    []dto.OrderLineRequest{{ProductID: "p2", Quantity: dec("11"), UnitPrice: dec("100")}},
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestCrearOrden_Validaciones(t *testing.T) {
	uc, _ := newOrdersUC(t)
	line := dto.OrderLineRequest{ProductID: "p1", Quantity: dec("1"), UnitPrice: dec("50")}

	cases := []struct {
		name    string
		in      dto.CreateOrderRequest
		wantErr error
	}{
		{"sin cliente", dto.CreateOrderRequest{Lines: []dto.OrderLineRequest{line}}, domain.ErrInvalidInput},
		{"sin líneas", dto.CreateOrderRequest{ClientID: "c1"}, domain.ErrInvalidInput},
		{"descuento negativo", dto.CreateOrderRequest{ClientID: "c1", DiscountPct: dec("-5"), Lines: []dto.OrderLineRequest{line}}, domain.ErrInvalidInput},
		{"descuento mayor a cien", dto.CreateOrderRequest{ClientID: "c1", DiscountPct: dec("101"), Lines: []dto.OrderLineRequest{line}}, domain.ErrInvalidInput},
		{"cantidad en cero", dto.CreateOrderRequest{ClientID: "c1", Lines: []dto.OrderLineRequest{{ProductID: "p1", Quantity: decimal.Zero, UnitPrice: dec("50")}}}, domain.ErrInvalidInput},
		{"cliente inexistente", dto.CreateOrderRequest{ClientID: "nope", Lines: []dto.OrderLineRequest{line}}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), vendedor, tc.in)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestTransicion_FlujoCompleto(t *testing.T) {
	uc, _ := newOrdersUC(t)
	resp := createOrder(t, uc, dto.CreateOrderRequest{
		ClientID: "c1",
		Lines:    []dto.OrderLineRequest{{ProductID: "p1", Quantity: dec("1"), UnitPrice: dec("50")}},
	})

	for _, step := range []struct{ action, want string }{
		{order.ActionConfirm, entity.OrderStatusConfirmed},
		{order.ActionPrepare, entity.OrderStatusPreparing},
		{order.ActionDeliver, entity.OrderStatusDelivered},
	} {
		got, err := uc.Transition(context.Background(), vendedor, resp.ID, step.action)
		require.NoError(t, err)
		assert.Equal(t, step.want, got)
	}
}

func TestTransicion_EntregarBorrador_NoPermitida(t *testing.T) {
	uc, _ := newOrdersUC(t)
	resp := createOrder(t, uc, dto.CreateOrderRequest{
		ClientID: "c1",
		Lines:    []dto.OrderLineRequest{{ProductID: "p1", Quantity: dec("1"), UnitPrice: dec("50")}},
	})

	_, err := uc.Transition(context.Background(), vendedor, resp.ID, order.ActionDeliver)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestTransicion_AnulacionConcurrente_NoSePisa(t *testing.T) {
	uc, w := newOrdersUC(t)
	resp := createOrder(t, uc, dto.CreateOrderRequest{
		ClientID: "c1",
		Lines:    []dto.OrderLineRequest{{ProductID: "p1", Quantity: dec("1"), UnitPrice: dec("50")}},
	})

	// Otra petición anula la orden entre la lectura del estado y el UPDATE.
	w.Orders.BeforeStatusCAS = func() {
		w.Orders.BeforeStatusCAS = nil
		require.NoError(t, w.Orders.UpdateStatus(resp.ID, entity.OrderStatusCancelled))
	}

	_, err := uc.Transition(context.Background(), vendedor, resp.ID, order.ActionConfirm)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	o, getErr := w.Orders.GetByID(resp.ID)
	require.NoError(t, getErr)
	assert.Equal(t, entity.OrderStatusCancelled, o.Status, "la anulación concurrente no debe sobrescribirse")
}

func TestAnularOrden_DevuelveStock(t *testing.T) {
	uc, w := newOrdersUC(t)
	resp := createOrder(t, uc, dto.CreateOrderRequest{
		ClientID: "c1",
		Lines: []dto.OrderLineRequest{
			{ProductID: "p1", Quantity: dec("3"), UnitPrice: dec("50")},
			{ProductID: "p2", Quantity: dec("2"), UnitPrice: dec("100")},
		},
	})
	require.True(t, w.Products.Stock("p1").Equal(dec("47")))

	got, err := uc.Transition(context.Background(), vendedor, resp.ID, order.ActionCancel)

	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, got)
	assert.True(t, w.Products.Stock("p1").Equal(dec("50")))
	assert.True(t, w.Products.Stock("p2").Equal(dec("10")))

	// La devolución queda trazada como entradas ligadas a la orden.
	var entries int
	for _, m := range w.Movements.ByDocument(entity.DocumentTypeOrder, resp.ID) {
		if m.Type == entity.MovementTypeEntry {
			entries++
			assert.Equal(t, "order cancellation", m.Note)
		}
	}
	assert.Equal(t, 2, entries)
}

func TestAnularOrden_Entregada_NoPermitida(t *testing.T) {
	uc, w := newOrdersUC(t)
	resp := createOrder(t, uc, dto.CreateOrderRequest{
		ClientID: "c1",
		Lines:    []dto.OrderLineRequest{{ProductID: "p1", Quantity: dec("1"), UnitPrice: dec("50")}},
	})
	for _, a := range []string{order.ActionConfirm, order.ActionPrepare, order.ActionDeliver} {
		_, err := uc.Transition(context.Background(), vendedor, resp.ID, a)
		require.NoError(t, err)
	}

	_, err := uc.Transition(context.Background(), vendedor, resp.ID, order.ActionCancel)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	// El stock no se devuelve.
	assert.True(t, w.Products.Stock("p1").Equal(dec("49")))
}

func TestEliminarOrden_SoloAdmin(t *testing.T) {
	uc, _ := newOrdersUC(t)
	resp := createOrder(t, uc, dto.CreateOrderRequest{
		ClientID: "c1",
		Lines:    []dto.OrderLineRequest{{ProductID: "p1", Quantity: dec("1"), UnitPrice: dec("50")}},
	})

	err := uc.Delete(context.Background(), vendedor, resp.ID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestEliminarOrden_NoReponeStock(t *testing.T) {
	uc, w := newOrdersUC(t)
	resp := createOrder(t, uc, dto.CreateOrderRequest{
		ClientID: "c1",
		Lines:    []dto.OrderLineRequest{{ProductID: "p1", Quantity: dec("5"), UnitPrice: dec("50")}},
	})

	err := uc.Delete(context.Background(), admin, resp.ID)

	require.NoError(t, err)
	got, gerr := uc.Get(context.Background(), resp.ID)
	assert.ErrorIs(t, gerr, domain.ErrNotFound)
	assert.Nil(t, got)
	// El borrado no revierte los movimientos: el stock queda descontado.
	assert.True(t, w.Products.Stock("p1").Equal(dec("45")))
	assert.Len(t, w.Movements.ByDocument(entity.DocumentTypeOrder, resp.ID), 1)
}

func TestEliminarOrden_Inexistente(t *testing.T) {
	uc, _ := newOrdersUC(t)

	err := uc.Delete(context.Background(), admin, "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestObtenerOrden_ConLineas(t *testing.T) {
	uc, _ := newOrdersUC(t)
	resp := createOrder(t, uc, dto.CreateOrderRequest{
		ClientID: "c1",
		Lines: []dto.OrderLineRequest{
			{ProductID: "p1", Quantity: dec("2"), UnitPrice: dec("50")},
		},
	})

	detail, err := uc.Get(context.Background(), resp.ID)

	require.NoError(t, err)
	require.Len(t, detail.Lines, 1)
	assert.Equal(t, "p1", detail.Lines[0].ProductID)
	assert.True(t, detail.Lines[0].LineTotal.Equal(dec("100")))
}
