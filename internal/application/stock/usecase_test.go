package stock_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/apptest"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newStockUC(t *testing.T) (*stock.UseCase, *apptest.World) {
	t.Helper()
	w := apptest.NewWorld()
	return stock.NewUseCase(w, w.Products, w.Movements, w.Levels), w
}

func seedProduct(t *testing.T, w *apptest.World, id, stockStr string) {
	t.Helper()
	require.NoError(t, w.Products.Create(&entity.Product{
		ID:           id,
		Reference:    "PRD-" + id,
		Name:         "Producto " + id,
		Unit:         "unité",
		CurrentStock: dec(stockStr),
		Active:       true,
	}))
}

func TestRecordMovement_EntradaSumaStock(t *testing.T) {
	uc, w := newStockUC(t)
	seedProduct(t, w, "p1", "10")

	err := uc.RecordMovement(context.Background(), stock.MovementInput{
		ProductID: "p1",
		Type:      entity.MovementTypeEntry,
		Quantity:  dec("5"),
		UserID:    "u1",
		Note:      "recepción manual",
	})

	require.NoError(t, err)
	assert.True(t, w.Products.Stock("p1").Equal(dec("15")))
	require.Len(t, w.Movements.All(), 1)
	assert.Equal(t, entity.MovementTypeEntry, w.Movements.All()[0].Type)
}

func TestRecordMovement_SalidaRestaStock(t *testing.T) {
	uc, w := newStockUC(t)
	seedProduct(t, w, "p1", "10")

	err := uc.RecordMovement(context.Background(), stock.MovementInput{
		ProductID: "p1",
		Type:      entity.MovementTypeExit,
		Quantity:  dec("4"),
		UserID:    "u1",
	})

	require.NoError(t, err)
	assert.True(t, w.Products.Stock("p1").Equal(dec("6")))
}

func TestRecordMovement_SalidaSinStock_RetornaError(t *testing.T) {
	uc, w := newStockUC(t)
	seedProduct(t, w, "p1", "3")

	err := uc.RecordMovement(context.Background(), stock.MovementInput{
		ProductID: "p1",
		Type:      entity.MovementTypeExit,
		Quantity:  dec("5"),
		UserID:    "u1",
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	// Sin efecto: ni contador ni libro.
	assert.True(t, w.Products.Stock("p1").Equal(dec("3")))
	assert.Empty(t, w.Movements.All())
}

func TestRecordMovement_AjusteNegativoPermitido(t *testing.T) {
	uc, w := newStockUC(t)
	seedProduct(t, w, "p1", "10")

	err := uc.RecordMovement(context.Background(), stock.MovementInput{
		ProductID: "p1",
		Type:      entity.MovementTypeAdjustment,
		Quantity:  dec("-3"),
		UserID:    "u1",
		Note:      "merma",
	})

	require.NoError(t, err)
	assert.True(t, w.Products.Stock("p1").Equal(dec("7")))
}

func TestRecordMovement_Validaciones(t *testing.T) {
	uc, w := newStockUC(t)
	seedProduct(t, w, "p1", "10")

	cases := []struct {
		name  string
		input stock.MovementInput
	}{
		{"ajuste en cero", stock.MovementInput{ProductID: "p1", Type: entity.MovementTypeAdjustment, Quantity: decimal.Zero}},
		{"entrada negativa", stock.MovementInput{ProductID: "p1", Type: entity.MovementTypeEntry, Quantity: dec("-1")}},
		{"salida en cero", stock.MovementInput{ProductID: "p1", Type: entity.MovementTypeExit, Quantity: decimal.Zero}},
		{"tipo desconocido", stock.MovementInput{ProductID: "p1", Type: "transfer", Quantity: dec("1")}},
		{"sin producto", stock.MovementInput{Type: entity.MovementTypeEntry, Quantity: dec("1")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := uc.RecordMovement(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, w.Movements.All())
}

func TestRecordMovement_ProductoInexistente(t *testing.T) {
	uc, _ := newStockUC(t)

	err := uc.RecordMovement(context.Background(), stock.MovementInput{
		ProductID: "nope",
		Type:      entity.MovementTypeEntry,
		Quantity:  dec("1"),
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordMovement_MantieneInvarianteContadorLibro(t *testing.T) {
	uc, w := newStockUC(t)
	seedProduct(t, w, "p1", "0")

	inputs := []stock.MovementInput{
		{ProductID: "p1", Type: entity.MovementTypeEntry, Quantity: dec("20"), UserID: "u1"},
		{ProductID: "p1", Type: entity.MovementTypeExit, Quantity: dec("7"), UserID: "u1"},
		{ProductID: "p1", Type: entity.MovementTypeAdjustment, Quantity: dec("-2"), UserID: "u1"},
		{ProductID: "p1", Type: entity.MovementTypeInventory, Quantity: dec("1"), UserID: "u1"},
	}
	for _, in := range inputs {
		require.NoError(t, uc.RecordMovement(context.Background(), in))
	}

	sum, err := w.Movements.SumByProduct("p1")
	require.NoError(t, err)
	assert.True(t, w.Products.Stock("p1").Equal(sum), "el contador debe coincidir con la suma del libro")
	assert.True(t, sum.Equal(dec("12")))
}

func TestRecordMovement_ConUbicacion_AjustaNivelYContador(t *testing.T) {
	uc, w := newStockUC(t)
	seedProduct(t, w, "p1", "0")

	require.NoError(t, uc.RecordMovement(context.Background(), stock.MovementInput{
		ProductID:  "p1",
		LocationID: "loc-a",
		Type:       entity.MovementTypeEntry,
		Quantity:   dec("6"),
		UserID:     "u1",
	}))

	assert.True(t, w.Products.Stock("p1").Equal(dec("6")))
	assert.True(t, w.Levels.Level("p1", "loc-a").Equal(dec("6")))
	require.Len(t, w.Movements.All(), 1)
	assert.Equal(t, "loc-a", w.Movements.All()[0].LocationID)
}

func TestRecordMovement_SinUbicacion_NoTocaNiveles(t *testing.T) {
	uc, w := newStockUC(t)
	seedProduct(t, w, "p1", "0")

	require.NoError(t, uc.RecordMovement(context.Background(), stock.MovementInput{
		ProductID: "p1",
		Type:      entity.MovementTypeEntry,
		Quantity:  dec("6"),
		UserID:    "u1",
	}))

	sum, err := w.Levels.SumByProduct("p1")
	require.NoError(t, err)
	assert.True(t, sum.IsZero(), "un movimiento sin ubicación solo mueve el contador global")
	assert.True(t, w.Products.Stock("p1").Equal(dec("6")))
}

func TestRecordMovement_SalidaSinStockEnUbicacion_RetornaError(t *testing.T) {
	uc, w := newStockUC(t)
	// Stock global de sobra pero nada ubicado en loc-a.
	seedProduct(t, w, "p1", "50")

	err := uc.RecordMovement(context.Background(), stock.MovementInput{
		ProductID:  "p1",
		LocationID: "loc-a",
		Type:       entity.MovementTypeExit,
		Quantity:   dec("1"),
		UserID:     "u1",
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, w.Products.Stock("p1").Equal(dec("50")))
	assert.Empty(t, w.Movements.All())
}

func TestTransfer_MueveNivelesSinCambiarContador(t *testing.T) {
	uc, w := newStockUC(t)
	seedProduct(t, w, "p1", "0")
	require.NoError(t, uc.RecordMovement(context.Background(), stock.MovementInput{
		ProductID: "p1", LocationID: "loc-a", Type: entity.MovementTypeEntry, Quantity: dec("10"), UserID: "u1",
	}))

	err := uc.Transfer(context.Background(), stock.TransferInput{
		ProductID:      "p1",
		FromLocationID: "loc-a",
		ToLocationID:   "loc-b",
		Quantity:       dec("4"),
		UserID:         "u1",
	})

	require.NoError(t, err)
	assert.True(t, w.Levels.Level("p1", "loc-a").Equal(dec("6")))
	assert.True(t, w.Levels.Level("p1", "loc-b").Equal(dec("4")))
	// El contador global no cambia y el libro queda neto en cero.
	assert.True(t, w.Products.Stock("p1").Equal(dec("10")))
	sum, err := w.Movements.SumByProduct("p1")
	require.NoError(t, err)
	assert.True(t, sum.Equal(dec("10")))
	// La transferencia deja dos filas: salida en origen y entrada en destino.
	require.Len(t, w.Movements.All(), 3)
	assert.Equal(t, entity.MovementTypeExit, w.Movements.All()[1].Type)
	assert.Equal(t, "loc-a", w.Movements.All()[1].LocationID)
	assert.Equal(t, entity.MovementTypeEntry, w.Movements.All()[2].Type)
	assert.Equal(t, "loc-b", w.Movements.All()[2].LocationID)
}

func TestTransfer_SinStockEnOrigen_RetornaError(t *testing.T) {
	uc, w := newStockUC(t)
	seedProduct(t, w, "p1", "0")
	require.NoError(t, uc.RecordMovement(context.Background(), stock.MovementInput{
		ProductID: "p1", LocationID: "loc-a", Type: entity.MovementTypeEntry, Quantity: dec("2"), UserID: "u1",
	}))

	err := uc.Transfer(context.Background(), stock.TransferInput{
		ProductID:      "p1",
		FromLocationID: "loc-a",
		ToLocationID:   "loc-b",
		Quantity:       dec("5"),
		UserID:         "u1",
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, w.Levels.Level("p1", "loc-a").Equal(dec("2")))
	assert.True(t, w.Levels.Level("p1", "loc-b").IsZero())
}

func TestTransfer_Validaciones(t *testing.T) {
	uc, _ := newStockUC(t)

	cases := []struct {
		name  string
		input stock.TransferInput
	}{
		{"misma ubicación", stock.TransferInput{ProductID: "p1", FromLocationID: "loc-a", ToLocationID: "loc-a", Quantity: dec("1")}},
		{"cantidad en cero", stock.TransferInput{ProductID: "p1", FromLocationID: "loc-a", ToLocationID: "loc-b", Quantity: decimal.Zero}},
		{"sin origen", stock.TransferInput{ProductID: "p1", ToLocationID: "loc-b", Quantity: dec("1")}},
		{"sin producto", stock.TransferInput{FromLocationID: "loc-a", ToLocationID: "loc-b", Quantity: dec("1")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := uc.Transfer(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLevelsByProduct_TotalUbicado(t *testing.T) {
	uc, w := newStockUC(t)
	seedProduct(t, w, "p1", "0")
	require.NoError(t, uc.RecordMovement(context.Background(), stock.MovementInput{
		ProductID: "p1", LocationID: "loc-a", Type: entity.MovementTypeEntry, Quantity: dec("5"), UserID: "u1",
	}))
	require.NoError(t, uc.RecordMovement(context.Background(), stock.MovementInput{
		ProductID: "p1", LocationID: "loc-b", Type: entity.MovementTypeEntry, Quantity: dec("3"), UserID: "u1",
	}))
	// Entrada sin ubicar: cuenta en el global pero no en los niveles.
	require.NoError(t, uc.RecordMovement(context.Background(), stock.MovementInput{
		ProductID: "p1", Type: entity.MovementTypeEntry, Quantity: dec("2"), UserID: "u1",
	}))

	levels, total, err := uc.LevelsByProduct(context.Background(), "p1")

	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.True(t, total.Equal(dec("8")))
	assert.True(t, w.Products.Stock("p1").Equal(dec("10")))
}

func TestReconcile_SinDesfase(t *testing.T) {
	uc, w := newStockUC(t)
	seedProduct(t, w, "p1", "0")
	require.NoError(t, uc.RecordMovement(context.Background(), stock.MovementInput{
		ProductID: "p1", Type: entity.MovementTypeEntry, Quantity: dec("8"), UserID: "u1",
	}))

	res, err := uc.Reconcile(context.Background(), "p1")

	require.NoError(t, err)
	assert.False(t, res.Mismatch)
	assert.True(t, res.CurrentStock.Equal(dec("8")))
	assert.True(t, res.LedgerSum.Equal(dec("8")))
}

func TestReconcile_ReportaDesfaseSinCorregir(t *testing.T) {
	uc, w := newStockUC(t)
	// Contador en 10 sin ninguna fila en el libro: desfase de 10.
	seedProduct(t, w, "p1", "10")

	res, err := uc.Reconcile(context.Background(), "p1")

	require.NoError(t, err)
	assert.True(t, res.Mismatch)
	assert.True(t, res.CurrentStock.Equal(dec("10")))
	assert.True(t, res.LedgerSum.IsZero())
	// Solo lectura: el contador no se toca.
	assert.True(t, w.Products.Stock("p1").Equal(dec("10")))
}

func TestReconcile_DosVecesMismoResultado(t *testing.T) {
	uc, w := newStockUC(t)
	// Desfase provocado: contador en 10, libro con una sola entrada de 3.
	seedProduct(t, w, "p1", "7")
	require.NoError(t, uc.RecordMovement(context.Background(), stock.MovementInput{
		ProductID: "p1", Type: entity.MovementTypeEntry, Quantity: dec("3"), UserID: "u1",
	}))

	first, err := uc.Reconcile(context.Background(), "p1")
	require.NoError(t, err)
	second, err := uc.Reconcile(context.Background(), "p1")
	require.NoError(t, err)

	// Conciliar es de solo lectura: repetirlo no altera nada y reporta lo mismo.
	assert.Equal(t, first.ProductID, second.ProductID)
	assert.True(t, first.CurrentStock.Equal(second.CurrentStock))
	assert.True(t, first.LedgerSum.Equal(second.LedgerSum))
	assert.Equal(t, first.Mismatch, second.Mismatch)
	assert.True(t, w.Products.Stock("p1").Equal(dec("10")))
	require.Len(t, w.Movements.All(), 1)
}

func TestReconcile_ProductoInexistente(t *testing.T) {
	uc, _ := newStockUC(t)

	_, err := uc.Reconcile(context.Background(), "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListImbalances_SoloProductosDesfasados(t *testing.T) {
	uc, w := newStockUC(t)
	seedProduct(t, w, "p1", "0")
	seedProduct(t, w, "p2", "99") // sin movimientos: desfasado
	require.NoError(t, uc.RecordMovement(context.Background(), stock.MovementInput{
		ProductID: "p1", Type: entity.MovementTypeEntry, Quantity: dec("5"), UserID: "u1",
	}))

	list, err := uc.ListImbalances(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p2", list[0].ProductID)
	assert.True(t, list[0].CurrentStock.Equal(dec("99")))
	assert.True(t, list[0].LedgerSum.IsZero())
}
