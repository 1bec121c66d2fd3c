package inventory_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/pos-inventory/internal/application/inventory"
	"github.com/jhoicas/pos-inventory/internal/domain"
	"github.com/jhoicas/pos-inventory/internal/domain/entity"
	"github.com/jhoicas/pos-inventory/internal/domain/repository"
	"github.com/jhoicas/pos-inventory/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

type fixture struct {
	svc   *appinventory.ReconciliationService
	store *memory.Store
	repos appinventory.Repos
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := func() time.Time { return testNow }
	store := memory.New().WithClock(clock)
	svc := appinventory.NewReconciliationService(store, store.Repos(), nil, nil, zerolog.Nop(), appinventory.Options{
		LowStockThreshold: 10,
		Location:          time.UTC,
		Now:               clock,
	})
	return &fixture{svc: svc, store: store, repos: store.Repos()}
}

// product crea un producto con stock heredado 0.
func (f *fixture) product(t *testing.T, title string, sellPrice int64) *entity.Product {
	t.Helper()
	p := &entity.Product{Barcode: "899" + title, Title: title, SellPrice: decimal.NewFromInt(sellPrice)}
	require.NoError(t, f.repos.Products.Create(context.Background(), p))
	return p
}

// stockIn deja el producto con qty unidades mediante un ajuste de entrada.
func (f *fixture) stockIn(t *testing.T, productID string, qty int64) {
	t.Helper()
	_, err := f.svc.CreateAdjustment(context.Background(), appinventory.AdjustmentInput{
		ProductID: productID, Quantity: qty, Type: entity.MovementTypeAdjustmentIn, Reason: "saldo awal",
	})
	require.NoError(t, err)
}

// assertConsistent verifica snapshot == Σ ledger == stock reflejado del producto.
func (f *fixture) assertConsistent(t *testing.T, productID string, want int64) {
	t.Helper()
	ctx := context.Background()
	sum, err := f.repos.Movements.SumQuantity(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, want, sum, "suma del ledger")

	inv, err := f.repos.Inventories.GetByProduct(ctx, productID)
	require.NoError(t, err)
	require.NotNil(t, inv, "el snapshot debe existir")
	assert.Equal(t, want, inv.Quantity, "snapshot")

	p, err := f.repos.Products.GetByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, want, p.Stock, "stock reflejado del producto")
}

func movementsOf(t *testing.T, f *fixture, productID string) []*entity.StockMovement {
	t.Helper()
	movs, err := f.svc.StockHistory(context.Background(), productID)
	require.NoError(t, err)
	return movs
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de referencia
// ──────────────────────────────────────────────────────────────────────────────

// Escenario 1: stock 0 + adjustment_in 50 → stock 50 y primer número del día.
func TestCreateAdjustment_EntradaDesdeCero(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Mie Goreng", 3500)

	res, err := f.svc.CreateAdjustment(context.Background(), appinventory.AdjustmentInput{
		ProductID: p.ID, Quantity: 50, Type: entity.MovementTypeAdjustmentIn, Reason: "found in warehouse",
	})
	require.NoError(t, err)

	require.NotNil(t, res.Adjustment.JournalNumber)
	assert.Equal(t, "ADJ202403150001", *res.Adjustment.JournalNumber)
	assert.Equal(t, int64(0), res.Adjustment.QuantityBefore)
	assert.Equal(t, int64(50), res.Adjustment.QuantityAfter)
	assert.Equal(t, int64(50), res.Movement.Quantity)
	assert.Equal(t, entity.ReferenceAdjustment, *res.Movement.ReferenceType)
	f.assertConsistent(t, p.ID, 50)
}

// Escenario 2: luego adjustment_out 30 → stock 20, fila del ledger con -30.
func TestCreateAdjustment_Salida(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Mie Goreng", 3500)
	f.stockIn(t, p.ID, 50)

	res, err := f.svc.CreateAdjustment(context.Background(), appinventory.AdjustmentInput{
		ProductID: p.ID, Quantity: 30, Type: entity.MovementTypeAdjustmentOut, Reason: "lost",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(-30), res.Movement.Quantity)
	assert.Equal(t, int64(-30), res.Adjustment.QuantityChange)
	assert.Equal(t, "ADJ202403150002", *res.Adjustment.JournalNumber)
	f.assertConsistent(t, p.ID, 20)
}

// Escenario 3: dos compras de 10 @1000 y @2000 → promedio 1500, stock 20.
func TestProcessPurchase_CostoPromedio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Telur", 26500)

	purchases := []struct {
		id    string
		price int64
	}{{"po-1", 1000}, {"po-2", 2000}}
	for _, po := range purchases {
		err := f.svc.ProcessPurchase(ctx, &entity.Purchase{
			ID:            po.id,
			InvoiceNumber: "INV-" + po.id,
			Items: []entity.PurchaseItem{{
				ProductID: p.ID, Quantity: 10, PurchasePrice: decimal.NewFromInt(po.price),
			}},
		})
		require.NoError(t, err)
	}

	avg, err := f.svc.AverageBuyPrice(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1500).Equal(avg), "promedio %s", avg)

	stock, err := f.svc.CurrentStock(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), stock)
	f.assertConsistent(t, p.ID, 20)

	movs := movementsOf(t, f, p.ID)
	require.Len(t, movs, 2)
	assert.Equal(t, entity.ReferencePurchase, *movs[0].ReferenceType)
	assert.Equal(t, "po-1", *movs[0].ReferenceID)
	assert.True(t, decimal.NewFromInt(10000).Equal(movs[0].TotalPrice))
	assert.Equal(t, int64(10), movs[1].QuantityBefore)
}

// Escenario 4: corrección a 75 con stock 100 → delta -25.
func TestStockCorrection_DeltaNegativo(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Susu UHT", 18900)
	f.stockIn(t, p.ID, 100)

	res, err := f.svc.StockCorrection(context.Background(), appinventory.CorrectionInput{
		ProductID: p.ID, NewQuantity: 75, Reason: "stock opname",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementTypeCorrection, res.Adjustment.Type)
	assert.Equal(t, int64(-25), res.Adjustment.QuantityChange)
	assert.Equal(t, int64(-25), res.Movement.Quantity)
	f.assertConsistent(t, p.ID, 75)
}

// Escenario 5: validación acumulada con un solo ítem deficiente → un error.
func TestValidateStockForTransaction_UnError(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Roti Tawar", 17800)
	f.stockIn(t, p.ID, 5)

	res, err := f.svc.ValidateStockForTransaction(context.Background(), []entity.StockRequest{
		{ProductID: p.ID, Quantity: 20},
	})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Roti Tawar")
}

// Escenario 6: ajustes concurrentes sobre productos distintos → números distintos.
func TestCreateAdjustment_ConcurrentesNumerosDistintos(t *testing.T) {
	f := newFixture(t)
	const n = 20
	products := make([]*entity.Product, n)
	for i := range products {
		products[i] = f.product(t, "Produk-"+string(rune('A'+i)), 1000)
	}

	numbers := make([]string, n)
	var wg sync.WaitGroup
	for i := range products {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.svc.CreateAdjustment(context.Background(), appinventory.AdjustmentInput{
				ProductID: products[i].ID, Quantity: 1, Type: entity.MovementTypeAdjustmentIn, Reason: "opname",
			})
			if assert.NoError(t, err) {
				numbers[i] = *res.Adjustment.JournalNumber
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, num := range numbers {
		assert.Regexp(t, `^ADJ20240315\d{4}$`, num)
		assert.False(t, seen[num], "número repetido %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades
// ──────────────────────────────────────────────────────────────────────────────

func TestJournalNumbers_SecuencialesMismoDia(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kopi Sachet", 2600)

	for _, want := range []string{"ADJ202403150001", "ADJ202403150002", "ADJ202403150003"} {
		res, err := f.svc.CreateAdjustment(context.Background(), appinventory.AdjustmentInput{
			ProductID: p.ID, Quantity: 2, Type: entity.MovementTypeReturn, Reason: "retur pelanggan",
		})
		require.NoError(t, err)
		assert.Equal(t, want, *res.Adjustment.JournalNumber)
	}
}

func TestCreateAdjustment_SignoPorDireccion(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Sabun", 7400)
	f.stockIn(t, p.ID, 10)

	cases := []struct {
		typ  entity.MovementType
		want int64
	}{
		{entity.MovementTypeReturn, 3},
		{entity.MovementTypeDamage, -2},
		{entity.MovementTypeAdjustmentOut, -1},
	}
	for _, tc := range cases {
		res, err := f.svc.CreateAdjustment(context.Background(), appinventory.AdjustmentInput{
			ProductID: p.ID, Quantity: abs(tc.want), Type: tc.typ, Reason: "cek",
		})
		require.NoError(t, err, tc.typ)
		assert.Equal(t, tc.want, res.Movement.Quantity, tc.typ)
	}
	f.assertConsistent(t, p.ID, 10)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func TestCreateAdjustment_RechazaNegativoSinEscribir(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Gula", 17400)
	f.stockIn(t, p.ID, 5)

	_, err := f.svc.CreateAdjustment(context.Background(), appinventory.AdjustmentInput{
		ProductID: p.ID, Quantity: 6, Type: entity.MovementTypeDamage, Reason: "pecah",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Len(t, movementsOf(t, f, p.ID), 1, "no se agrega fila al ledger")
	adjs, err := f.svc.ListAdjustments(context.Background(), repository.AdjustmentFilter{ProductID: p.ID, WithJournalOnly: true})
	require.NoError(t, err)
	assert.Len(t, adjs, 1, "no se agrega asiento al diario")
	f.assertConsistent(t, p.ID, 5)

	// El rechazo no consume número de diario.
	res, err := f.svc.CreateAdjustment(context.Background(), appinventory.AdjustmentInput{
		ProductID: p.ID, Quantity: 1, Type: entity.MovementTypeDamage, Reason: "pecah",
	})
	require.NoError(t, err)
	assert.Equal(t, "ADJ202403150002", *res.Adjustment.JournalNumber)
}

func TestCreateAdjustment_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Teh", 9800)

	_, err := f.svc.CreateAdjustment(context.Background(), appinventory.AdjustmentInput{
		ProductID: p.ID, Quantity: 0, Type: entity.MovementTypeAdjustmentIn,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.CreateAdjustment(context.Background(), appinventory.AdjustmentInput{
		ProductID: p.ID, Quantity: 1, Type: entity.MovementTypeSale,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.StockCorrection(context.Background(), appinventory.CorrectionInput{ProductID: p.ID, NewQuantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.CreateAdjustment(context.Background(), appinventory.AdjustmentInput{
		ProductID: "no-existe", Quantity: 1, Type: entity.MovementTypeAdjustmentIn,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockCorrection_PositivoYCero(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Air Mineral", 3900)
	f.stockIn(t, p.ID, 4)

	res, err := f.svc.StockCorrection(context.Background(), appinventory.CorrectionInput{ProductID: p.ID, NewQuantity: 9, Reason: "opname"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Movement.Quantity)

	res, err = f.svc.StockCorrection(context.Background(), appinventory.CorrectionInput{ProductID: p.ID, NewQuantity: 9, Reason: "opname"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Adjustment.QuantityChange, "delta 0 también queda en el diario")
	f.assertConsistent(t, p.ID, 9)
}

func TestReversePurchase_IdaYVuelta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Coklat", 8600)
	po := &entity.Purchase{ID: "po-9", InvoiceNumber: "INV-009", Items: []entity.PurchaseItem{
		{ProductID: p.ID, Quantity: 12, PurchasePrice: decimal.NewFromInt(4000)},
	}}

	require.NoError(t, f.svc.ProcessPurchase(ctx, po))
	require.NoError(t, f.svc.ReversePurchase(ctx, po))

	movs := movementsOf(t, f, p.ID)
	require.Len(t, movs, 2)
	assert.Equal(t, int64(-12), movs[1].Quantity)
	assert.Equal(t, entity.MovementTypePurchase, movs[1].Type)
	assert.True(t, decimal.NewFromInt(-48000).Equal(movs[1].TotalPrice))
	f.assertConsistent(t, p.ID, 0)

	avg, err := f.svc.AverageBuyPrice(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, avg.IsZero())
}

func TestReversePurchase_StockYaVendido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Keripik", 12800)
	po := &entity.Purchase{ID: "po-3", Items: []entity.PurchaseItem{
		{ProductID: p.ID, Quantity: 5, PurchasePrice: decimal.NewFromInt(9000)},
	}}
	require.NoError(t, f.svc.ProcessPurchase(ctx, po))
	require.NoError(t, f.svc.ProcessTransaction(ctx, &entity.Transaction{ID: "trx-1", Details: []entity.TransactionDetail{
		{ProductID: p.ID, Quantity: 3, Price: decimal.NewFromInt(12800)},
	}}))

	err := f.svc.ReversePurchase(ctx, po)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	f.assertConsistent(t, p.ID, 2)
}

func TestProcessTransaction_Venta(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Shampoo", 3200)
	f.stockIn(t, p.ID, 10)

	err := f.svc.ProcessTransaction(context.Background(), &entity.Transaction{
		ID: "trx-7", Invoice: "TRX-0007",
		Details: []entity.TransactionDetail{{ProductID: p.ID, Quantity: 3, Price: decimal.NewFromInt(3200)}},
	})
	require.NoError(t, err)

	movs := movementsOf(t, f, p.ID)
	last := movs[len(movs)-1]
	assert.Equal(t, entity.MovementTypeSale, last.Type)
	assert.Equal(t, int64(-3), last.Quantity)
	assert.Equal(t, "trx-7", *last.ReferenceID)
	assert.True(t, decimal.NewFromInt(-9600).Equal(last.TotalPrice))
	f.assertConsistent(t, p.ID, 7)
}

// Una línea sin stock revierte también las líneas anteriores de la misma venta.
func TestProcessTransaction_RollbackAtomico(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", 1000)
	b := f.product(t, "B", 1000)
	f.stockIn(t, a.ID, 10)
	f.stockIn(t, b.ID, 1)

	err := f.svc.ProcessTransaction(context.Background(), &entity.Transaction{ID: "trx-2", Details: []entity.TransactionDetail{
		{ProductID: a.ID, Quantity: 4, Price: decimal.NewFromInt(1000)},
		{ProductID: b.ID, Quantity: 2, Price: decimal.NewFromInt(1000)},
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	f.assertConsistent(t, a.ID, 10)
	f.assertConsistent(t, b.ID, 1)
	assert.Len(t, movementsOf(t, f, a.ID), 1)
}

func TestProcessTransaction_VentasConcurrentesNoSobregiran(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Promo", 5000)
	f.stockIn(t, p.ID, 5)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := f.svc.ProcessTransaction(context.Background(), &entity.Transaction{
				ID:      "trx-c" + string(rune('0'+i)),
				Details: []entity.TransactionDetail{{ProductID: p.ID, Quantity: 1, Price: decimal.NewFromInt(5000)}},
			})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	f.assertConsistent(t, p.ID, 0)
	for _, m := range movementsOf(t, f, p.ID) {
		assert.GreaterOrEqual(t, m.QuantityAfter, int64(0))
	}
}

func TestValidateStockForTransaction_Acumula(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", 1000)
	b := f.product(t, "B", 1000)
	c := f.product(t, "C", 1000)
	f.stockIn(t, a.ID, 2)
	f.stockIn(t, c.ID, 9)

	res, err := f.svc.ValidateStockForTransaction(context.Background(), []entity.StockRequest{
		{ProductID: a.ID, Quantity: 3},
		{ProductID: b.ID, Quantity: 1},
		{ProductID: c.ID, Quantity: 9},
		{ProductID: b.ID, Quantity: 0},
	})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 2)

	res, err = f.svc.ValidateStockForTransaction(context.Background(), []entity.StockRequest{{ProductID: b.ID, Quantity: 0}})
	require.NoError(t, err)
	assert.True(t, res.Valid, "cantidad 0 siempre es válida")
	assert.Empty(t, res.Errors)
}

func TestValidateStockForTransaction_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", 1000)
	f.stockIn(t, a.ID, 5)

	res, err := f.svc.ValidateStockForTransaction(context.Background(), []entity.StockRequest{
		{ProductID: a.ID, Quantity: 1},
		{ProductID: "no-existe", Quantity: 1},
	})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "no-existe")
}

func TestValidateStockOrFail_FailFast(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Kosong", 1000)
	b := f.product(t, "Sedikit", 1000)
	f.stockIn(t, b.ID, 2)

	err := f.svc.ValidateStockOrFail(context.Background(), []entity.StockRequest{
		{ProductID: a.ID, Quantity: 1},
		{ProductID: b.ID, Quantity: 5},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.Contains(t, err.Error(), "habis")

	err = f.svc.ValidateStockOrFail(context.Background(), []entity.StockRequest{{ProductID: b.ID, Quantity: 5}})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var stockErr *domain.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(2), stockErr.Available)

	assert.NoError(t, f.svc.ValidateStockOrFail(context.Background(), []entity.StockRequest{{ProductID: b.ID, Quantity: 2}}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas, resumen y reparación
// ──────────────────────────────────────────────────────────────────────────────

func TestInventorySummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A", 3000)
	b := f.product(t, "B", 1500)
	f.product(t, "C", 1000)
	require.NoError(t, f.svc.ProcessPurchase(ctx, &entity.Purchase{ID: "po-a", Items: []entity.PurchaseItem{
		{ProductID: a.ID, Quantity: 20, PurchasePrice: decimal.NewFromInt(2000)},
		{ProductID: b.ID, Quantity: 4, PurchasePrice: decimal.NewFromInt(1000)},
	}}))

	s, err := f.svc.InventorySummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, s.TotalProducts)
	assert.True(t, decimal.NewFromInt(44000).Equal(s.TotalStockValue), "valor a costo %s", s.TotalStockValue)
	assert.True(t, decimal.NewFromInt(66000).Equal(s.TotalSellValue), "valor a precio de venta %s", s.TotalSellValue)
	assert.Equal(t, 1, s.LowStockCount)
	assert.Equal(t, 1, s.OutOfStockCount)
	assert.Equal(t, int64(10), s.LowStockThreshold)
}

func TestListMovements_PorDireccion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Filter", 1000)
	f.stockIn(t, p.ID, 10)
	_, err := f.svc.CreateAdjustment(ctx, appinventory.AdjustmentInput{ProductID: p.ID, Quantity: 2, Type: entity.MovementTypeDamage, Reason: "rusak"})
	require.NoError(t, err)
	_, err = f.svc.StockCorrection(ctx, appinventory.CorrectionInput{ProductID: p.ID, NewQuantity: 20, Reason: "opname"})
	require.NoError(t, err)

	out, err := f.svc.ListMovements(ctx, repository.MovementFilter{ProductID: p.ID, Direction: entity.DirectionOutgoing})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, entity.MovementTypeDamage, out[0].Type)

	in, err := f.svc.ListMovements(ctx, repository.MovementFilter{ProductID: p.ID, Direction: entity.DirectionIncoming})
	require.NoError(t, err)
	require.Len(t, in, 1, "correction no es entrada aunque su delta sea positivo")

	_, err = f.svc.ListMovements(ctx, repository.MovementFilter{Types: []entity.MovementType{"transfer"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// legacyProduct crea un producto que solo tiene stock heredado, sin snapshot ni movimientos.
func (f *fixture) legacyProduct(t *testing.T, title string, stock int64) *entity.Product {
	t.Helper()
	p := &entity.Product{Barcode: "LEG-" + title, Title: title, SellPrice: decimal.NewFromInt(1000), Stock: stock}
	require.NoError(t, f.repos.Products.Create(context.Background(), p))
	return p
}

func TestSyncInventory_Reparacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	legacy := f.legacyProduct(t, "Legacy", 7)
	tracked := f.product(t, "Tracked", 1000)
	f.stockIn(t, tracked.ID, 3)

	created, err := f.svc.SyncInventoryWithProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	f.assertConsistent(t, legacy.ID, 7)

	card, err := f.svc.ProductStock(ctx, legacy.ID)
	require.NoError(t, err)
	assert.True(t, card.InSync, "la apertura deja ledger y snapshot en 7")

	created, err = f.svc.SyncInventoryWithProducts(ctx)
	require.NoError(t, err)
	assert.Zero(t, created, "idempotente")
	assert.Len(t, movementsOf(t, f, legacy.ID), 1, "una sola apertura")

	// Deriva provocada: el snapshot se desvía del ledger fuera del servicio.
	require.NoError(t, f.repos.Inventories.UpdateQuantity(ctx, tracked.ID, 99))

	processed, err := f.svc.SyncInventoryFromMovements(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, processed)
	f.assertConsistent(t, legacy.ID, 7)
	f.assertConsistent(t, tracked.ID, 3)

	card, err = f.svc.ProductStock(ctx, tracked.ID)
	require.NoError(t, err)
	assert.True(t, card.InSync)
}

// Un producto con stock heredado y sin ledger se puede validar y vender; la primera escritura
// registra la apertura como corrección sin usuario.
func TestStockHeredado_AperturaEnLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.legacyProduct(t, "Legacy", 20)

	require.NoError(t, f.svc.ValidateStockOrFail(ctx, []entity.StockRequest{{ProductID: p.ID, Quantity: 1}}))
	res, err := f.svc.ValidateStockForTransaction(ctx, []entity.StockRequest{{ProductID: p.ID, Quantity: 20}})
	require.NoError(t, err)
	assert.True(t, res.Valid, "%v", res.Errors)

	_, err = f.svc.SyncInventoryWithProducts(ctx)
	require.NoError(t, err)
	require.NoError(t, f.svc.ProcessPurchase(ctx, &entity.Purchase{ID: "po-legacy", Items: []entity.PurchaseItem{
		{ProductID: p.ID, Quantity: 10, PurchasePrice: decimal.NewFromInt(1500)},
	}}))
	f.assertConsistent(t, p.ID, 30)

	movs := movementsOf(t, f, p.ID)
	require.Len(t, movs, 2)
	opening := movs[0]
	assert.Equal(t, entity.MovementTypeCorrection, opening.Type)
	assert.Equal(t, int64(20), opening.Quantity)
	assert.Equal(t, int64(0), opening.QuantityBefore)
	assert.Nil(t, opening.UserID, "movimiento de sistema")
	assert.Nil(t, opening.ReferenceType)
	assert.Equal(t, int64(20), movs[1].QuantityBefore)

	avg, err := f.svc.AverageBuyPrice(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1500).Equal(avg), "la apertura no entra al costo promedio")
}

func TestStockHeredado_VentaSinSyncPrevio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.legacyProduct(t, "Legacy", 20)

	require.NoError(t, f.svc.ProcessTransaction(ctx, &entity.Transaction{
		ID: "trx-legacy", Invoice: "INV-L", Details: []entity.TransactionDetail{{ProductID: p.ID, Quantity: 5, Price: decimal.NewFromInt(1000)}},
	}))
	f.assertConsistent(t, p.ID, 15)

	err := f.svc.ValidateStockOrFail(ctx, []entity.StockRequest{{ProductID: p.ID, Quantity: 16}})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestStockHeredado_NegativoNoAbre(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.legacyProduct(t, "Minus", -4)

	err := f.svc.ValidateStockOrFail(ctx, []entity.StockRequest{{ProductID: p.ID, Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrOutOfStock)

	_, err = f.svc.SyncInventoryWithProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, movementsOf(t, f, p.ID))
	inv, err := f.repos.Inventories.GetByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), inv.Quantity)
}

func TestSyncInventory_BloqueoOcupado(t *testing.T) {
	clock := func() time.Time { return testNow }
	store := memory.New().WithClock(clock)
	locker := appinventory.NewLocalLocker()
	svc := appinventory.NewReconciliationService(store, store.Repos(), nil, locker, zerolog.Nop(), appinventory.Options{Now: clock})

	release, err := locker.Obtain(context.Background(), "inventory:sync", time.Minute)
	require.NoError(t, err)

	_, err = svc.SyncInventoryFromMovements(context.Background())
	assert.ErrorIs(t, err, domain.ErrLockNotObtained)

	require.NoError(t, release(context.Background()))
	_, err = svc.SyncInventoryFromMovements(context.Background())
	assert.NoError(t, err)
}

func TestGenerateJournalNumber(t *testing.T) {
	f := newFixture(t)
	n1, err := f.svc.GenerateJournalNumber(context.Background())
	require.NoError(t, err)
	n2, err := f.svc.GenerateJournalNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ADJ202403150001", n1)
	assert.Equal(t, "ADJ202403150002", n2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Integridad del asiento y piso del snapshot
// ──────────────────────────────────────────────────────────────────────────────

// skewedMovements altera el movimiento devuelto tras persistirlo, como haría un trigger mal definido.
type skewedMovements struct {
	repository.StockMovementRepository
}

func (m skewedMovements) Create(ctx context.Context, mov *entity.StockMovement) error {
	if err := m.StockMovementRepository.Create(ctx, mov); err != nil {
		return err
	}
	mov.QuantityBefore++
	mov.QuantityAfter++
	return nil
}

// countingTx cuenta las transacciones y sustituye el repositorio de movimientos.
type countingTx struct {
	store *memory.Store
	calls int
}

func (c *countingTx) Run(ctx context.Context, fn func(repos appinventory.Repos) error) error {
	c.calls++
	return c.store.Run(ctx, func(repos appinventory.Repos) error {
		repos.Movements = skewedMovements{repos.Movements}
		return fn(repos)
	})
}

func TestCreateAdjustment_AsientoDescuadradoNoSeReintenta(t *testing.T) {
	clock := func() time.Time { return testNow }
	store := memory.New().WithClock(clock)
	p := &entity.Product{Barcode: "899Descuadre", Title: "Descuadre", SellPrice: decimal.NewFromInt(1000)}
	require.NoError(t, store.Repos().Products.Create(context.Background(), p))

	tx := &countingTx{store: store}
	svc := appinventory.NewReconciliationService(tx, store.Repos(), nil, nil, zerolog.Nop(), appinventory.Options{
		MaxRetries: 3,
		Location:   time.UTC,
		Now:        clock,
	})

	_, err := svc.CreateAdjustment(context.Background(), appinventory.AdjustmentInput{
		ProductID: p.ID, Quantity: 5, Type: entity.MovementTypeAdjustmentIn, Reason: "cek",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no coincide")
	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, tx.calls, "un error de integridad no se reintenta")

	sum, err := store.Repos().Movements.SumQuantity(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Zero(t, sum, "la transacción se revierte")
}

func TestSnapshotApplyDelta_PisoEnCeroConAdvertencia(t *testing.T) {
	clock := func() time.Time { return testNow }
	store := memory.New().WithClock(clock)
	ctx := context.Background()
	p := &entity.Product{Barcode: "899Piso", Title: "Piso", SellPrice: decimal.NewFromInt(1000), Stock: 3}
	require.NoError(t, store.Repos().Products.Create(ctx, p))

	var buf bytes.Buffer
	snapshot := appinventory.NewSnapshot(zerolog.New(&buf), appinventory.NewLedger(clock), clock)

	err := store.Run(ctx, func(repos appinventory.Repos) error {
		inv, err := snapshot.GetOrCreate(ctx, repos, p)
		if err != nil {
			return err
		}
		return snapshot.ApplyDelta(ctx, repos, inv, -5)
	})
	require.NoError(t, err)

	inv, err := store.Repos().Inventories.GetByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), inv.Quantity)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "se fija en 0")
	assert.Contains(t, buf.String(), `"delta":-5`)

	buf.Reset()
	err = store.Run(ctx, func(repos appinventory.Repos) error {
		inv, err := snapshot.GetOrCreate(ctx, repos, p)
		if err != nil {
			return err
		}
		return snapshot.ApplyDelta(ctx, repos, inv, 2)
	})
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "se fija en 0", "un delta normal no advierte")
}
