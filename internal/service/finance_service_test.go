package service

import (
	"context"
	"testing"
	"time"

	"go-warung-pos/internal/ledger"
	"go-warung-pos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rice sold for cash, two eggs restocked, then the drawer counted short
func TestFinance_ExampleDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.inv.RecordTransaction(ctx, sale(model.PayCash, 10000, "", ItemRequest{Barcode: "beras", Quantity: 1}), f.cashier)
	require.NoError(t, err)
	f.clock.tick()
	_, err = f.inv.RecordTransaction(ctx, restock(model.PayCash, 0, "", ItemRequest{Barcode: "telur", Quantity: 2}), f.cashier)
	require.NoError(t, err)
	f.clock.tick()

	book, err := f.fin.GetLedger(ctx)
	require.NoError(t, err)
	require.Len(t, book.Entries, 2)
	assert.Equal(t, int64(6000), book.Balance)
	assert.Equal(t, "Belanja Stok", book.Entries[0].Description)
	assert.Equal(t, ledger.Credit, book.Entries[0].Direction)
	assert.Equal(t, int64(6000), book.Entries[0].RunningBalance)
	assert.Equal(t, int64(10000), book.Entries[1].RunningBalance)

	res, err := f.fin.ReconcileCash(ctx, 5500, f.cashier)
	require.NoError(t, err)
	assert.Equal(t, Reconciled, res.Status)
	assert.Equal(t, int64(6000), res.PreviousBalance)
	assert.Equal(t, int64(-500), res.Difference)
	assert.Equal(t, model.AdjustDeficit, res.Direction)
	require.NotNil(t, res.Adjustment)
	assert.Equal(t, int64(500), res.Adjustment.TotalAmount)
	assert.Equal(t, "Revisi Saldo (Fisik: 5.500)", res.Adjustment.Note)

	book, err = f.fin.GetLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5500), book.Balance)
	assert.Equal(t, ledger.CategoryCorrection, book.Entries[0].Category)

	stats, err := f.fin.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger.Stats{
		TotalSalesToday:  10000,
		TotalProfitToday: 2000,
		LowStockCount:    1,
		InventoryValue:   214000,
		CashBalance:      5500,
	}, *stats)

	sheet, err := f.fin.GetBalanceSheet(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(219500), sheet.TotalAssets)
	assert.Equal(t, int64(219500), sheet.Equity)
}

func TestReconcileCash_MatchingCountIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.inv.RecordTransaction(ctx, sale(model.PayCash, 3500, "", ItemRequest{Barcode: "mie", Quantity: 1}), f.cashier)
	require.NoError(t, err)

	res, err := f.fin.ReconcileCash(ctx, 3500, f.cashier)
	require.NoError(t, err)
	assert.Equal(t, ReconcileNoop, res.Status)
	assert.Equal(t, "Jumlah sama, tidak perlu revisi", res.Message)
	assert.Nil(t, res.Adjustment)
	assert.Equal(t, int64(1), f.count(t, &model.Transaction{}))
}

func TestReconcileCash_Surplus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.fin.ReconcileCash(ctx, 25000, f.cashier)
	require.NoError(t, err)
	assert.Equal(t, model.AdjustSurplus, res.Direction)
	assert.Equal(t, int64(25000), res.Adjustment.TotalAmount)

	// second count at the same figure must not write again
	res, err = f.fin.ReconcileCash(ctx, 25000, f.cashier)
	require.NoError(t, err)
	assert.Equal(t, ReconcileNoop, res.Status)

	res, err = f.fin.ReconcileCash(ctx, 0, f.cashier)
	require.NoError(t, err)
	assert.Equal(t, model.AdjustDeficit, res.Direction)

	book, err := f.fin.GetLedger(ctx)
	require.NoError(t, err)
	assert.Zero(t, book.Balance)
	assert.Len(t, book.Entries, 2)
}

func TestReconcileCash_RejectsNegative(t *testing.T) {
	f := newFixture(t)

	_, err := f.fin.ReconcileCash(context.Background(), -1, f.cashier)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, f.count(t, &model.Transaction{}))
}

func TestRecordManualEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.fin.RecordManualEntry(ctx, ManualEntryRequest{
		Kind:        model.TxExpense,
		Description: "  Bayar listrik ",
		Amount:      150000,
		Date:        "2025-03-08",
	}, f.cashier)
	require.NoError(t, err)
	assert.Equal(t, "Bayar listrik", got.Note)
	assert.Equal(t, time.Date(2025, 3, 8, 9, 0, 0, 0, wib).UnixMilli(), got.Timestamp)

	_, err = f.fin.RecordManualEntry(ctx, ManualEntryRequest{
		Kind: model.TxIncome, Description: "Titipan", Amount: 200000, Date: "2025-03-09",
	}, f.cashier)
	require.NoError(t, err)

	book, err := f.fin.GetLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), book.Balance)
	assert.Equal(t, "Titipan", book.Entries[0].Description)
	assert.Equal(t, int64(-150000), book.Entries[1].RunningBalance)

	bad := []ManualEntryRequest{
		{Kind: model.TxAdjustment, Description: "x", Amount: 1, Date: "2025-03-08"},
		{Kind: model.TxExpense, Description: "   ", Amount: 1, Date: "2025-03-08"},
		{Kind: model.TxExpense, Description: "x", Amount: 0, Date: "2025-03-08"},
		{Kind: model.TxExpense, Description: "x", Amount: 1, Date: "08/03/2025"},
	}
	for _, req := range bad {
		_, err := f.fin.RecordManualEntry(ctx, req, f.cashier)
		assert.ErrorIs(t, err, ErrValidation, "%+v", req)
	}
	assert.Equal(t, int64(2), f.count(t, &model.Transaction{}))
}

func TestGetLedger_ReportsUnclassified(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.fin.RecordManualEntry(ctx, ManualEntryRequest{Kind: model.TxIncome, Description: "Modal", Amount: 1000, Date: "2025-03-10"}, f.cashier)
	require.NoError(t, err)

	// a row the ledger cannot classify, as an older client might have written
	odd := model.Transaction{Sequence: 50, Type: "REFUND", Timestamp: f.clock.t.UnixMilli(), TotalAmount: 700, PaymentMethod: model.PayCash}
	require.NoError(t, f.db.Create(&odd).Error)

	book, err := f.fin.GetLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), book.Balance)
	require.Len(t, book.Unclassified, 1)
	assert.Equal(t, odd.ID, book.Unclassified[0].ID)
	assert.Contains(t, f.logs.String(), "transaction excluded from ledger")
	assert.Contains(t, f.logs.String(), odd.ID.String())

	stats, err := f.fin.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), stats.CashBalance)
}

func TestGetParties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.inv.RecordTransaction(ctx, sale(model.PayDebt, 0, "Pak Budi", ItemRequest{Barcode: "mie", Quantity: 1}), f.cashier)
	require.NoError(t, err)
	_, err = f.inv.RecordTransaction(ctx, restock(model.PayCash, 0, "Agen Sembako", ItemRequest{Barcode: "gula", Quantity: 1}), f.cashier)
	require.NoError(t, err)
	_, err = f.debts.CreateDebt(ctx, CreateDebtRequest{Type: model.DebtReceivable, PartyName: "Bu Ani", Amount: 5000}, f.cashier)
	require.NoError(t, err)

	parties, err := f.fin.GetParties(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Agen Sembako", "Bu Ani", "Pak Budi"}, parties)
}
