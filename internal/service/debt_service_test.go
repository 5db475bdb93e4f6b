package service

import (
	"context"
	"testing"
	"time"

	"go-warung-pos/internal/model"
	"go-warung-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDebt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	debt, err := f.debts.CreateDebt(ctx, CreateDebtRequest{
		Type:        model.DebtPayable,
		PartyName:   " Agen Sembako ",
		Amount:      250000,
		Description: "Nota lama",
		DueDate:     "2025-03-31",
	}, f.cashier)
	require.NoError(t, err)
	assert.Equal(t, "Agen Sembako", debt.PartyName)
	assert.Nil(t, debt.TransactionID)
	require.NotNil(t, debt.DueDate)
	assert.True(t, debt.DueDate.Equal(time.Date(2025, 3, 31, 0, 0, 0, 0, wib)))

	bad := []CreateDebtRequest{
		{Type: "LOAN", PartyName: "x", Amount: 1},
		{Type: model.DebtPayable, PartyName: " ", Amount: 1},
		{Type: model.DebtPayable, PartyName: "x", Amount: -5},
		{Type: model.DebtPayable, PartyName: "x", Amount: 1, DueDate: "31/03/2025"},
	}
	for _, req := range bad {
		_, err := f.debts.CreateDebt(ctx, req, f.cashier)
		assert.ErrorIs(t, err, ErrValidation, "%+v", req)
	}
	assert.Equal(t, int64(1), f.count(t, &model.DebtRecord{}))
}

func TestRecordPartialPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	debt, err := f.debts.CreateDebt(ctx, CreateDebtRequest{Type: model.DebtReceivable, PartyName: "Bu Ani", Amount: 10000}, f.cashier)
	require.NoError(t, err)

	res, err := f.debts.RecordPartialPayment(ctx, debt.ID, PaymentRequest{Amount: 4000, Note: "cicilan 1"}, f.cashier)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), res.Applied)
	assert.Zero(t, res.Excess)
	assert.Equal(t, int64(4000), res.Debt.PaidAmount)
	assert.False(t, res.Debt.IsPaid)

	f.clock.tick()
	res, err = f.debts.RecordPartialPayment(ctx, debt.ID, PaymentRequest{Amount: 8000}, f.cashier)
	require.NoError(t, err)
	assert.Equal(t, int64(6000), res.Applied)
	assert.Equal(t, int64(2000), res.Excess)
	assert.Equal(t, int64(10000), res.Debt.PaidAmount)
	assert.True(t, res.Debt.IsPaid)
	assert.Zero(t, res.Debt.Outstanding())
	assert.Contains(t, f.logs.String(), "excess returned")

	_, err = f.debts.RecordPartialPayment(ctx, debt.ID, PaymentRequest{Amount: 1000}, f.cashier)
	assert.ErrorIs(t, err, ErrValidation)

	got, err := f.debts.GetDebt(ctx, debt.ID)
	require.NoError(t, err)
	require.Len(t, got.Payments, 2)
	assert.Equal(t, int64(4000), got.Payments[0].Amount)
	assert.Equal(t, "cicilan 1", got.Payments[0].Note)
	assert.Equal(t, int64(6000), got.Payments[1].Amount)

	// payments on a debt do not touch the cash book
	book, err := f.fin.GetLedger(ctx)
	require.NoError(t, err)
	assert.Empty(t, book.Entries)
}

func TestRecordPartialPayment_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.debts.RecordPartialPayment(ctx, uuid.New(), PaymentRequest{Amount: 1000}, f.cashier)
	assert.ErrorIs(t, err, ErrNotFound)

	debt, err := f.debts.CreateDebt(ctx, CreateDebtRequest{Type: model.DebtReceivable, PartyName: "Bu Ani", Amount: 10000}, f.cashier)
	require.NoError(t, err)
	_, err = f.debts.RecordPartialPayment(ctx, debt.ID, PaymentRequest{Amount: 0}, f.cashier)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, f.count(t, &model.DebtPayment{}))
}

func TestDeleteDebt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	debt, err := f.debts.CreateDebt(ctx, CreateDebtRequest{Type: model.DebtReceivable, PartyName: "Bu Ani", Amount: 10000}, f.cashier)
	require.NoError(t, err)
	_, err = f.debts.RecordPartialPayment(ctx, debt.ID, PaymentRequest{Amount: 1000}, f.cashier)
	require.NoError(t, err)

	require.NoError(t, f.debts.DeleteDebt(ctx, debt.ID, f.cashier))
	assert.Zero(t, f.count(t, &model.DebtRecord{}))
	assert.Zero(t, f.count(t, &model.DebtPayment{}))

	_, err = f.debts.GetDebt(ctx, debt.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.debts.DeleteDebt(ctx, debt.ID, f.cashier), ErrNotFound)
}

func TestListAndGroupDebts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	create := func(typ model.DebtType, party string, amount int64) *model.DebtRecord {
		d, err := f.debts.CreateDebt(ctx, CreateDebtRequest{Type: typ, PartyName: party, Amount: amount}, f.cashier)
		require.NoError(t, err)
		return d
	}
	ani := create(model.DebtReceivable, "Bu Ani", 10000)
	create(model.DebtReceivable, "Pak Budi", 3000)
	create(model.DebtPayable, "Agen Sembako", 20000)
	paid := create(model.DebtReceivable, "Pak Budi", 1500)

	_, err := f.debts.RecordPartialPayment(ctx, ani.ID, PaymentRequest{Amount: 4000}, f.cashier)
	require.NoError(t, err)
	_, err = f.debts.RecordPartialPayment(ctx, paid.ID, PaymentRequest{Amount: 1500}, f.cashier)
	require.NoError(t, err)

	unpaid, err := f.debts.ListDebts(ctx, repository.DebtFilter{Type: model.DebtReceivable, Status: repository.DebtStatusUnpaid})
	require.NoError(t, err)
	assert.Len(t, unpaid, 2)

	budi, err := f.debts.ListDebts(ctx, repository.DebtFilter{PartyName: "Pak Budi"})
	require.NoError(t, err)
	assert.Len(t, budi, 2)

	groups, err := f.debts.GroupByParty(ctx, repository.DebtFilter{})
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "Agen Sembako", groups[0].PartyName)
	assert.Equal(t, int64(20000), groups[0].Outstanding)
	assert.Equal(t, "Bu Ani", groups[1].PartyName)
	assert.Equal(t, int64(6000), groups[1].Outstanding)
	assert.Equal(t, "Pak Budi", groups[2].PartyName)
	assert.Equal(t, 2, groups[2].Count)
	assert.Equal(t, int64(4500), groups[2].Total)
	assert.Equal(t, int64(3000), groups[2].Outstanding)

	stats, err := f.fin.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), stats.TotalReceivable)
	assert.Equal(t, int64(20000), stats.TotalPayable)
}
