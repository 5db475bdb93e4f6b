package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-warung-pos/internal/model"
	"go-warung-pos/internal/testutil"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTransactionRepo_AppendAssignsSequence(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTransactionRepo(db)
	ctx := context.Background()

	first := &model.Transaction{
		Type: model.TxOut, Timestamp: 2000, TotalAmount: 7000, PaymentMethod: model.PayCash, AmountPaid: 7000,
		Items: []model.TransactionItem{
			{Barcode: "mie", Name: "Mie Instan", SellPrice: 3500, Quantity: 1},
			{Barcode: "kopi", Name: "Kopi", SellPrice: 1750, Quantity: 2},
		},
	}
	second := &model.Transaction{Type: model.TxExpense, Timestamp: 1000, TotalAmount: 500, PaymentMethod: model.PayCash}

	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))
	assert.Equal(t, int64(1), first.Sequence)
	assert.Equal(t, int64(2), second.Sequence)

	all, err := repo.List(ctx, TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "oldest timestamp first")
	require.Len(t, all[1].Items, 2)
	assert.Equal(t, "mie", all[1].Items[0].Barcode)
	assert.Equal(t, "kopi", all[1].Items[1].Barcode)

	got, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTransactionRepo_Filters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTransactionRepo(db)
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	for i, typ := range []model.TransactionType{model.TxOut, model.TxIn, model.TxOut, model.TxIncome} {
		require.NoError(t, repo.Append(ctx, &model.Transaction{
			Type: typ, Timestamp: base.Add(time.Duration(i) * time.Hour).UnixMilli(), TotalAmount: 100, PaymentMethod: model.PayCash,
		}))
	}

	sales, err := repo.List(ctx, TransactionFilter{Types: []model.TransactionType{model.TxOut}})
	require.NoError(t, err)
	assert.Len(t, sales, 2)

	window, err := repo.List(ctx, TransactionFilter{From: base.Add(time.Hour), To: base.Add(3 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, model.TxIn, window[0].Type)

	page, err := repo.Page(ctx, TransactionFilter{}, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(3), page[0].Sequence)
	assert.Equal(t, int64(2), page[1].Sequence)
}

func TestProductRepo_AdjustStock(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()
	testutil.SeedProducts(t, db, model.Product{Barcode: "gula", Name: "Gula 1kg", BuyPrice: 14000, SellPrice: 16000, Stock: 3})

	stock, err := repo.AdjustStock(ctx, "gula", 10, "u1")
	require.NoError(t, err)
	assert.Equal(t, 13, stock)

	stock, err = repo.AdjustStock(ctx, "gula", -13, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, stock)

	stock, err = repo.AdjustStock(ctx, "gula", -1, "u1")
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 0, stock)

	_, err = repo.AdjustStock(ctx, "nope", 1, "u1")
	assert.ErrorIs(t, err, ErrProductNotFound)

	p, err := repo.FindByBarcode(ctx, "gula")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, "u1", p.UpdatedBy)
}

func TestProductRepo_WithTxRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProductRepo(db)
	ctx := context.Background()
	testutil.SeedProducts(t, db, model.Product{Barcode: "teh", Name: "Teh", Stock: 5})

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := repo.WithTx(tx).AdjustStock(ctx, "teh", -2, "u1"); err != nil {
			return err
		}
		_, err := repo.WithTx(tx).AdjustStock(ctx, "teh", -10, "u1")
		return err
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	found, err := repo.FindByBarcodes(ctx, []string{"teh", "missing"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, 5, found["teh"].Stock)
}

func TestDebtRepo(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDebtRepo(db)
	ctx := context.Background()

	ani := &model.DebtRecord{Type: model.DebtReceivable, PartyName: "Bu Ani", Amount: 10000}
	agen := &model.DebtRecord{Type: model.DebtPayable, PartyName: "Agen", Amount: 5000, PaidAmount: 5000, IsPaid: true}
	require.NoError(t, repo.Create(ctx, ani))
	require.NoError(t, repo.Create(ctx, agen))

	unpaid, err := repo.List(ctx, DebtFilter{Status: DebtStatusUnpaid})
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, "Bu Ani", unpaid[0].PartyName)

	payables, err := repo.List(ctx, DebtFilter{Type: model.DebtPayable})
	require.NoError(t, err)
	assert.Len(t, payables, 1)

	byParty, err := repo.List(ctx, DebtFilter{PartyName: "Agen", Status: DebtStatusPaid})
	require.NoError(t, err)
	assert.Len(t, byParty, 1)

	err = db.Transaction(func(tx *gorm.DB) error {
		locked, err := repo.WithTx(tx).FindByIDForUpdate(ctx, ani.ID)
		if err != nil {
			return err
		}
		locked.PaidAmount = 4000
		if err := repo.WithTx(tx).Save(ctx, locked); err != nil {
			return err
		}
		return repo.WithTx(tx).AddPayment(ctx, &model.DebtPayment{DebtID: ani.ID, Amount: 4000, PaidAt: time.Now()})
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, ani.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), got.PaidAmount)
	require.Len(t, got.Payments, 1)

	require.NoError(t, repo.Delete(ctx, ani.ID))
	_, err = repo.FindByID(ctx, ani.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var payments int64
	require.NoError(t, db.Unscoped().Model(&model.DebtPayment{}).Count(&payments).Error)
	assert.Zero(t, payments)

	assert.ErrorIs(t, repo.Delete(ctx, ani.ID), gorm.ErrRecordNotFound)
}

func TestSeed_Idempotent(t *testing.T) {
	db := testutil.NewDB(t)

	require.NoError(t, Seed(db, "owner@warung.local", "admin123", zerolog.Nop()))
	require.NoError(t, Seed(db, "owner@warung.local", "admin123", zerolog.Nop()))

	owner, err := NewUserRepo(db).FindByEmail("owner@warung.local")
	require.NoError(t, err)
	assert.True(t, owner.CheckPassword("admin123"))
	assert.True(t, owner.HasPrivilege(model.PrivFinanceManage))
	require.NotNil(t, owner.Role)
	assert.Equal(t, model.RoleOwner, owner.Role.Code)

	cashier, err := NewRoleRepo(db).FindByCode(model.RoleCashier)
	require.NoError(t, err)
	assert.Len(t, cashier.Privileges, len(model.CashierPrivileges))

	var users int64
	require.NoError(t, db.Model(&model.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)
}

func TestTransactionRepo_ConcurrentAppendsGetDistinctSequences(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTransactionRepo(db)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- db.Transaction(func(tx *gorm.DB) error {
				return repo.WithTx(tx).Append(ctx, &model.Transaction{
					Type: model.TxIncome, Timestamp: 5000, TotalAmount: int64(100 * (i + 1)), PaymentMethod: model.PayCash,
				})
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, writers)
	for i, tx := range all {
		assert.Equal(t, int64(i+1), tx.Sequence, "same timestamp orders by sequence")
	}
}
