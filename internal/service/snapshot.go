package service

import (
	"context"

	"go-warung-pos/internal/ledger"
	"go-warung-pos/internal/repository"
	"go-warung-pos/pkg/database"

	"gorm.io/gorm"
)

// readTx runs fn in a read-only snapshot transaction where the driver
// supports one.
func readTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if opts := database.SnapshotOptions(db); opts != nil {
		return db.WithContext(ctx).Transaction(fn, opts)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// readSnapshot loads products, the full log and all debts from one snapshot
// so derived figures never mix states.
func readSnapshot(ctx context.Context, db *gorm.DB, products repository.ProductRepository, transactions repository.TransactionRepository, debts repository.DebtRepository) (ledger.Snapshot, error) {
	var snap ledger.Snapshot
	err := readTx(ctx, db, func(tx *gorm.DB) error {
		var err error
		if snap.Products, err = products.WithTx(tx).FindAll(ctx); err != nil {
			return err
		}
		if snap.Transactions, err = transactions.WithTx(tx).List(ctx, repository.TransactionFilter{}); err != nil {
			return err
		}
		snap.Debts, err = debts.WithTx(tx).List(ctx, repository.DebtFilter{})
		return err
	})
	if err != nil {
		return ledger.Snapshot{}, storeErr("read snapshot", err)
	}
	return snap, nil
}
