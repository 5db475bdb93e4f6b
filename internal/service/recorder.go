package service

import (
	"context"
	"errors"
	"fmt"

	"go-warung-pos/internal/model"
	"go-warung-pos/internal/repository"

	"gorm.io/gorm"
)

// StockLevel is a product's stock after a recorded transaction.
type StockLevel struct {
	Barcode string `json:"barcode"`
	Name    string `json:"name"`
	Stock   int    `json:"stock"`
}

// recorder is the single append path for the transaction log. Sales, restocks,
// manual entries and cash corrections all go through it.
type recorder struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
}

// append writes header, items and stock deltas using tx. The caller owns tx,
// so any error here rolls everything back.
func (r *recorder) append(ctx context.Context, tx *gorm.DB, t *model.Transaction, actor Actor) ([]StockLevel, error) {
	t.CreatedBy = actor.ID
	t.UpdatedBy = actor.ID
	t.CreatedByUserID = actor.userID()

	if err := r.transactionRepo.WithTx(tx).Append(ctx, t); err != nil {
		return nil, storeErr("append transaction", err)
	}
	if !t.Type.MovesStock() {
		return nil, nil
	}

	sign := 1
	if t.Type == model.TxOut {
		sign = -1
	}
	products := r.productRepo.WithTx(tx)
	levels := make([]StockLevel, 0, len(t.Items))
	for i, it := range t.Items {
		stock, err := products.AdjustStock(ctx, it.Barcode, sign*it.Quantity, actor.ID)
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			return nil, &ValidationError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: fmt.Sprintf("stok %s tidak cukup (sisa %d)", it.Name, stock),
				Err:     ErrInsufficientStock,
			}
		case errors.Is(err, repository.ErrProductNotFound):
			return nil, invalid(fmt.Sprintf("items[%d].barcode", i), "produk %s tidak ditemukan", it.Barcode)
		case err != nil:
			return nil, storeErr("adjust stock", err)
		}
		levels = append(levels, StockLevel{Barcode: it.Barcode, Name: it.Name, Stock: stock})
	}
	return levels, nil
}
