// Package ledger derives the cash book, running balance and shop statistics
// from the append-only transaction log. Everything here is pure: callers load
// the snapshot, this package only folds it.
package ledger

import (
	"fmt"

	"go-warung-pos/internal/model"
)

// Direction of a ledger entry relative to the cash drawer.
type Direction string

const (
	Debit  Direction = "DEBIT"  // cash in
	Credit Direction = "CREDIT" // cash out
)

type Category string

const (
	CategorySale        Category = "PENJUALAN"
	CategoryRestock     Category = "BELANJA"
	CategoryOperational Category = "OPERASIONAL"
	CategoryCorrection  Category = "KOREKSI"
)

type Outcome int

const (
	// Classified transactions move cash and produce a ledger entry.
	Classified Outcome = iota
	// NoCashMovement is well formed but moved nothing through the drawer,
	// e.g. a sale fully on credit.
	NoCashMovement
	// Unclassified transactions have a type/payment combination the ledger
	// does not understand. They are reported, never folded into the balance.
	Unclassified
)

func (o Outcome) String() string {
	switch o {
	case Classified:
		return "classified"
	case NoCashMovement:
		return "no_cash_movement"
	case Unclassified:
		return "unclassified"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Classification is the cash effect of one transaction.
type Classification struct {
	Outcome   Outcome
	Direction Direction
	Amount    int64
	Category  Category
	Reason    string // only for Unclassified
}

// Signed returns the balance delta: positive for debit, negative for credit,
// zero when the transaction does not touch the drawer.
func (c Classification) Signed() int64 {
	if c.Outcome != Classified {
		return 0
	}
	if c.Direction == Credit {
		return -c.Amount
	}
	return c.Amount
}

// Classify maps a transaction to its drawer movement.
//
//	OUT  CASH/QRIS  amountPaid - change   DEBIT
//	OUT  DEBT       amountPaid (DP)       DEBIT
//	IN   CASH/QRIS  totalAmount           CREDIT
//	IN   DEBT       amountPaid (DP)       CREDIT
//	EXPENSE         totalAmount           CREDIT
//	INCOME          totalAmount           DEBIT
//	ADJUSTMENT      totalAmount           SURPLUS=DEBIT, DEFICIT=CREDIT
func Classify(t model.Transaction) Classification {
	var c Classification

	switch t.Type {
	case model.TxOut:
		c.Category, c.Direction = CategorySale, Debit
		switch t.PaymentMethod {
		case model.PayCash, model.PayQRIS:
			c.Amount = t.AmountPaid - t.Change
		case model.PayDebt:
			c.Amount = t.AmountPaid
		default:
			return unclassified(c, "unknown payment method %q for %s", t.PaymentMethod, t.Type)
		}

	case model.TxIn:
		c.Category, c.Direction = CategoryRestock, Credit
		switch t.PaymentMethod {
		case model.PayCash, model.PayQRIS:
			c.Amount = t.TotalAmount
		case model.PayDebt:
			c.Amount = t.AmountPaid
		default:
			return unclassified(c, "unknown payment method %q for %s", t.PaymentMethod, t.Type)
		}

	case model.TxExpense:
		c.Category, c.Direction, c.Amount = CategoryOperational, Credit, t.TotalAmount

	case model.TxIncome:
		c.Category, c.Direction, c.Amount = CategoryOperational, Debit, t.TotalAmount

	case model.TxAdjustment:
		c.Category, c.Amount = CategoryCorrection, t.TotalAmount
		switch t.AdjustmentDirection {
		case model.AdjustSurplus:
			c.Direction = Debit
		case model.AdjustDeficit:
			c.Direction = Credit
		default:
			return unclassified(c, "adjustment direction %q is not SURPLUS or DEFICIT", t.AdjustmentDirection)
		}

	default:
		return unclassified(c, "unknown transaction type %q", t.Type)
	}

	if c.Amount <= 0 {
		c.Outcome = NoCashMovement
		return c
	}
	c.Outcome = Classified
	return c
}

func unclassified(c Classification, format string, args ...any) Classification {
	c.Outcome = Unclassified
	c.Direction = ""
	c.Amount = 0
	c.Reason = fmt.Sprintf(format, args...)
	return c
}

// Describe returns the note when present, otherwise a default label.
func Describe(t model.Transaction) string {
	if t.Note != "" {
		return t.Note
	}
	switch t.Type {
	case model.TxOut:
		if t.PartyName != "" {
			return "Penjualan - " + t.PartyName
		}
		return "Penjualan"
	case model.TxIn:
		if t.PartyName != "" {
			return "Belanja Stok Ke " + t.PartyName
		}
		return "Belanja Stok"
	case model.TxExpense:
		return "Pengeluaran Operasional"
	case model.TxIncome:
		return "Pemasukan Lain-lain"
	default:
		return "Koreksi Saldo"
	}
}
