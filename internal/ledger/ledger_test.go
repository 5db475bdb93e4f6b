package ledger

import (
	"math/rand"
	"testing"

	"go-warung-pos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(seq int64, ts int64, typ model.TransactionType, pm model.PaymentMethod, total, paid, change int64) model.Transaction {
	t := model.Transaction{
		Sequence:      seq,
		Type:          typ,
		Timestamp:     ts,
		TotalAmount:   total,
		PaymentMethod: pm,
		AmountPaid:    paid,
		Change:        change,
	}
	t.ID = uuid.New()
	return t
}

func adjustment(seq, ts, amount int64, dir model.AdjustmentDirection) model.Transaction {
	t := tx(seq, ts, model.TxAdjustment, model.PayCash, amount, 0, 0)
	t.AdjustmentDirection = dir
	return t
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		tx       model.Transaction
		outcome  Outcome
		dir      Direction
		amount   int64
		category Category
	}{
		{"cash sale with change", tx(1, 1, model.TxOut, model.PayCash, 8000, 10000, 2000), Classified, Debit, 8000, CategorySale},
		{"qris sale", tx(1, 1, model.TxOut, model.PayQRIS, 8000, 8000, 0), Classified, Debit, 8000, CategorySale},
		{"debt sale with down payment", tx(1, 1, model.TxOut, model.PayDebt, 8000, 3000, 0), Classified, Debit, 3000, CategorySale},
		{"debt sale without down payment", tx(1, 1, model.TxOut, model.PayDebt, 8000, 0, 0), NoCashMovement, Debit, 0, CategorySale},
		{"cash restock", tx(1, 1, model.TxIn, model.PayCash, 4000, 4000, 0), Classified, Credit, 4000, CategoryRestock},
		{"cash restock ignores amount paid", tx(1, 1, model.TxIn, model.PayCash, 4000, 0, 0), Classified, Credit, 4000, CategoryRestock},
		{"debt restock with down payment", tx(1, 1, model.TxIn, model.PayDebt, 4000, 1000, 0), Classified, Credit, 1000, CategoryRestock},
		{"expense", tx(1, 1, model.TxExpense, model.PayCash, 1500, 1500, 0), Classified, Credit, 1500, CategoryOperational},
		{"income", tx(1, 1, model.TxIncome, model.PayCash, 2500, 2500, 0), Classified, Debit, 2500, CategoryOperational},
		{"surplus", adjustment(1, 1, 700, model.AdjustSurplus), Classified, Debit, 700, CategoryCorrection},
		{"deficit", adjustment(1, 1, 700, model.AdjustDeficit), Classified, Credit, 700, CategoryCorrection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.tx)
			assert.Equal(t, tt.outcome, c.Outcome)
			assert.Equal(t, tt.category, c.Category)
			if tt.outcome == Classified {
				assert.Equal(t, tt.dir, c.Direction)
				assert.Equal(t, tt.amount, c.Amount)
			}
		})
	}
}

func TestClassify_Unclassified(t *testing.T) {
	cases := map[string]model.Transaction{
		"unknown type":            tx(1, 1, model.TransactionType("PENYESUAIAN"), model.PayCash, 100, 1, 0),
		"unknown payment on OUT":  tx(1, 1, model.TxOut, model.PaymentMethod("TRANSFER"), 100, 100, 0),
		"unknown payment on IN":   tx(1, 1, model.TxIn, model.PaymentMethod(""), 100, 100, 0),
		"adjustment no direction": adjustment(1, 1, 100, ""),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			c := Classify(in)
			assert.Equal(t, Unclassified, c.Outcome)
			assert.NotEmpty(t, c.Reason)
			assert.Zero(t, c.Signed())
		})
	}
}

func TestDescribe(t *testing.T) {
	sale := tx(1, 1, model.TxOut, model.PayCash, 1, 1, 0)
	assert.Equal(t, "Penjualan", Describe(sale))
	sale.PartyName = "Bu Siti"
	assert.Equal(t, "Penjualan - Bu Siti", Describe(sale))

	restock := tx(1, 1, model.TxIn, model.PayCash, 1, 1, 0)
	restock.PartyName = "Agen Sembako"
	assert.Equal(t, "Belanja Stok Ke Agen Sembako", Describe(restock))

	assert.Equal(t, "Pengeluaran Operasional", Describe(tx(1, 1, model.TxExpense, model.PayCash, 1, 1, 0)))
	assert.Equal(t, "Pemasukan Lain-lain", Describe(tx(1, 1, model.TxIncome, model.PayCash, 1, 1, 0)))
	assert.Equal(t, "Koreksi Saldo", Describe(adjustment(1, 1, 1, model.AdjustSurplus)))

	restock.Note = "Bayar listrik"
	assert.Equal(t, "Bayar listrik", Describe(restock))
}

func TestDerive_ExampleScenario(t *testing.T) {
	log := []model.Transaction{
		adjustment(3, 3000, 500, model.AdjustDeficit),
		tx(1, 1000, model.TxOut, model.PayCash, 10000, 10000, 0),
		tx(2, 2000, model.TxIn, model.PayCash, 4000, 4000, 0),
	}

	book := Derive(log)

	require.Len(t, book.Entries, 3)
	assert.Equal(t, int64(5500), book.Balance)
	assert.Equal(t, []int64{5500, 6000, 10000}, []int64{
		book.Entries[0].RunningBalance, book.Entries[1].RunningBalance, book.Entries[2].RunningBalance,
	})
	assert.Equal(t, CategoryCorrection, book.Entries[0].Category)
	assert.Equal(t, Credit, book.Entries[0].Direction)
	assert.Equal(t, int64(5500), CashBalance(log))
}

func TestDerive_Empty(t *testing.T) {
	book := Derive(nil)
	assert.Empty(t, book.Entries)
	assert.Zero(t, book.Balance)
	assert.Zero(t, CashBalance(nil))
}

func TestDerive_SkipsAndReports(t *testing.T) {
	bad := tx(3, 300, model.TxOut, model.PaymentMethod("GIRO"), 5000, 5000, 0)
	log := []model.Transaction{
		tx(1, 100, model.TxOut, model.PayDebt, 5000, 0, 0),
		tx(2, 200, model.TxIncome, model.PayCash, 2000, 2000, 0),
		bad,
	}

	book := Derive(log)

	require.Len(t, book.Entries, 1)
	assert.Equal(t, int64(2000), book.Balance)
	assert.Equal(t, 1, book.Skipped)
	require.Len(t, book.Unclassified, 1)
	assert.Equal(t, bad.ID, book.Unclassified[0].ID)
	assert.Contains(t, book.Unclassified[0].Reason, "GIRO")
}

func TestDerive_TieBreakBySequence(t *testing.T) {
	a := tx(2, 500, model.TxIncome, model.PayCash, 100, 100, 0)
	b := tx(1, 500, model.TxExpense, model.PayCash, 300, 300, 0)
	c := tx(3, 500, model.TxIncome, model.PayCash, 1000, 1000, 0)

	first := Derive([]model.Transaction{a, b, c})
	second := Derive([]model.Transaction{c, a, b})

	assert.Equal(t, first.Entries, second.Entries)
	// ascending fold: b(-300), a(+100), c(+1000)
	require.Len(t, first.Entries, 3)
	assert.Equal(t, c.ID, first.Entries[0].ID)
	assert.Equal(t, int64(800), first.Entries[0].RunningBalance)
	assert.Equal(t, int64(-200), first.Entries[1].RunningBalance)
	assert.Equal(t, int64(-300), first.Entries[2].RunningBalance)
}

func TestSortChronological_DoesNotMutateInput(t *testing.T) {
	in := []model.Transaction{
		tx(2, 200, model.TxIncome, model.PayCash, 1, 1, 0),
		tx(1, 100, model.TxIncome, model.PayCash, 1, 1, 0),
	}
	out := SortChronological(in)
	assert.Equal(t, int64(2), in[0].Sequence)
	assert.Equal(t, int64(1), out[0].Sequence)
}

// randomLog builds a mixed log including rows that move no cash and rows that
// cannot be classified.
func randomLog(r *rand.Rand, n int) []model.Transaction {
	types := []model.TransactionType{model.TxIn, model.TxOut, model.TxExpense, model.TxIncome, model.TxAdjustment, "BOGUS"}
	methods := []model.PaymentMethod{model.PayCash, model.PayDebt, model.PayQRIS, "TRANSFER"}
	dirs := []model.AdjustmentDirection{model.AdjustSurplus, model.AdjustDeficit, ""}

	log := make([]model.Transaction, n)
	for i := range log {
		total := int64(r.Intn(50000) + 1)
		paid := int64(r.Intn(int(total) + 1))
		var change int64
		if r.Intn(3) == 0 {
			paid = total + int64(r.Intn(5000))
			change = paid - total
		}
		t := tx(int64(i+1), int64(r.Intn(20)), types[r.Intn(len(types))], methods[r.Intn(len(methods))], total, paid, change)
		t.AdjustmentDirection = dirs[r.Intn(len(dirs))]
		log[i] = t
	}
	return log
}

func TestProperty_BalanceReconciles(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		log := randomLog(r, r.Intn(40))
		book := Derive(log)

		want := CashBalance(log)
		assert.Equal(t, want, book.Balance)
		if len(book.Entries) > 0 {
			assert.Equal(t, want, book.Entries[0].RunningBalance)
		}
	}
}

func TestProperty_LedgerOrdering(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		log := randomLog(r, 30)
		byID := make(map[uuid.UUID]model.Transaction, len(log))
		for _, t := range log {
			byID[t.ID] = t
		}

		entries := Derive(log).Entries
		var prev int64
		for k := len(entries) - 1; k >= 0; k-- {
			e := entries[k]
			if k < len(entries)-1 {
				assert.GreaterOrEqual(t, e.Date, entries[k+1].Date)
			}
			c := Classify(byID[e.ID])
			require.Equal(t, Classified, c.Outcome)
			assert.Equal(t, c.Signed(), e.RunningBalance-prev)
			assert.Positive(t, e.Amount)
			prev = e.RunningBalance
		}
	}
}
