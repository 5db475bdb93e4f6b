package ledger

import (
	"sort"

	"go-warung-pos/internal/model"

	"github.com/google/uuid"
)

// Entry is one cash movement with the balance after it was applied.
type Entry struct {
	ID             uuid.UUID `json:"id"`
	Date           int64     `json:"date"` // epoch ms of the source transaction
	Sequence       int64     `json:"sequence"`
	Description    string    `json:"description"`
	Direction      Direction `json:"direction"`
	Amount         int64     `json:"amount"`
	RunningBalance int64     `json:"running_balance"`
	Category       Category  `json:"category"`
}

// Rejected records a transaction left out of the ledger because it could not
// be classified.
type Rejected struct {
	ID            uuid.UUID             `json:"id"`
	Timestamp     int64                 `json:"timestamp"`
	Type          model.TransactionType `json:"type"`
	PaymentMethod model.PaymentMethod   `json:"payment_method"`
	Reason        string                `json:"reason"`
}

// Book is the derived cash book.
type Book struct {
	// Entries are newest first.
	Entries      []Entry    `json:"entries"`
	Balance      int64      `json:"balance"`
	Unclassified []Rejected `json:"unclassified,omitempty"`
	// Skipped counts well formed transactions that moved no cash.
	Skipped int `json:"skipped"`
}

// SortChronological returns a copy ordered by (Timestamp, Sequence). The sort
// is stable, so rows equal on both keys keep their fetch order.
func SortChronological(txs []model.Transaction) []model.Transaction {
	sorted := make([]model.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Timestamp != sorted[j].Timestamp {
			return sorted[i].Timestamp < sorted[j].Timestamp
		}
		return sorted[i].Sequence < sorted[j].Sequence
	})
	return sorted
}

// Derive folds the log oldest first and returns the entries newest first.
// It never fails: unclassifiable rows are collected in Book.Unclassified.
func Derive(txs []model.Transaction) Book {
	var book Book
	entries := make([]Entry, 0, len(txs))

	for _, t := range SortChronological(txs) {
		c := Classify(t)
		switch c.Outcome {
		case Unclassified:
			book.Unclassified = append(book.Unclassified, Rejected{
				ID:            t.ID,
				Timestamp:     t.Timestamp,
				Type:          t.Type,
				PaymentMethod: t.PaymentMethod,
				Reason:        c.Reason,
			})
			continue
		case NoCashMovement:
			book.Skipped++
			continue
		}

		book.Balance += c.Signed()
		entries = append(entries, Entry{
			ID:             t.ID,
			Date:           t.Timestamp,
			Sequence:       t.Sequence,
			Description:    Describe(t),
			Direction:      c.Direction,
			Amount:         c.Amount,
			RunningBalance: book.Balance,
			Category:       c.Category,
		})
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	book.Entries = entries
	return book
}

// CashBalance sums the drawer effect of every transaction without building
// entries. Addition commutes, so no sort is needed.
func CashBalance(txs []model.Transaction) int64 {
	var balance int64
	for _, t := range txs {
		balance += Classify(t).Signed()
	}
	return balance
}
