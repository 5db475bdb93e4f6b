package ledger

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatAmount renders an amount with Indonesian digit grouping, e.g. 5500 -> "5.500".
func FormatAmount(n int64) string {
	return message.NewPrinter(language.Indonesian).Sprintf("%d", n)
}

// RevisionNote is the ledger note of a cash-count correction.
func RevisionNote(physical int64) string {
	return "Revisi Saldo (Fisik: " + FormatAmount(physical) + ")"
}

// DebtRemainderNote describes the debt left by a partial payment.
func DebtRemainderNote(total, paid int64) string {
	return "Sisa Kurang Bayar (Total: " + FormatAmount(total) + ", Bayar: " + FormatAmount(paid) + ")"
}

const FullDebtNote = "Transaksi Jual/Restock Full Hutang"
