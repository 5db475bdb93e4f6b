package ledger

// BalanceSheet is the simple warung neraca: what the shop holds against what
// it owes. Equity is the remainder, so assets always equal liabilities plus
// equity.
type BalanceSheet struct {
	Cash             int64 `json:"cash"`
	Receivable       int64 `json:"receivable"`
	Inventory        int64 `json:"inventory"`
	TotalAssets      int64 `json:"total_assets"`
	Payable          int64 `json:"payable"`
	TotalLiabilities int64 `json:"total_liabilities"`
	Equity           int64 `json:"equity"`
}

func NewBalanceSheet(s Stats) BalanceSheet {
	b := BalanceSheet{
		Cash:       s.CashBalance,
		Receivable: s.TotalReceivable,
		Inventory:  s.InventoryValue,
		Payable:    s.TotalPayable,
	}
	b.TotalAssets = b.Cash + b.Receivable + b.Inventory
	b.TotalLiabilities = b.Payable
	b.Equity = b.TotalAssets - b.TotalLiabilities
	return b
}
