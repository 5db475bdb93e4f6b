package ledger

import (
	"time"

	"go-warung-pos/internal/model"
)

// Snapshot is one consistent read of the store.
type Snapshot struct {
	Products     []model.Product
	Transactions []model.Transaction
	Debts        []model.DebtRecord
}

// Stats is the point-in-time shop summary.
type Stats struct {
	TotalSalesToday  int64 `json:"total_sales_today"`
	TotalProfitToday int64 `json:"total_profit_today"`
	LowStockCount    int   `json:"low_stock_count"`
	InventoryValue   int64 `json:"inventory_value"`
	CashBalance      int64 `json:"cash_balance"`
	TotalReceivable  int64 `json:"total_receivable"`
	TotalPayable     int64 `json:"total_payable"`
}

// ComputeStats aggregates snap. Sales and profit cover OUT transactions at or
// after startOfDay; a product is low on stock when stock < lowStockThreshold.
func ComputeStats(snap Snapshot, startOfDay time.Time, lowStockThreshold int) Stats {
	var s Stats
	since := startOfDay.UnixMilli()

	for _, t := range snap.Transactions {
		if t.Type == model.TxOut && t.Timestamp >= since {
			s.TotalSalesToday += t.TotalAmount
			s.TotalProfitToday += t.TotalAmount - t.CostOfGoods()
		}
	}
	s.CashBalance = CashBalance(snap.Transactions)

	for _, p := range snap.Products {
		s.InventoryValue += p.StockValue()
		if p.Stock < lowStockThreshold {
			s.LowStockCount++
		}
	}

	for _, d := range snap.Debts {
		switch d.Type {
		case model.DebtReceivable:
			s.TotalReceivable += d.Outstanding()
		case model.DebtPayable:
			s.TotalPayable += d.Outstanding()
		}
	}
	return s
}

// StartOfDay is local midnight of now in loc.
func StartOfDay(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DayRange returns [start, end) for the local calendar day containing day.
func DayRange(day time.Time, loc *time.Location) (time.Time, time.Time) {
	start := StartOfDay(day, loc)
	return start, start.AddDate(0, 0, 1)
}
