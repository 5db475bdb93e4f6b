package ledger

import (
	"sort"
	"strings"

	"go-warung-pos/internal/model"
)

// Parties returns every distinct counterparty across debts and transactions,
// sorted.
func Parties(debts []model.DebtRecord, txs []model.Transaction) []string {
	seen := make(map[string]struct{})
	for _, d := range debts {
		if name := strings.TrimSpace(d.PartyName); name != "" {
			seen[name] = struct{}{}
		}
	}
	for _, t := range txs {
		if name := strings.TrimSpace(t.PartyName); name != "" {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// PartySummary totals the debts of one counterparty in one direction.
type PartySummary struct {
	PartyName   string         `json:"party_name"`
	Type        model.DebtType `json:"type"`
	Count       int            `json:"count"`
	Total       int64          `json:"total"`
	Paid        int64          `json:"paid"`
	Outstanding int64          `json:"outstanding"`
}

// GroupDebtsByParty groups per (party, type), largest outstanding first.
func GroupDebtsByParty(debts []model.DebtRecord) []PartySummary {
	type key struct {
		party string
		typ   model.DebtType
	}
	idx := make(map[key]int)
	var out []PartySummary

	for _, d := range debts {
		k := key{d.PartyName, d.Type}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, PartySummary{PartyName: d.PartyName, Type: d.Type})
		}
		out[i].Count++
		out[i].Total += d.Amount
		out[i].Paid += d.PaidAmount
		out[i].Outstanding += d.Outstanding()
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Outstanding != out[j].Outstanding {
			return out[i].Outstanding > out[j].Outstanding
		}
		return out[i].PartyName < out[j].PartyName
	})
	return out
}

// TopProduct is a best seller row.
type TopProduct struct {
	Barcode      string `json:"barcode"`
	Name         string `json:"name"`
	QuantitySold int    `json:"quantity_sold"`
	Revenue      int64  `json:"revenue"`
	Stock        int    `json:"stock"`
}

// TopProducts ranks OUT line items by quantity sold. Revenue uses the sell
// price snapshot on each item; Stock is the current catalog level.
func TopProducts(txs []model.Transaction, products []model.Product, limit int) []TopProduct {
	stock := make(map[string]int, len(products))
	for _, p := range products {
		stock[p.Barcode] = p.Stock
	}

	idx := make(map[string]int)
	var rows []TopProduct
	for _, t := range txs {
		if t.Type != model.TxOut {
			continue
		}
		for _, it := range t.Items {
			i, ok := idx[it.Barcode]
			if !ok {
				i = len(rows)
				idx[it.Barcode] = i
				rows = append(rows, TopProduct{Barcode: it.Barcode, Name: it.Name})
			}
			rows[i].QuantitySold += it.Quantity
			rows[i].Revenue += it.SellPrice * int64(it.Quantity)
		}
	}
	for i := range rows {
		rows[i].Stock = stock[rows[i].Barcode]
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].QuantitySold > rows[j].QuantitySold
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
