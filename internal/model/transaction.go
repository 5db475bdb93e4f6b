package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TxIn         TransactionType = "IN"  // restock
	TxOut        TransactionType = "OUT" // sale
	TxExpense    TransactionType = "EXPENSE"
	TxIncome     TransactionType = "INCOME"
	TxAdjustment TransactionType = "ADJUSTMENT"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TxIn, TxOut, TxExpense, TxIncome, TxAdjustment:
		return true
	}
	return false
}

// MovesStock reports whether the type carries line items that change stock.
func (t TransactionType) MovesStock() bool {
	return t == TxIn || t == TxOut
}

type PaymentMethod string

const (
	PayCash PaymentMethod = "CASH"
	PayDebt PaymentMethod = "DEBT"
	PayQRIS PaymentMethod = "QRIS" // settled immediately, same as cash for the drawer
)

// AdjustmentDirection tags which way a cash-count correction moved the drawer.
type AdjustmentDirection string

const (
	AdjustSurplus AdjustmentDirection = "SURPLUS"
	AdjustDeficit AdjustmentDirection = "DEFICIT"
)

// Transaction is an append-only fact. Rows are never updated after insert;
// mistakes are corrected with a compensating ADJUSTMENT.
type Transaction struct {
	BaseModel
	// Sequence is allocated inside the append transaction and breaks ties
	// between rows sharing a Timestamp.
	Sequence  int64             `gorm:"not null;uniqueIndex" json:"sequence"`
	Type      TransactionType   `gorm:"type:varchar(12);not null;index" json:"type"`
	Timestamp int64             `gorm:"column:occurred_at;not null;index" json:"timestamp"` // epoch ms
	Items     []TransactionItem `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"items"`

	Subtotal      int64         `gorm:"not null;default:0" json:"subtotal"`
	Discount      int64         `gorm:"not null;default:0" json:"discount"`
	TotalAmount   int64         `gorm:"not null" json:"total_amount"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(10);not null" json:"payment_method"`
	AmountPaid    int64         `gorm:"not null;default:0" json:"amount_paid"`
	Change        int64         `gorm:"not null;default:0" json:"change"`

	AdjustmentDirection AdjustmentDirection `gorm:"type:varchar(10)" json:"adjustment_direction,omitempty"`

	PartyName string `gorm:"type:varchar(255);index" json:"party_name,omitempty"`
	Note      string `gorm:"type:text" json:"note,omitempty"`

	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
}

// Time returns the transaction instant in loc.
func (t Transaction) Time(loc *time.Location) time.Time {
	return time.UnixMilli(t.Timestamp).In(loc)
}

// CostOfGoods sums buy price times quantity over the line items.
func (t Transaction) CostOfGoods() int64 {
	var cost int64
	for _, it := range t.Items {
		cost += it.BuyPrice * int64(it.Quantity)
	}
	return cost
}

// TransactionItem snapshots the catalog at the moment of sale/restock, so
// later price edits never rewrite history.
type TransactionItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index" json:"transaction_id"`
	Position      int       `gorm:"not null;default:0" json:"-"`
	Barcode       string    `gorm:"type:varchar(64);not null;index" json:"barcode"`
	Name          string    `gorm:"type:varchar(255)" json:"name"`
	Category      string    `gorm:"type:varchar(100)" json:"category"`
	BuyPrice      int64     `gorm:"not null" json:"buy_price"`
	SellPrice     int64     `gorm:"not null" json:"sell_price"`
	Quantity      int       `gorm:"not null" json:"quantity"`
}

func (i *TransactionItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// LineTotal is quantity times the price relevant to the transaction type.
func (i TransactionItem) LineTotal(t TransactionType) int64 {
	if t == TxIn {
		return i.BuyPrice * int64(i.Quantity)
	}
	return i.SellPrice * int64(i.Quantity)
}
