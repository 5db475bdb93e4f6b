package model

import (
	"time"

	"github.com/google/uuid"
)

type DebtType string

const (
	DebtPayable    DebtType = "PAYABLE"    // shop owes a supplier
	DebtReceivable DebtType = "RECEIVABLE" // customer owes the shop
)

func (t DebtType) Valid() bool {
	return t == DebtPayable || t == DebtReceivable
}

// DebtRecord is mutable: PaidAmount grows with each payment until IsPaid flips.
// Invariant: 0 <= PaidAmount <= Amount.
type DebtRecord struct {
	BaseModel
	Type          DebtType      `gorm:"type:varchar(12);not null;index" json:"type"`
	PartyName     string        `gorm:"type:varchar(255);not null;index" json:"party_name"`
	Amount        int64         `gorm:"not null" json:"amount"`
	PaidAmount    int64         `gorm:"not null;default:0" json:"paid_amount"`
	Description   string        `gorm:"type:text" json:"description"`
	DueDate       *time.Time    `json:"due_date,omitempty"`
	IsPaid        bool          `gorm:"not null;default:false;index" json:"is_paid"`
	TransactionID *uuid.UUID    `gorm:"type:uuid;index" json:"transaction_id,omitempty"`
	Payments      []DebtPayment `gorm:"foreignKey:DebtID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

func (DebtRecord) TableName() string {
	return "debts"
}

// Outstanding is what is still owed on the record.
func (d DebtRecord) Outstanding() int64 {
	if d.IsPaid || d.PaidAmount >= d.Amount {
		return 0
	}
	return d.Amount - d.PaidAmount
}

// DebtPayment is one installment applied to a DebtRecord.
type DebtPayment struct {
	BaseModel
	DebtID uuid.UUID `gorm:"type:uuid;not null;index" json:"debt_id"`
	Amount int64     `gorm:"not null" json:"amount"`
	PaidAt time.Time `gorm:"not null" json:"paid_at"`
	Note   string    `gorm:"type:text" json:"note,omitempty"`
}
