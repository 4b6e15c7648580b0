package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatusCompleted is the only payment status: a payment either
// exists as a completed record or was rejected outright.
const PaymentStatusCompleted = "Completed"

// Payment is an immutable record of money applied against a loan. The
// client referenced must be the owner of the loan.
type Payment struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Reference   string          `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	ClientID    uint            `gorm:"index;not null" json:"client_id"`
	LoanID      uint            `gorm:"index;not null" json:"loan_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	PaymentDate time.Time       `gorm:"type:date;not null" json:"payment_date"`
	Status      string          `gorm:"size:50;default:Completed" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}
