package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan status values. Status is derived from the balance and due date
// except where an administrative update overrides it.
const (
	LoanStatusActive  = "Active"
	LoanStatusPaid    = "Paid"
	LoanStatusOverdue = "Overdue"
)

// Loan belongs to exactly one client. Interest is an additive flat amount,
// not a rate. Invariant: RemainingAmount = Principal + Interest - PaidAmount.
type Loan struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ClientID        uint            `gorm:"index;not null" json:"client_id"`
	Principal       decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"principal"`
	Interest        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"interest"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"paid_amount"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"remaining_amount"`
	Status          string          `gorm:"size:20;index;default:Active" json:"status"`
	StartDate       time.Time       `gorm:"type:date" json:"start_date"`
	DueDate         time.Time       `gorm:"type:date" json:"due_date"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Client   *Client   `json:"client,omitempty"`
	Payments []Payment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
