package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client represents a borrower. NationalID is the natural key: exactly one
// record per national ID. A client exclusively owns its loans and payments;
// deleting the client removes them too.
type Client struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Name       string          `gorm:"size:100;not null" json:"name"`
	NationalID string          `gorm:"size:20;uniqueIndex;not null" json:"national_id"`
	Phone      string          `gorm:"size:20" json:"phone,omitempty"`
	Email      string          `gorm:"size:100" json:"email,omitempty"`
	Address    string          `gorm:"size:150" json:"address,omitempty"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"` // legacy nominal amount, unused by the ledger
	Date       *time.Time      `gorm:"type:date" json:"date,omitempty"`
	Status     string          `gorm:"size:50;default:Active" json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	Loans    []Loan    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Payments []Payment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
