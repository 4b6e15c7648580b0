package ledger

import (
	"errors"
	"fmt"
	"time"

	"loantrack/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreatePayment validates and applies a payment against a loan. The payment
// insert and the loan balance update commit as one unit; the per-loan lock
// keeps a concurrent payment from reading a stale balance, so the remaining
// amount can never go negative.
func (s *Service) CreatePayment(clientID, loanID uint, amount decimal.Decimal, paymentDate *time.Time) (*models.Payment, error) {
	unlock := s.lockLoan(loanID)
	defer unlock()

	var payment models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, clientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "client", ID: clientID}
			}
			return fmt.Errorf("get client: %w", err)
		}

		var loan models.Loan
		if err := tx.First(&loan, loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "loan", ID: loanID}
			}
			return fmt.Errorf("get loan: %w", err)
		}

		if loan.ClientID != clientID {
			return &ValidationError{Message: fmt.Sprintf("loan %d does not belong to client %d", loanID, clientID)}
		}
		if !amount.IsPositive() {
			return &ValidationError{Message: "payment amount must be greater than 0"}
		}
		if loan.Status == models.LoanStatusPaid {
			return &ConflictError{Message: "loan is already paid"}
		}
		if amount.GreaterThan(loan.RemainingAmount) {
			return &ValidationError{Message: fmt.Sprintf("payment exceeds remaining balance: %s", loan.RemainingAmount.StringFixed(2))}
		}

		date := s.today()
		if paymentDate != nil {
			date = dateOnly(*paymentDate)
		}

		payment = models.Payment{
			Reference:   uuid.NewString(),
			ClientID:    clientID,
			LoanID:      loanID,
			Amount:      amount,
			PaymentDate: date,
			Status:      models.PaymentStatusCompleted,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		loan.PaidAmount = loan.PaidAmount.Add(amount)
		loan.RemainingAmount = loan.Principal.Add(loan.Interest).Sub(loan.PaidAmount)
		RecomputeStatus(&loan, s.today())

		if err := tx.Save(&loan).Error; err != nil {
			return fmt.Errorf("update loan balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListPayments returns all payments, newest first.
func (s *Service) ListPayments() ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.Order("payment_date DESC, id DESC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// PaymentsByClient returns one client's payments. A client without payments
// is reported as not found rather than as an empty list.
func (s *Service) PaymentsByClient(clientID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.Where("client_id = ?", clientID).
		Order("payment_date DESC, id DESC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("list client payments: %w", err)
	}
	if len(payments) == 0 {
		return nil, &NotFoundError{Resource: "payments for client", ID: clientID}
	}
	return payments, nil
}

// PaymentsByLoan returns one loan's payments, with the same empty-is-missing
// behavior as PaymentsByClient.
func (s *Service) PaymentsByLoan(loanID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.Where("loan_id = ?", loanID).
		Order("payment_date DESC, id DESC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("list loan payments: %w", err)
	}
	if len(payments) == 0 {
		return nil, &NotFoundError{Resource: "payments for loan", ID: loanID}
	}
	return payments, nil
}
