package ledger

import (
	"errors"
	"fmt"
	"time"

	"loantrack/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// defaultLoanTermDays is the loan term applied when no due date is given.
const defaultLoanTermDays = 30

// CreateLoan opens a loan for an existing client. Start date defaults to
// today, due date to start date + 30 days. The loan starts Active with
// nothing paid and RemainingAmount = Principal + Interest.
func (s *Service) CreateLoan(clientID uint, principal, interest decimal.Decimal, startDate, dueDate *time.Time) (*models.Loan, error) {
	unlock := s.lockClient(clientID)
	defer unlock()

	if _, err := s.GetClient(clientID); err != nil {
		return nil, err
	}

	if s.policy.SingleActiveLoan {
		var count int64
		if err := s.db.Model(&models.Loan{}).
			Where("client_id = ? AND status = ?", clientID, models.LoanStatusActive).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check active loans: %w", err)
		}
		if count > 0 {
			return nil, &ConflictError{Message: "client already has an active loan"}
		}
	}

	if !principal.IsPositive() {
		return nil, &ValidationError{Message: "principal must be greater than 0"}
	}
	if interest.IsNegative() {
		return nil, &ValidationError{Message: "interest cannot be negative"}
	}

	start := s.today()
	if startDate != nil {
		start = dateOnly(*startDate)
	}
	due := start.AddDate(0, 0, defaultLoanTermDays)
	if dueDate != nil {
		due = dateOnly(*dueDate)
	}

	loan := &models.Loan{
		ClientID:        clientID,
		Principal:       principal,
		Interest:        interest,
		PaidAmount:      decimal.Zero,
		RemainingAmount: principal.Add(interest),
		Status:          models.LoanStatusActive,
		StartDate:       start,
		DueDate:         due,
	}

	if err := s.db.Create(loan).Error; err != nil {
		return nil, fmt.Errorf("create loan: %w", err)
	}
	return loan, nil
}

// LoanUpdate carries the optional fields of an administrative loan update.
// Nil fields are left untouched.
type LoanUpdate struct {
	Interest *decimal.Decimal
	Status   *string
	DueDate  *time.Time
}

// UpdateLoan applies an administrative update to an existing loan. This is
// the one path allowed to override the derived status; the balance is not
// recomputed here.
func (s *Service) UpdateLoan(id uint, upd LoanUpdate) (*models.Loan, error) {
	if upd.Interest != nil && upd.Interest.IsNegative() {
		return nil, &ValidationError{Message: "interest cannot be negative"}
	}
	if upd.Status != nil {
		switch *upd.Status {
		case models.LoanStatusActive, models.LoanStatusPaid, models.LoanStatusOverdue:
		default:
			return nil, &ValidationError{Message: fmt.Sprintf("unknown loan status %q", *upd.Status)}
		}
	}

	unlock := s.lockLoan(id)
	defer unlock()

	var loan models.Loan
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&loan, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "loan", ID: id}
			}
			return fmt.Errorf("get loan: %w", err)
		}

		if upd.Interest != nil {
			loan.Interest = *upd.Interest
		}
		if upd.Status != nil {
			loan.Status = *upd.Status
		}
		if upd.DueDate != nil {
			loan.DueDate = dateOnly(*upd.DueDate)
		}

		if err := tx.Save(&loan).Error; err != nil {
			return fmt.Errorf("update loan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// GetLoan returns a loan together with the identity of its owning client.
func (s *Service) GetLoan(id uint) (*models.Loan, error) {
	var loan models.Loan
	if err := s.db.Preload("Client").First(&loan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "loan", ID: id}
		}
		return nil, fmt.Errorf("get loan: %w", err)
	}
	return &loan, nil
}

// ListLoans returns all loans.
func (s *Service) ListLoans() ([]models.Loan, error) {
	var loans []models.Loan
	if err := s.db.Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return loans, nil
}

// LoansByClient returns the loans of one client. A client without loans is
// reported as not found rather than as an empty list.
func (s *Service) LoansByClient(clientID uint) ([]models.Loan, error) {
	var loans []models.Loan
	if err := s.db.Where("client_id = ?", clientID).Find(&loans).Error; err != nil {
		return nil, fmt.Errorf("list client loans: %w", err)
	}
	if len(loans) == 0 {
		return nil, &NotFoundError{Resource: "loans for client", ID: clientID}
	}
	return loans, nil
}

// DeleteLoan removes a loan and its payments, all or nothing.
func (s *Service) DeleteLoan(id uint) error {
	unlock := s.lockLoan(id)
	defer unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var loan models.Loan
		if err := tx.First(&loan, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "loan", ID: id}
			}
			return fmt.Errorf("get loan: %w", err)
		}

		if err := tx.Where("loan_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return fmt.Errorf("delete loan payments: %w", err)
		}
		if err := tx.Delete(&loan).Error; err != nil {
			return fmt.Errorf("delete loan: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.forget(s.loanLocks, id)
	return nil
}

// SweepOverdue re-evaluates every unsettled loan against the given date and
// marks the late ones Overdue. Paid loans are never touched. Running the
// sweep twice in a row changes nothing the second time; the returned count
// is the number of loans actually updated.
func (s *Service) SweepOverdue(today time.Time) (int, error) {
	var ids []uint
	if err := s.db.Model(&models.Loan{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("list loan ids: %w", err)
	}

	day := dateOnly(today)
	touched := 0
	for _, id := range ids {
		unlock := s.lockLoan(id)
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var loan models.Loan
			if err := tx.First(&loan, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// deleted since the id scan, nothing to do
					return nil
				}
				return fmt.Errorf("get loan: %w", err)
			}

			if loan.Status == models.LoanStatusPaid || loan.Status == models.LoanStatusOverdue {
				return nil
			}
			if !loan.RemainingAmount.IsPositive() || !dateOnly(loan.DueDate).Before(day) {
				return nil
			}

			loan.Status = models.LoanStatusOverdue
			if err := tx.Save(&loan).Error; err != nil {
				return fmt.Errorf("mark loan overdue: %w", err)
			}
			touched++
			return nil
		})
		unlock()
		if err != nil {
			return touched, err
		}
	}
	return touched, nil
}
