package ledger

import (
	"time"

	"loantrack/internal/models"
)

// RecomputeStatus derives a loan's status from its balance and due date.
// It is the single source of truth for the status rule: Paid when nothing
// remains, otherwise Overdue when past due, otherwise Active. Apart from
// the administrative override in UpdateLoan, no other code path assigns
// loan status after creation.
func RecomputeStatus(loan *models.Loan, today time.Time) {
	switch {
	case !loan.RemainingAmount.IsPositive():
		loan.Status = models.LoanStatusPaid
	case dateOnly(loan.DueDate).Before(dateOnly(today)):
		loan.Status = models.LoanStatusOverdue
	default:
		loan.Status = models.LoanStatusActive
	}
}

// dateOnly truncates a time to its calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
