package ledger

import "fmt"

// The three caller-facing failure kinds. None of them are transient, so the
// ledger never retries internally; handlers map them to HTTP statuses.

// NotFoundError means a referenced client, loan or payment set is absent.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ValidationError means a value is outside its allowed domain: non-positive
// amounts, negative interest, overpayment.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError means a uniqueness or state rule was violated: duplicate
// national ID, second active loan under policy, payment against a settled
// loan.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }
