package ledger

import (
	"sync"
	"time"

	"gorm.io/gorm"
)

// Policy carries the configurable business rules of the ledger.
type Policy struct {
	// SingleActiveLoan, when set, rejects a new loan for a client that
	// already holds an Active one.
	SingleActiveLoan bool
}

// Service owns loan creation, payment application, balance invariants and
// status derivation. All mutations of a loan's balance go through a per-loan
// lock plus a database transaction, so two concurrent payments can never
// both pass the overpayment check.
type Service struct {
	db     *gorm.DB
	policy Policy
	now    func() time.Time

	mu          sync.Mutex
	loanLocks   map[uint]*sync.Mutex
	clientLocks map[uint]*sync.Mutex
}

// NewService creates a ledger service on top of an opened database.
func NewService(db *gorm.DB, policy Policy) *Service {
	return &Service{
		db:          db,
		policy:      policy,
		now:         time.Now,
		loanLocks:   make(map[uint]*sync.Mutex),
		clientLocks: make(map[uint]*sync.Mutex),
	}
}

func (s *Service) acquire(locks map[uint]*sync.Mutex, id uint) func() {
	s.mu.Lock()
	l, ok := locks[id]
	if !ok {
		l = &sync.Mutex{}
		locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// forget drops a lock entry once its row is gone, so the maps do not grow
// with every id ever seen.
func (s *Service) forget(locks map[uint]*sync.Mutex, id uint) {
	s.mu.Lock()
	delete(locks, id)
	s.mu.Unlock()
}

// lockLoan serializes writers per loan id. The returned func releases the
// lock.
func (s *Service) lockLoan(id uint) func() { return s.acquire(s.loanLocks, id) }

// lockClient serializes loan creation per client, so the single-active-loan
// check cannot race with a concurrent insert for the same client.
func (s *Service) lockClient(id uint) func() { return s.acquire(s.clientLocks, id) }

// today returns the current calendar date per the injected clock.
func (s *Service) today() time.Time {
	return dateOnly(s.now())
}
