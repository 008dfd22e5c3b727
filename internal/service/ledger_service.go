package service

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/blocksmith-ai/backend/internal/apperr"
	"github.com/blocksmith-ai/backend/internal/models"
)

// LedgerStore is the persistence contract for balance mutation. ApplyEntry
// must commit the balance write and the transaction append atomically.
type LedgerStore interface {
	GetProfile(userID string) (*models.Profile, error)
	ApplyEntry(userID string, newCredits int, txn *models.CreditTransaction) error
	AddTotalSpent(userID string, amount float64) error
	HasPaymentReference(ref string) (bool, error)
}

// LedgerService owns every credit balance mutation. Same-user applies are
// serialized under a per-user mutex so the read-modify-write on the balance
// never loses an update; different users proceed independently.
type LedgerService struct {
	store  LedgerStore
	logger *zap.Logger

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewLedgerService(store LedgerStore, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		store:     store,
		logger:    logger,
		userLocks: make(map[string]*sync.Mutex),
	}
}

func (s *LedgerService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

func (s *LedgerService) GetBalance(userID string) (int, error) {
	profile, err := s.store.GetProfile(userID)
	if err != nil {
		return 0, err
	}
	return profile.Credits, nil
}

// Balance returns the full credit state (credits and lifetime spend) for the
// balance endpoint.
func (s *LedgerService) Balance(userID string) (*models.Profile, error) {
	return s.store.GetProfile(userID)
}

// Apply adds amount (negative for debits) to the user's balance and appends
// the matching ledger transaction. Returns the new balance.
func (s *LedgerService) Apply(userID string, amount int, txType models.TransactionType, description, generationID, paymentRef string) (int, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return s.applyLocked(userID, amount, txType, description, generationID, paymentRef)
}

// ApplyOnce applies the entry unless one with the same payment reference
// already exists. The reference check and the apply run under the same
// per-user lock, so two concurrent deliveries of one reference cannot both
// pass. The bool reports whether the entry was applied.
func (s *LedgerService) ApplyOnce(userID string, amount int, txType models.TransactionType, description, generationID, paymentRef string) (int, bool, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	seen, err := s.store.HasPaymentReference(paymentRef)
	if err != nil {
		return 0, false, err
	}
	if seen {
		return 0, false, nil
	}

	newCredits, err := s.applyLocked(userID, amount, txType, description, generationID, paymentRef)
	if err != nil {
		return 0, false, err
	}
	return newCredits, true, nil
}

func (s *LedgerService) applyLocked(userID string, amount int, txType models.TransactionType, description, generationID, paymentRef string) (int, error) {
	profile, err := s.store.GetProfile(userID)
	if err != nil {
		return 0, err
	}

	newCredits := profile.Credits + amount
	if newCredits < 0 {
		return 0, fmt.Errorf("%w: need %d, have %d", apperr.ErrInsufficientCredits, -amount, profile.Credits)
	}

	txn := &models.CreditTransaction{
		UserID:          userID,
		Amount:          amount,
		Type:            txType,
		Description:     description,
		GenerationID:    generationID,
		StripePaymentID: paymentRef,
	}

	if err := s.store.ApplyEntry(userID, newCredits, txn); err != nil {
		return 0, err
	}

	s.logger.Info("ledger entry applied",
		zap.String("user_id", userID),
		zap.Int("amount", amount),
		zap.String("type", string(txType)),
		zap.Int("balance", newCredits),
	)

	return newCredits, nil
}

// AddTotalSpent records lifetime spend in currency units. It is bookkeeping
// outside the credit balance, so it takes no user lock.
func (s *LedgerService) AddTotalSpent(userID string, amount float64) error {
	return s.store.AddTotalSpent(userID, amount)
}
