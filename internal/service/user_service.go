package service

import (
	"github.com/blocksmith-ai/backend/internal/models"
)

type ProfileStore interface {
	GetByID(userID string) (*models.Profile, error)
	GetOrCreate(userID, email string) (*models.Profile, error)
}

type UserGenerationStore interface {
	GetByUser(userID string, limit, offset int) ([]models.Generation, error)
}

type UserTransactionStore interface {
	GetByUser(userID string, limit, offset int) ([]models.CreditTransaction, error)
}

type UserService struct {
	profiles     ProfileStore
	generations  UserGenerationStore
	transactions UserTransactionStore
}

func NewUserService(profiles ProfileStore, generations UserGenerationStore, transactions UserTransactionStore) *UserService {
	return &UserService{
		profiles:     profiles,
		generations:  generations,
		transactions: transactions,
	}
}

// GetProfile returns the user's profile, creating an empty one on first
// contact so a fresh account always has a balance row.
func (s *UserService) GetProfile(userID, email string) (*models.Profile, error) {
	return s.profiles.GetOrCreate(userID, email)
}

func (s *UserService) GetGenerations(userID string, limit, offset int) ([]models.Generation, error) {
	return s.generations.GetByUser(userID, limit, offset)
}

func (s *UserService) GetTransactions(userID string, limit, offset int) ([]models.CreditTransaction, error) {
	return s.transactions.GetByUser(userID, limit, offset)
}
