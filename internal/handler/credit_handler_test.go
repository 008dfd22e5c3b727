package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/blocksmith-ai/backend/internal/apperr"
	"github.com/blocksmith-ai/backend/internal/models"
	"github.com/blocksmith-ai/backend/internal/service"
	"github.com/blocksmith-ai/backend/pkg/utils"
)

type balanceStore struct {
	profiles map[string]*models.Profile
}

func (s *balanceStore) GetProfile(userID string) (*models.Profile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return profile, nil
}

func (s *balanceStore) ApplyEntry(userID string, newCredits int, txn *models.CreditTransaction) error {
	return nil
}

func (s *balanceStore) AddTotalSpent(userID string, amount float64) error {
	return nil
}

func (s *balanceStore) HasPaymentReference(ref string) (bool, error) {
	return false, nil
}

func balanceApp(store *balanceStore, userID string) *fiber.App {
	ledger := service.NewLedgerService(store, zap.NewNop())
	h := NewCreditHandler(nil, ledger, utils.NewValidator())

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals("userID", userID)
		}
		return c.Next()
	})
	app.Get("/api/credits/balance", h.GetBalance)
	return app
}

func TestGetBalanceReturnsCreditsAndTotalSpent(t *testing.T) {
	store := &balanceStore{profiles: map[string]*models.Profile{
		"user-1": {ID: "user-1", Credits: 42, TotalSpent: 12.99},
	}}
	app := balanceApp(store, "user-1")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/credits/balance", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("decode response %q: %v", body, err)
	}
	if !envelope.Success {
		t.Fatalf("success = false: %s", body)
	}
	if got := envelope.Data["credits"]; got != float64(42) {
		t.Errorf("credits = %v, want 42", got)
	}
	if got, ok := envelope.Data["total_spent"]; !ok {
		t.Error("total_spent missing from balance response")
	} else if got != 12.99 {
		t.Errorf("total_spent = %v, want 12.99", got)
	}
}

func TestGetBalanceUnknownUser(t *testing.T) {
	app := balanceApp(&balanceStore{profiles: map[string]*models.Profile{}}, "ghost")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/credits/balance", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGetBalanceUnauthenticated(t *testing.T) {
	app := balanceApp(&balanceStore{profiles: map[string]*models.Profile{}}, "")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/credits/balance", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}
