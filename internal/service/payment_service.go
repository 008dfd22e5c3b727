package service

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"

	"github.com/blocksmith-ai/backend/internal/models"
)

// CheckoutGateway is the slice of the Stripe client the payment service uses.
type CheckoutGateway interface {
	CreateCustomer(userID, email string) (string, error)
	CreateCheckoutSession(customerID string, pkg *models.CreditPackage, userID, successURL, cancelURL string) (*stripe.CheckoutSession, error)
}

type PackageStore interface {
	GetActiveByID(id uint) (*models.CreditPackage, error)
	GetActive() ([]models.CreditPackage, error)
	GetNameByID(id uint) string
}

type CustomerStore interface {
	GetCustomerID(userID string) (string, error)
	Save(userID, stripeCustomerID string) error
}

type PaymentLedger interface {
	Apply(userID string, amount int, txType models.TransactionType, description, generationID, paymentRef string) (int, error)
	ApplyOnce(userID string, amount int, txType models.TransactionType, description, generationID, paymentRef string) (int, bool, error)
	AddTotalSpent(userID string, amount float64) error
}

type PurchaseStore interface {
	GetPurchasesByUser(userID string, limit, offset int) ([]models.CreditTransaction, error)
}

type PaymentService struct {
	gateway   CheckoutGateway
	packages  PackageStore
	customers CustomerStore
	ledger    PaymentLedger
	purchases PurchaseStore
	logger    *zap.Logger

	dedupPayments bool
}

func NewPaymentService(
	gateway CheckoutGateway,
	packages PackageStore,
	customers CustomerStore,
	ledger PaymentLedger,
	purchases PurchaseStore,
	dedupPayments bool,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		gateway:       gateway,
		packages:      packages,
		customers:     customers,
		ledger:        ledger,
		purchases:     purchases,
		dedupPayments: dedupPayments,
		logger:        logger,
	}
}

func (s *PaymentService) GetCreditPackages() ([]models.CreditPackage, error) {
	return s.packages.GetActive()
}

func (s *PaymentService) GetPurchaseHistory(userID string, limit, offset int) ([]models.CreditTransaction, error) {
	return s.purchases.GetPurchasesByUser(userID, limit, offset)
}

// CreateCheckoutSession starts a Stripe checkout for a credit package,
// reusing the user's Stripe customer when one exists.
func (s *PaymentService) CreateCheckoutSession(userID, email string, req *models.CheckoutRequest) (*models.CheckoutSession, error) {
	pkg, err := s.packages.GetActiveByID(req.PackageID)
	if err != nil {
		return nil, err
	}

	customerID, err := s.customers.GetCustomerID(userID)
	if err != nil {
		return nil, err
	}
	if customerID == "" {
		customerID, err = s.gateway.CreateCustomer(userID, email)
		if err != nil {
			return nil, fmt.Errorf("create stripe customer: %w", err)
		}
		if err := s.customers.Save(userID, customerID); err != nil {
			return nil, err
		}
	}

	session, err := s.gateway.CreateCheckoutSession(customerID, pkg, userID, req.SuccessURL, req.CancelURL)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	s.logger.Info("checkout session created",
		zap.String("user_id", userID),
		zap.Uint("package_id", pkg.ID),
		zap.String("session_id", session.ID),
	)

	return &models.CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

// HandleStripeWebhook applies a verified Stripe event. Malformed or
// incomplete events are logged and dropped without an error so Stripe does
// not retry them forever.
func (s *PaymentService) HandleStripeWebhook(event stripe.Event) error {
	if event.Type != "checkout.session.completed" {
		s.logger.Debug("ignoring stripe event", zap.String("type", string(event.Type)))
		return nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("parse checkout session: %w", err)
	}

	userID := session.Metadata["user_id"]
	if userID == "" {
		s.logger.Error("checkout session missing user_id metadata",
			zap.String("session_id", session.ID),
		)
		return nil
	}

	credits, _ := strconv.Atoi(session.Metadata["credits"])
	bonusCredits, _ := strconv.Atoi(session.Metadata["bonus_credits"])
	totalCredits := credits + bonusCredits
	if totalCredits <= 0 {
		s.logger.Error("checkout session carries no credits",
			zap.String("session_id", session.ID),
			zap.String("user_id", userID),
		)
		return nil
	}

	paymentRef := session.ID
	if session.PaymentIntent != nil {
		paymentRef = session.PaymentIntent.ID
	}

	packageName := "Credit Package"
	if packageID, err := strconv.ParseUint(session.Metadata["package_id"], 10, 64); err == nil {
		packageName = s.packages.GetNameByID(uint(packageID))
	}
	description := fmt.Sprintf("Purchased %s (%d credits)", packageName, totalCredits)

	if s.dedupPayments {
		// The reference check and the credit run under one ledger lock so
		// concurrent deliveries of the same reference credit at most once.
		_, applied, err := s.ledger.ApplyOnce(userID, totalCredits, models.TransactionPurchase, description, "", paymentRef)
		if err != nil {
			return fmt.Errorf("credit purchase for user %s: %w", userID, err)
		}
		if !applied {
			s.logger.Warn("duplicate payment event, skipping",
				zap.String("payment_ref", paymentRef),
				zap.String("user_id", userID),
			)
			return nil
		}
	} else if _, err := s.ledger.Apply(userID, totalCredits, models.TransactionPurchase, description, "", paymentRef); err != nil {
		return fmt.Errorf("credit purchase for user %s: %w", userID, err)
	}

	amountPaid := float64(session.AmountTotal) / 100
	if err := s.ledger.AddTotalSpent(userID, amountPaid); err != nil {
		s.logger.Error("cannot update total spent",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	s.logger.Info("payment processed",
		zap.String("user_id", userID),
		zap.Int("credits", totalCredits),
		zap.Float64("amount", amountPaid),
		zap.String("payment_ref", paymentRef),
	)
	return nil
}
