package payment

import (
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/customer"

	"github.com/blocksmith-ai/backend/internal/models"
)

type StripeService struct {
	secretKey string
}

func NewStripeService(secretKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{
		secretKey: secretKey,
	}
}

// CreateCustomer creates a Stripe customer carrying our user id in metadata.
func (s *StripeService) CreateCustomer(userID, email string) (string, error) {
	params := &stripe.CustomerParams{}
	if email != "" {
		params.Email = stripe.String(email)
	}
	params.AddMetadata("user_id", userID)

	c, err := customer.New(params)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

// CreateCheckoutSession builds a one-off payment session for a credit
// package. The metadata carries everything the webhook needs to credit the
// purchase without a database lookup.
func (s *StripeService) CreateCheckoutSession(customerID string, pkg *models.CreditPackage, userID, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	totalCredits := pkg.Credits + pkg.BonusCredits

	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(fmt.Sprintf("%s - %d Credits", pkg.Name, totalCredits)),
						Description: stripe.String("BlockSmith AI Credits Package"),
					},
					UnitAmount: stripe.Int64(pkg.PriceCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}

	params.AddMetadata("user_id", userID)
	params.AddMetadata("package_id", fmt.Sprintf("%d", pkg.ID))
	params.AddMetadata("credits", fmt.Sprintf("%d", pkg.Credits))
	params.AddMetadata("bonus_credits", fmt.Sprintf("%d", pkg.BonusCredits))

	return session.New(params)
}
