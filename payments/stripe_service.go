package payments

import (
	"math"

	config "github.com/Alexandr290700/online-tutor/configs"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

func InitStripe() {
	stripe.Key = config.Config("STRIPE_SECRET_KEY")
}

type CardChargeResult struct {
	ProviderTxnID string
	ClientSecret  string
	Status        string
}

// CreateCardPayment creates a Stripe PaymentIntent for a card charge. Amount
// is in major currency units and converted to minor units for the API.
func CreateCardPayment(amount float64, currency, description string) (*CardChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(int64(math.Round(amount * 100))),
		Currency:           stripe.String(currency),
		Description:        stripe.String(description),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}

	return &CardChargeResult{
		ProviderTxnID: pi.ID,
		ClientSecret:  pi.ClientSecret,
		Status:        string(pi.Status),
	}, nil
}
