package checkout

import (
	"context"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// StripeProvider creates payment intents through an explicitly constructed
// Stripe client. It never touches the package-level stripe.Key.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider builds a client for secretKey. Nil backends selects the
// live Stripe API.
func NewStripeProvider(secretKey string, backends *stripe.Backends) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &StripeProvider{api: api}
}

func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, intent Intent) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(intent.Amount),
		Currency: stripe.String(intent.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range intent.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return "", err
	}
	return pi.ClientSecret, nil
}
