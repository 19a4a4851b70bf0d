package checkout

import (
	"context"
	"fmt"
	"net/http"

	"github.com/BerylCAtieno/ai-stack-agent/internal/apierr"
	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
)

// Intent is what the payment provider is asked to create.
type Intent struct {
	Amount   int64
	Currency string
	Metadata map[string]string
}

type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, intent Intent) (clientSecret string, err error)
}

type Config struct {
	DefaultAmount int64
	Currency      string
}

// Service prepares strategy-session payments. A nil provider means payments
// are not configured and every call fails with a 503.
type Service struct {
	provider PaymentProvider
	cfg      Config
	log      *logger.Logger
}

func NewService(provider PaymentProvider, cfg Config, log *logger.Logger) *Service {
	if cfg.DefaultAmount <= 0 {
		cfg.DefaultAmount = 19700
	}
	if cfg.Currency == "" {
		cfg.Currency = "brl"
	}
	return &Service{provider: provider, cfg: cfg, log: log.With("service", "CheckoutService")}
}

func (s *Service) Enabled() bool { return s.provider != nil }

// CreatePaymentIntent returns the client secret for a new payment. A nil
// amount means the default session price.
func (s *Service) CreatePaymentIntent(ctx context.Context, amount *int64) (string, error) {
	if s.provider == nil {
		return "", apierr.New(http.StatusServiceUnavailable, "payments_unavailable",
			fmt.Errorf("payment processing is not configured: %w", apierr.ErrUnavailable))
	}

	value := s.cfg.DefaultAmount
	if amount != nil {
		value = *amount
	}
	if value <= 0 {
		return "", apierr.Invalid("amount must be a positive integer in minor units")
	}

	secret, err := s.provider.CreatePaymentIntent(ctx, Intent{
		Amount:   value,
		Currency: s.cfg.Currency,
		Metadata: map[string]string{"service": "strategy-session"},
	})
	if err != nil {
		s.log.Error("payment intent failed", "amount", value, "error", err)
		return "", fmt.Errorf("Error creating payment intent: %w", err)
	}

	s.log.Info("payment intent created", "amount", value, "currency", s.cfg.Currency)
	return secret, nil
}
