package stripewebhook

import (
	"context"
	"encoding/json"

	"github.com/stripe/stripe-go/v84"

	"github.com/jsa498/devflow/internal/purchases"
	pkgerrors "github.com/jsa498/devflow/pkg/errors"
)

type verifier interface {
	Verify(ctx context.Context, sessionID string) (*purchases.Result, error)
}

// Service routes authenticated Stripe events into purchase verification.
// The webhook path and the post-redirect client path both funnel into the
// same Verify contract, so neither needs to be authoritative.
type Service struct {
	purchases verifier
}

// NewService returns a webhook event service.
func NewService(purchaseService verifier) (*Service, error) {
	if purchaseService == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "purchase service required")
	}
	return &Service{purchases: purchaseService}, nil
}

// HandleEvent processes one authenticated event. Unrecognized event types
// are acknowledged without action.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
		}
		if session.ID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "checkout session id missing from event")
		}
		_, err := s.purchases.Verify(ctx, session.ID)
		return err
	default:
		return nil
	}
}
