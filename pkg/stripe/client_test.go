package stripe

import (
	"context"
	"testing"

	"github.com/jsa498/devflow/pkg/config"
)

func TestNewClientRejectsMismatchedKey(t *testing.T) {
	_, err := NewClient(context.Background(), config.StripeConfig{
		APIKey: "sk_live_abc",
		Secret: "whsec_x",
		Env:    "test",
	}, nil)
	if err == nil {
		t.Fatalf("expected error for live key in test env")
	}
}

func TestNewClientRequiresSecrets(t *testing.T) {
	if _, err := NewClient(context.Background(), config.StripeConfig{Secret: "whsec_x"}, nil); err != errAPIKeyRequired {
		t.Fatalf("expected api key error, got %v", err)
	}
	if _, err := NewClient(context.Background(), config.StripeConfig{APIKey: "sk_test_x"}, nil); err != errSecretRequired {
		t.Fatalf("expected secret error, got %v", err)
	}
}

func TestRecurringPriceID(t *testing.T) {
	client, err := NewClient(context.Background(), config.StripeConfig{
		APIKey:         "sk_test_abc",
		Secret:         "whsec_x",
		MonthlyPriceID: "price_month",
		YearlyPriceID:  "price_year",
	}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if got := client.RecurringPriceID("monthly"); got != "price_month" {
		t.Fatalf("monthly price = %q", got)
	}
	if got := client.RecurringPriceID(" Yearly "); got != "price_year" {
		t.Fatalf("yearly price = %q", got)
	}
	if got := client.RecurringPriceID("weekly"); got != "" {
		t.Fatalf("unknown cycle should be empty, got %q", got)
	}
}
