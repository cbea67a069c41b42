package programs

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/jsa498/devflow/pkg/db/models"
	"github.com/jsa498/devflow/pkg/enums"
)

type stubRepo struct {
	created      *models.ProgramEnrollment
	sessionID    string
	markedFailed bool
	createErr    error
}

func (s *stubRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubRepo) Create(_ context.Context, enrollment *models.ProgramEnrollment) error {
	if s.createErr != nil {
		return s.createErr
	}
	enrollment.ID = uuid.New()
	s.created = enrollment
	return nil
}

func (s *stubRepo) FindByID(context.Context, uuid.UUID) (*models.ProgramEnrollment, error) {
	return s.created, nil
}

func (s *stubRepo) FindBySessionID(context.Context, string) (*models.ProgramEnrollment, error) {
	return nil, nil
}

func (s *stubRepo) FindActiveByUser(context.Context, uuid.UUID) (*models.ProgramEnrollment, error) {
	return nil, nil
}

func (s *stubRepo) SetCheckoutSession(_ context.Context, _ uuid.UUID, sessionID string) error {
	s.sessionID = sessionID
	return nil
}

func (s *stubRepo) Activate(context.Context, uuid.UUID, uuid.UUID, string, string) (bool, error) {
	return false, nil
}

func (s *stubRepo) MarkCreationFailed(context.Context, uuid.UUID) error {
	s.markedFailed = true
	return nil
}

type stubCheckoutClient struct {
	params  *stripe.CheckoutSessionParams
	session *stripe.CheckoutSession
	err     error
}

func (s *stubCheckoutClient) Create(_ context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	s.params = params
	return s.session, s.err
}

func (s *stubCheckoutClient) Retrieve(context.Context, string, *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return s.session, s.err
}

type stubPrices struct {
	monthly string
	yearly  string
}

func (s *stubPrices) RecurringPriceID(cycle string) string {
	switch cycle {
	case "monthly":
		return s.monthly
	case "yearly":
		return s.yearly
	}
	return ""
}

func validInput() EnrollInput {
	return EnrollInput{
		UserID:       uuid.New(),
		ProgramName:  "Weekend Program",
		BillingCycle: enums.BillingCycleMonthly,
		SelectedSlot: enums.TimeSlotSundayBeginner,
		ChildCount:   2,
	}
}

func TestService_StartCheckoutCreatesPendingRowAndStoresSession(t *testing.T) {
	repo := &stubRepo{}
	client := &stubCheckoutClient{session: &stripe.CheckoutSession{ID: "cs_sub", URL: "https://pay.example/cs_sub"}}
	service, err := NewService(ServiceParams{
		Repo:         repo,
		StripeClient: client,
		Prices:       &stubPrices{monthly: "price_monthly"},
	})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}

	session, err := service.StartCheckout(context.Background(), validInput())
	if err != nil {
		t.Fatalf("start checkout: %v", err)
	}
	if session.ID != "cs_sub" || session.URL == "" {
		t.Fatalf("unexpected session %+v", session)
	}
	if repo.created == nil || repo.created.Status != enums.EnrollmentStatusPendingPayment {
		t.Fatalf("expected pending enrollment row, got %+v", repo.created)
	}
	if repo.sessionID != "cs_sub" {
		t.Fatalf("expected session id stored, got %q", repo.sessionID)
	}

	metadata := client.params.Metadata
	if metadata["userId"] == "" || metadata["programEnrollmentId"] != repo.created.ID.String() {
		t.Fatalf("unexpected metadata %v", metadata)
	}
	if got := *client.params.LineItems[0].Price; got != "price_monthly" {
		t.Fatalf("unexpected base price %q", got)
	}
	if len(client.params.LineItems) != 1 {
		t.Fatalf("expected no surcharges for two children, got %d line items", len(client.params.LineItems))
	}
}

func TestService_StartCheckoutAppendsSurchargeLineItems(t *testing.T) {
	repo := &stubRepo{}
	client := &stubCheckoutClient{session: &stripe.CheckoutSession{ID: "cs_big"}}
	service, err := NewService(ServiceParams{
		Repo:         repo,
		StripeClient: client,
		Prices:       &stubPrices{monthly: "price_monthly"},
	})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}

	input := validInput()
	input.ChildCount = 3
	input.ClassCountsPerChild = []int{3, 3, 5}

	if _, err := service.StartCheckout(context.Background(), input); err != nil {
		t.Fatalf("start checkout: %v", err)
	}

	// Base price plus one child surcharge plus one class surcharge.
	if len(client.params.LineItems) != 3 {
		t.Fatalf("expected 3 line items, got %d", len(client.params.LineItems))
	}
	childFee := client.params.LineItems[1].PriceData
	if *childFee.UnitAmount != 2000 {
		t.Fatalf("expected $20 child fee in cents, got %d", *childFee.UnitAmount)
	}
	classFee := client.params.LineItems[2].PriceData
	if *classFee.UnitAmount != 10000 {
		t.Fatalf("expected $100 class fee in cents, got %d", *classFee.UnitAmount)
	}
	if *classFee.Recurring.Interval != "month" {
		t.Fatalf("expected monthly recurrence, got %q", *classFee.Recurring.Interval)
	}
}

func TestService_StartCheckoutYearlyBillsTwelveMonthsOfFees(t *testing.T) {
	repo := &stubRepo{}
	client := &stubCheckoutClient{session: &stripe.CheckoutSession{ID: "cs_year"}}
	service, err := NewService(ServiceParams{
		Repo:         repo,
		StripeClient: client,
		Prices:       &stubPrices{yearly: "price_yearly"},
	})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}

	input := validInput()
	input.BillingCycle = enums.BillingCycleYearly
	input.ChildCount = 3

	if _, err := service.StartCheckout(context.Background(), input); err != nil {
		t.Fatalf("start checkout: %v", err)
	}
	fee := client.params.LineItems[1].PriceData
	if *fee.UnitAmount != 24000 {
		t.Fatalf("expected $240 yearly child fee in cents, got %d", *fee.UnitAmount)
	}
	if *fee.Recurring.Interval != "year" {
		t.Fatalf("expected yearly recurrence, got %q", *fee.Recurring.Interval)
	}
}

func TestService_StartCheckoutMarksRowFailedWhenSessionCreationFails(t *testing.T) {
	repo := &stubRepo{}
	client := &stubCheckoutClient{err: errors.New("stripe unavailable")}
	service, err := NewService(ServiceParams{
		Repo:         repo,
		StripeClient: client,
		Prices:       &stubPrices{monthly: "price_monthly"},
	})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}

	if _, err := service.StartCheckout(context.Background(), validInput()); err == nil {
		t.Fatalf("expected error")
	}
	if !repo.markedFailed {
		t.Fatalf("expected enrollment marked creation_failed")
	}
}

func TestService_StartCheckoutRejectsInvalidInput(t *testing.T) {
	service, err := NewService(ServiceParams{
		Repo:         &stubRepo{},
		StripeClient: &stubCheckoutClient{},
		Prices:       &stubPrices{monthly: "price_monthly"},
	})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}

	bad := validInput()
	bad.SelectedSlot = enums.TimeSlot("friday_chess")
	if _, err := service.StartCheckout(context.Background(), bad); err == nil {
		t.Fatalf("expected invalid slot rejection")
	}

	bad = validInput()
	bad.BillingCycle = enums.BillingCycle("weekly")
	if _, err := service.StartCheckout(context.Background(), bad); err == nil {
		t.Fatalf("expected invalid cycle rejection")
	}
}
