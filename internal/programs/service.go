package programs

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/jsa498/devflow/internal/checkout"
	"github.com/jsa498/devflow/internal/purchases"
	"github.com/jsa498/devflow/internal/schedule"
	"github.com/jsa498/devflow/pkg/config"
	"github.com/jsa498/devflow/pkg/db/models"
	"github.com/jsa498/devflow/pkg/enums"
	pkgerrors "github.com/jsa498/devflow/pkg/errors"
	"github.com/jsa498/devflow/pkg/logger"
)

const surchargeCurrency = "usd"

var (
	minorUnitFactor = decimal.NewFromInt(100)
	monthsPerYear   = decimal.NewFromInt(12)
)

type recurringPriceResolver interface {
	RecurringPriceID(billingCycle string) string
}

// EnrollInput describes one family's program signup. Class counts are per
// child and only their totals matter for pricing; the children themselves
// are registered after payment.
type EnrollInput struct {
	UserID              uuid.UUID
	ProgramName         string
	BillingCycle        enums.BillingCycle
	SelectedSlot        enums.TimeSlot
	ChildCount          int
	ClassCountsPerChild []int
	CustomerEmail       string
}

// ServiceParams configures the program enrollment service.
type ServiceParams struct {
	Repo         Repository
	StripeClient checkout.StripeCheckoutClient
	Prices       recurringPriceResolver
	Site         config.SiteConfig
	Logger       *logger.Logger
}

// Service owns the program subscription signup flow: a pending enrollment
// row is written before the payment provider is contacted, so the
// verification side always has a row to activate.
type Service struct {
	repo   Repository
	stripe checkout.StripeCheckoutClient
	prices recurringPriceResolver
	site   config.SiteConfig
	logg   *logger.Logger
}

// NewService validates dependencies and returns a program service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "program repo required")
	}
	if params.StripeClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stripe client required")
	}
	if params.Prices == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "price resolver required")
	}
	return &Service{
		repo:   params.Repo,
		stripe: params.StripeClient,
		prices: params.Prices,
		site:   params.Site,
		logg:   params.Logger,
	}, nil
}

// StartCheckout records a pending enrollment and opens a subscription
// checkout session for it. If session creation fails after the row exists,
// the row is marked creation_failed rather than deleted, so support can see
// abandoned signups.
func (s *Service) StartCheckout(ctx context.Context, input EnrollInput) (*checkout.Session, error) {
	if input.ProgramName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "program name is required")
	}
	if !input.BillingCycle.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid billing cycle")
	}
	if _, ok := schedule.SlotDetailFor(input.SelectedSlot); !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid time slot")
	}

	priceID := s.prices.RecurringPriceID(input.BillingCycle.String())
	if priceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "subscription price not configured for billing cycle")
	}

	enrollment := &models.ProgramEnrollment{
		UserID:       input.UserID,
		ProgramName:  input.ProgramName,
		BillingCycle: input.BillingCycle,
		SelectedSlot: input.SelectedSlot,
		Status:       enums.EnrollmentStatusPendingPayment,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create pending enrollment")
	}

	params := s.sessionParams(enrollment, input, priceID)
	session, err := s.stripe.Create(ctx, params)
	if err != nil {
		if markErr := s.repo.MarkCreationFailed(ctx, enrollment.ID); markErr != nil && s.logg != nil {
			s.logg.Error(ctx, "mark enrollment creation_failed", markErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subscription checkout session")
	}

	// The webhook can still activate through metadata if this update is
	// lost; the session ID on the row is what the redirect pre-check uses.
	if err := s.repo.SetCheckoutSession(ctx, enrollment.ID, session.ID); err != nil && s.logg != nil {
		s.logg.Error(s.logg.WithCheckoutSession(ctx, session.ID), "store checkout session on enrollment", err)
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithCheckoutSession(ctx, session.ID), "program checkout session created")
	}
	return &checkout.Session{ID: session.ID, URL: session.URL}, nil
}

func (s *Service) sessionParams(enrollment *models.ProgramEnrollment, input EnrollInput, priceID string) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(s.site.BaseURL + "/dashboard?program_enrollment=success&checkout_session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.site.BaseURL + "/programs?canceled=true"),
	}
	if input.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(input.CustomerEmail)
	}

	surcharges := ComputeSurcharges(input.ChildCount, ExtraClassCount(input.ClassCountsPerChild))
	params.LineItems = append(params.LineItems, surchargeLineItems(surcharges, input.BillingCycle)...)

	params.AddMetadata(purchases.MetadataUserID, input.UserID.String())
	params.AddMetadata(purchases.MetadataProgramEnrollmentID, enrollment.ID.String())
	return params
}

// surchargeLineItems turns the flat fees into recurring line items matching
// the base subscription's interval. The documented fee constants are per
// month; a yearly subscription bills twelve months of the fee at once.
func surchargeLineItems(surcharges Surcharges, cycle enums.BillingCycle) []*stripe.CheckoutSessionLineItemParams {
	interval := "month"
	multiplier := decimal.NewFromInt(1)
	if cycle == enums.BillingCycleYearly {
		interval = "year"
		multiplier = monthsPerYear
	}

	var items []*stripe.CheckoutSessionLineItemParams
	if surcharges.ChildFee.IsPositive() {
		items = append(items, recurringFeeItem("Additional child fee", surcharges.ChildFee.Mul(multiplier), interval))
	}
	if surcharges.ClassFee.IsPositive() {
		items = append(items, recurringFeeItem("Additional class fee", surcharges.ClassFee.Mul(multiplier), interval))
	}
	return items
}

func recurringFeeItem(name string, amount decimal.Decimal, interval string) *stripe.CheckoutSessionLineItemParams {
	return &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(surchargeCurrency),
			UnitAmount: stripe.Int64(amount.Mul(minorUnitFactor).Round(0).IntPart()),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(name),
			},
			Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
				Interval: stripe.String(interval),
			},
		},
		Quantity: stripe.Int64(1),
	}
}
