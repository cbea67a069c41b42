package checkout

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/jsa498/devflow/internal/purchases"
	"github.com/jsa498/devflow/pkg/config"
	"github.com/jsa498/devflow/pkg/db/models"
	pkgerrors "github.com/jsa498/devflow/pkg/errors"
	"github.com/jsa498/devflow/pkg/logger"
)

const checkoutCurrency = "usd"

// Session ID template token substituted by the payment provider on redirect.
const sessionIDToken = "{CHECKOUT_SESSION_ID}"

var minorUnitFactor = decimal.NewFromInt(100)

type courseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	FindEnrollmentByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseEnrollment, error)
}

type cartRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
}

// Session is the caller-facing result of session creation: the ID for
// reconciliation bookkeeping and the hosted URL to redirect the buyer to.
type Session struct {
	ID  string
	URL string
}

// ServiceParams configures the checkout service.
type ServiceParams struct {
	CourseRepo   courseRepository
	CartRepo     cartRepository
	StripeClient StripeCheckoutClient
	Site         config.SiteConfig
	Logger       *logger.Logger
}

// Service creates one-time payment checkout sessions for course and cart
// purchases. The metadata written here is the contract the verification
// side dispatches on; the two must stay aligned key for key.
type Service struct {
	courseRepo courseRepository
	cartRepo   cartRepository
	stripe     StripeCheckoutClient
	site       config.SiteConfig
	logg       *logger.Logger
}

// NewService validates dependencies and returns a checkout service.
func NewService(params ServiceParams) (*Service, error) {
	if params.CourseRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "course repo required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repo required")
	}
	if params.StripeClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stripe client required")
	}
	return &Service{
		courseRepo: params.CourseRepo,
		cartRepo:   params.CartRepo,
		stripe:     params.StripeClient,
		site:       params.Site,
		logg:       params.Logger,
	}, nil
}

// CreateCourseSession starts a one-time checkout for a single course.
func (s *Service) CreateCourseSession(ctx context.Context, userID, courseID uuid.UUID) (*Session, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up course")
	}
	if course == nil || !course.Published {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "course not found")
	}

	enrollment, err := s.courseRepo.FindEnrollmentByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up enrollment")
	}
	if enrollment != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "course already purchased")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          []*stripe.CheckoutSessionLineItemParams{courseLineItem(*course)},
		SuccessURL:         stripe.String(s.site.BaseURL + "/courses/" + course.Slug + "?success=true&session_id=" + sessionIDToken),
		CancelURL:          stripe.String(s.site.BaseURL + "/courses/" + course.Slug + "?canceled=true"),
	}
	params.AddMetadata(purchases.MetadataUserID, userID.String())
	params.AddMetadata(purchases.MetadataCourseID, course.ID.String())
	params.AddMetadata(purchases.MetadataCourseSlug, course.Slug)

	session, err := s.stripe.Create(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithCheckoutSession(ctx, session.ID), "course checkout session created")
	}
	return &Session{ID: session.ID, URL: session.URL}, nil
}

// CreateCartSession starts a one-time checkout covering every course in the
// user's cart. The course IDs travel in metadata as a JSON array; the cart
// rows themselves are only cleared after verification succeeds.
func (s *Service) CreateCartSession(ctx context.Context, userID uuid.UUID) (*Session, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart items")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	courseIDs := make([]string, 0, len(items))
	for _, item := range items {
		if item.Course == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart item missing course")
		}
		lineItems = append(lineItems, courseLineItem(*item.Course))
		courseIDs = append(courseIDs, item.CourseID.String())
	}

	encodedIDs, err := json.Marshal(courseIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode course ids")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(s.site.BaseURL + "/courses?success=true&checkout_session_id=" + sessionIDToken),
		CancelURL:          stripe.String(s.site.BaseURL + "/cart?canceled=true"),
	}
	params.AddMetadata(purchases.MetadataUserID, userID.String())
	params.AddMetadata(purchases.MetadataIsCartCheckout, "true")
	params.AddMetadata(purchases.MetadataCourseIDs, string(encodedIDs))

	session, err := s.stripe.Create(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart checkout session")
	}

	if s.logg != nil {
		fields := s.logg.WithField(s.logg.WithCheckoutSession(ctx, session.ID), "items", len(items))
		s.logg.Info(fields, "cart checkout session created")
	}
	return &Session{ID: session.ID, URL: session.URL}, nil
}

func courseLineItem(course models.Course) *stripe.CheckoutSessionLineItemParams {
	priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
		Currency:   stripe.String(checkoutCurrency),
		UnitAmount: stripe.Int64(course.Price.Mul(minorUnitFactor).Round(0).IntPart()),
		ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(course.Title),
		},
	}
	if course.ImageURL != "" {
		priceData.ProductData.Images = stripe.StringSlice([]string{course.ImageURL})
	}
	return &stripe.CheckoutSessionLineItemParams{
		PriceData: priceData,
		Quantity:  stripe.Int64(1),
	}
}
