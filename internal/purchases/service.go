package purchases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/jsa498/devflow/internal/revalidate"
	"github.com/jsa498/devflow/pkg/db"
	"github.com/jsa498/devflow/pkg/db/models"
	"github.com/jsa498/devflow/pkg/enums"
	pkgerrors "github.com/jsa498/devflow/pkg/errors"
	"github.com/jsa498/devflow/pkg/logger"
	"github.com/jsa498/devflow/pkg/metrics"
)

const courseEnrollmentUniqueConstraint = "course_enrollments_user_course_key"

// minorUnitFactor converts the payment provider's minor currency units
// (cents) to major units.
var minorUnitFactor = decimal.NewFromInt(100)

type courseRepository interface {
	CreateEnrollment(ctx context.Context, enrollment *models.CourseEnrollment) error
	FindEnrollmentBySessionID(ctx context.Context, sessionID string) (*models.CourseEnrollment, error)
}

type programRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ProgramEnrollment, error)
	FindBySessionID(ctx context.Context, sessionID string) (*models.ProgramEnrollment, error)
	Activate(ctx context.Context, id, userID uuid.UUID, subscriptionID, sessionID string) (bool, error)
}

type cartRepository interface {
	ClearForUser(ctx context.Context, userID uuid.UUID) error
}

type notifier interface {
	Notify(ctx context.Context, paths ...string)
}

type stripeSessionClient interface {
	Retrieve(ctx context.Context, id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// Result reports the outcome of one verification attempt. AlreadyVerified
// distinguishes idempotent short-circuits from fresh writes; callers treat
// both as success.
type Result struct {
	Message         string
	AlreadyVerified bool
	NewEnrollments  int
}

// ServiceParams configures the verification service.
type ServiceParams struct {
	CourseRepo   courseRepository
	ProgramRepo  programRepository
	CartRepo     cartRepository
	StripeClient stripeSessionClient
	Notifier     notifier
	Metrics      *metrics.VerificationMetrics
	Logger       *logger.Logger
}

// Service reconciles completed checkout sessions into enrollment rows. It is
// invoked from two independent paths for every purchase, the post-redirect
// client call and the provider's webhook, so every write path must converge
// on the same rows without duplicating side effects.
type Service struct {
	courseRepo  courseRepository
	programRepo programRepository
	cartRepo    cartRepository
	stripe      stripeSessionClient
	notifier    notifier
	metrics     *metrics.VerificationMetrics
	logg        *logger.Logger
}

// NewService validates dependencies and returns a verification service.
func NewService(params ServiceParams) (*Service, error) {
	if params.CourseRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "course repo required")
	}
	if params.ProgramRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "program repo required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repo required")
	}
	if params.StripeClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stripe client required")
	}
	return &Service{
		courseRepo:  params.CourseRepo,
		programRepo: params.ProgramRepo,
		cartRepo:    params.CartRepo,
		stripe:      params.StripeClient,
		notifier:    params.Notifier,
		metrics:     params.Metrics,
		logg:        params.Logger,
	}, nil
}

// Verify reconciles the checkout session into durable enrollment state. Safe
// to call repeatedly and concurrently for the same session: the first guard
// is a pre-check against rows already tagged with the session ID, the second
// is the database's own uniqueness constraints and status-guarded updates.
func (s *Service) Verify(ctx context.Context, sessionID string) (*Result, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	ctx = s.withSession(ctx, sessionID)
	started := time.Now()

	if result, err := s.precheck(ctx, sessionID); err != nil {
		s.record("unknown", started, metrics.OutcomeFailed)
		return nil, err
	} else if result != nil {
		s.record("unknown", started, metrics.OutcomeAlreadyVerified)
		return result, nil
	}

	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("subscription")
	session, err := s.stripe.Retrieve(ctx, sessionID, params)
	if err != nil {
		s.record("unknown", started, metrics.OutcomeFailed)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retrieve checkout session")
	}

	// The provider is the single source of truth for payment success. Either
	// signal suffices; requiring both would reject async payment methods
	// that complete the session before funds settle.
	if session.Status != stripe.CheckoutSessionStatusComplete &&
		session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		s.record("unknown", started, metrics.OutcomeFailed)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment not completed")
	}

	intent, err := ParsePurchaseMetadata(session.Metadata)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithField(ctx, "metadata", session.Metadata), "unusable checkout session metadata", err)
		}
		s.record("unknown", started, metrics.OutcomeFailed)
		return nil, err
	}

	var result *Result
	switch {
	case intent.Program != nil:
		result, err = s.verifyProgram(ctx, session, *intent.Program)
	case intent.Course != nil:
		result, err = s.verifyCourse(ctx, session, *intent.Course)
	default:
		result, err = s.verifyCart(ctx, session, *intent.Cart)
	}
	if err != nil {
		s.record(intent.Type(), started, metrics.OutcomeFailed)
		return nil, err
	}

	outcome := metrics.OutcomeVerified
	if result.AlreadyVerified {
		outcome = metrics.OutcomeAlreadyVerified
	}
	s.record(intent.Type(), started, outcome)
	return result, nil
}

// precheck looks for rows already tagged with the session ID so repeat
// invocations return without contacting the payment provider. A non-nil
// result means the session was already reconciled.
func (s *Service) precheck(ctx context.Context, sessionID string) (*Result, error) {
	program, err := s.programRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up program enrollment by session")
	}
	if program != nil && program.Status == enums.EnrollmentStatusActive {
		s.info(ctx, "program enrollment already verified")
		return &Result{Message: "already verified", AlreadyVerified: true}, nil
	}

	enrollment, err := s.courseRepo.FindEnrollmentBySessionID(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up course enrollment by session")
	}
	if enrollment != nil {
		s.info(ctx, "course enrollment already verified")
		return &Result{Message: "already verified", AlreadyVerified: true}, nil
	}
	return nil, nil
}

func (s *Service) verifyProgram(ctx context.Context, session *stripe.CheckoutSession, intent ProgramPurchase) (*Result, error) {
	if session.Subscription == nil || session.Subscription.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "subscription details missing from session")
	}

	activated, err := s.programRepo.Activate(ctx, intent.EnrollmentID, intent.UserID, session.Subscription.ID, session.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "activate program enrollment")
	}
	if !activated {
		// Lost the race or the row is not ours. Re-read to tell the two apart.
		existing, err := s.programRepo.FindByID(ctx, intent.EnrollmentID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "re-read program enrollment")
		}
		if existing != nil && existing.UserID == intent.UserID && existing.Status == enums.EnrollmentStatusActive {
			s.info(ctx, "program enrollment already verified")
			return &Result{Message: "already verified", AlreadyVerified: true}, nil
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "program enrollment not eligible for activation")
	}

	s.info(ctx, "program enrollment activated")
	s.notify(ctx, revalidate.PathDashboard)
	return &Result{Message: "program enrollment activated", NewEnrollments: 1}, nil
}

func (s *Service) verifyCourse(ctx context.Context, session *stripe.CheckoutSession, intent CoursePurchase) (*Result, error) {
	price := decimal.NewFromInt(session.AmountTotal).Div(minorUnitFactor)
	enrollment := &models.CourseEnrollment{
		UserID:                  intent.UserID,
		CourseID:                intent.CourseID,
		StripeCheckoutSessionID: session.ID,
		PricePaid:               &price,
	}

	if err := s.courseRepo.CreateEnrollment(ctx, enrollment); err != nil {
		if db.IsUniqueViolation(err, courseEnrollmentUniqueConstraint) {
			s.info(ctx, "course enrollment already verified")
			return &Result{Message: "already verified", AlreadyVerified: true}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create course enrollment")
	}

	s.info(ctx, "course enrollment created")
	s.notify(ctx, revalidate.CoursePath(intent.CourseSlug), revalidate.PathDashboard)
	return &Result{Message: "purchase verified", NewEnrollments: 1}, nil
}

func (s *Service) verifyCart(ctx context.Context, session *stripe.CheckoutSession, intent CartPurchase) (*Result, error) {
	count := int64(len(intent.CourseIDs))
	perCourse := decimal.NewFromInt(session.AmountTotal).
		Div(decimal.NewFromInt(count)).
		Div(minorUnitFactor)

	created := 0
	skipped := 0
	for _, courseID := range intent.CourseIDs {
		price := perCourse
		enrollment := &models.CourseEnrollment{
			UserID:                  intent.UserID,
			CourseID:                courseID,
			StripeCheckoutSessionID: session.ID,
			PricePaid:               &price,
		}
		err := s.courseRepo.CreateEnrollment(ctx, enrollment)
		switch {
		case err == nil:
			created++
		case db.IsUniqueViolation(err, courseEnrollmentUniqueConstraint):
			skipped++
		default:
			// Other per-item failures do not abort the batch; the constraint
			// guard makes a caller retry safe for the rows that failed.
			if s.logg != nil {
				s.logg.Error(s.logg.WithField(ctx, "course_id", courseID.String()), "cart enrollment insert failed", err)
			}
		}
	}

	// Destructive step: only after every insert was at least attempted.
	if err := s.cartRepo.ClearForUser(ctx, intent.UserID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart after checkout")
	}

	if s.logg != nil {
		fields := s.logg.WithFields(ctx, map[string]any{
			"created": created,
			"skipped": skipped,
		})
		s.logg.Info(fields, "cart checkout reconciled")
	}
	s.notify(ctx, revalidate.PathCourses, revalidate.PathDashboard)

	return &Result{
		Message:         fmt.Sprintf("verified %d of %d courses", created, len(intent.CourseIDs)),
		AlreadyVerified: created == 0 && skipped > 0,
		NewEnrollments:  created,
	}, nil
}

func (s *Service) withSession(ctx context.Context, sessionID string) context.Context {
	if s.logg == nil {
		return ctx
	}
	return s.logg.WithCheckoutSession(ctx, sessionID)
}

func (s *Service) info(ctx context.Context, msg string) {
	if s.logg != nil {
		s.logg.Info(ctx, msg)
	}
}

func (s *Service) notify(ctx context.Context, paths ...string) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, paths...)
	}
}

func (s *Service) record(purchaseType string, started time.Time, outcome string) {
	s.metrics.ObserveDuration(purchaseType, time.Since(started))
	s.metrics.IncOutcome(purchaseType, outcome)
}
