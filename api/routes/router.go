package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsa498/devflow/api/controllers"
	webhookcontrollers "github.com/jsa498/devflow/api/controllers/webhooks"
	"github.com/jsa498/devflow/api/middleware"
	"github.com/jsa498/devflow/internal/cart"
	checkoutsvc "github.com/jsa498/devflow/internal/checkout"
	"github.com/jsa498/devflow/internal/children"
	"github.com/jsa498/devflow/internal/courses"
	"github.com/jsa498/devflow/internal/programs"
	"github.com/jsa498/devflow/internal/purchases"
	stripewebhook "github.com/jsa498/devflow/internal/webhooks/stripe"
	"github.com/jsa498/devflow/pkg/config"
	"github.com/jsa498/devflow/pkg/db"
	"github.com/jsa498/devflow/pkg/logger"
	"github.com/jsa498/devflow/pkg/redis"
	"github.com/jsa498/devflow/pkg/stripe"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient redis.Pinger,
	courseRepo courses.Repository,
	cartRepo cart.Repository,
	programRepo programs.Repository,
	checkoutService *checkoutsvc.Service,
	purchaseService *purchases.Service,
	programService *programs.Service,
	childrenService *children.Service,
	stripeClient *stripe.Client,
	stripeWebhookService *stripewebhook.Service,
	stripeWebhookGuard *stripewebhook.IdempotencyGuard,
	metricsGatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	if metricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(stripeWebhookService, stripeClient, stripeWebhookGuard, logg))
	})

	r.Route("/api/v1/courses", func(r chi.Router) {
		r.Get("/", controllers.ListCourses(courseRepo, logg))
		r.Get("/{slug}", controllers.GetCourseBySlug(courseRepo, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Auth, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.ListCart(cartRepo, logg))
			r.Post("/items", controllers.AddCartItem(cartRepo, logg))
			r.Delete("/items/{courseId}", controllers.RemoveCartItem(cartRepo, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/course", controllers.CreateCourseCheckout(checkoutService, logg))
			r.Post("/cart", controllers.CreateCartCheckout(checkoutService, logg))
		})

		r.Post("/purchases/verify", controllers.VerifyPurchase(purchaseService, logg))
		r.Post("/programs/checkout", controllers.CreateProgramCheckout(programService, logg))

		r.Route("/children", func(r chi.Router) {
			r.Post("/", controllers.RegisterChildren(childrenService, logg))
		})
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/enrollments", controllers.DashboardEnrollments(courseRepo, programRepo, logg))
			r.Get("/upcoming-classes", controllers.UpcomingClasses(childrenService, logg))
		})
	})

	return r
}
