package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsa498/devflow/api/routes"
	"github.com/jsa498/devflow/internal/cart"
	"github.com/jsa498/devflow/internal/checkout"
	"github.com/jsa498/devflow/internal/children"
	"github.com/jsa498/devflow/internal/courses"
	"github.com/jsa498/devflow/internal/programs"
	"github.com/jsa498/devflow/internal/purchases"
	"github.com/jsa498/devflow/internal/revalidate"
	"github.com/jsa498/devflow/internal/schedule"
	stripewebhook "github.com/jsa498/devflow/internal/webhooks/stripe"
	"github.com/jsa498/devflow/pkg/config"
	"github.com/jsa498/devflow/pkg/db"
	"github.com/jsa498/devflow/pkg/logger"
	"github.com/jsa498/devflow/pkg/metrics"
	"github.com/jsa498/devflow/pkg/migrate"
	"github.com/jsa498/devflow/pkg/pubsub"
	"github.com/jsa498/devflow/pkg/redis"
	"github.com/jsa498/devflow/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	notifier := revalidate.NewNotifier(nil, logg)
	if cfg.FeatureFlags.RevalidateEnabled && cfg.GCP.ProjectID != "" {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		notifier = revalidate.NewNotifier(pubsubClient.RevalidatePublisher(), logg)
	}

	registry := prometheus.NewRegistry()
	verificationMetrics := metrics.NewVerificationMetrics(registry)

	courseRepo := courses.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	programRepo := programs.NewRepository(dbClient.DB())
	childrenRepo := children.NewRepository(dbClient.DB())

	checkoutStripe := checkout.NewStripeClient(stripeClient)

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		CourseRepo:   courseRepo,
		CartRepo:     cartRepo,
		StripeClient: checkoutStripe,
		Site:         cfg.Site,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	purchaseService, err := purchases.NewService(purchases.ServiceParams{
		CourseRepo:   courseRepo,
		ProgramRepo:  programRepo,
		CartRepo:     cartRepo,
		StripeClient: checkoutStripe,
		Notifier:     notifier,
		Metrics:      verificationMetrics,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create purchase service", err)
		os.Exit(1)
	}

	programService, err := programs.NewService(programs.ServiceParams{
		Repo:         programRepo,
		StripeClient: checkoutStripe,
		Prices:       stripeClient,
		Site:         cfg.Site,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create program service", err)
		os.Exit(1)
	}

	childrenService, err := children.NewService(children.ServiceParams{
		Repo:              childrenRepo,
		Programs:          programRepo,
		TransactionRunner: dbClient,
		Projector:         schedule.NewProjector(logg),
		Logger:            logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create children service", err)
		os.Exit(1)
	}

	webhookService, err := stripewebhook.NewService(purchaseService)
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.FeatureFlags.WebhookGuardTTL, "stripe-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe webhook guard", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":        cfg.App.Env,
		"addr":       addr,
		"stripe_env": stripeClient.Environment(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			courseRepo,
			cartRepo,
			programRepo,
			checkoutService,
			purchaseService,
			programService,
			childrenService,
			stripeClient,
			webhookService,
			webhookGuard,
			registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
