package router

import (
	"context"
	"net/http"
	"time"

	"linkhub/internal/api/v1/handler"
	"linkhub/internal/config"
	"linkhub/internal/metrics"
	"linkhub/internal/middleware"
	"linkhub/internal/pubsub"
	"linkhub/internal/repository"
	"linkhub/internal/service"
	"linkhub/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New wires repositories, services and handlers onto one router. The
// returned cleanup releases the Pub/Sub client.
func New(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) (http.Handler, func(), error) {
	logger.Info().Str("environment", cfg.Environment).Msg("App environment loaded")

	// 1. Avatar storage
	var store storage.ObjectStore
	if cfg.S3Enabled() {
		s3Store, err := storage.NewS3Store(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		store = s3Store
	} else {
		logger.Warn().Msg("S3 not configured, avatars are stored inline")
	}

	// 2. Billing events
	var publisher pubsub.Publisher = pubsub.NoopPublisher{}
	cleanup := func() {}
	if cfg.PubSubEnabled() {
		p, err := pubsub.NewPublisher(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		publisher = p
		cleanup = func() {
			if err := p.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close Pub/Sub client")
			}
		}
	}

	// 3. Validator
	validate := handler.NewValidator()

	// 4. Repositories & services & handlers
	userRepo := repository.NewUserRepo(pool)
	profileRepo := repository.NewProfileRepo(pool)
	linkRepo := repository.NewLinkRepo(pool)
	analyticsRepo := repository.NewAnalyticsRepo(pool)
	subscriberRepo := repository.NewSubscriberRepo(pool)
	subscriptionRepo := repository.NewSubscriptionRepo(pool)

	subscriptionSvc := service.NewSubscriptionService(userRepo, subscriptionRepo, publisher, cfg.PubSubBillingTopic, logger)
	razorpaySvc := service.NewRazorpayService(cfg, service.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret), userRepo, subscriptionSvc, logger)
	stripeSvc := service.NewStripeService(cfg, service.NewStripeGateway(cfg.StripeSecretKey), userRepo, subscriptionSvc, logger)
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, logger)
	userSvc := service.NewUserService(userRepo, razorpaySvc, logger)
	profileSvc := service.NewProfileService(userRepo, profileRepo, linkRepo, logger)
	linkSvc := service.NewLinkService(linkRepo, userRepo, logger)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, linkRepo, userRepo, cfg.PageViewDedupWindow, logger)
	subscriberSvc := service.NewSubscriberService(subscriberRepo, userRepo, profileRepo, logger)
	uploadSvc := service.NewUploadService(userRepo, store, logger)

	authHandler := handler.NewAuthHandler(authSvc, validate, cfg, logger)
	linkHandler := handler.NewLinkHandler(linkSvc, validate, logger)
	profileHandler := handler.NewProfileHandler(profileSvc, analyticsSvc, validate, logger)
	userHandler := handler.NewUserHandler(userSvc, validate, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, logger)
	subscriberHandler := handler.NewSubscriberHandler(subscriberSvc, validate, logger)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionSvc, razorpaySvc, stripeSvc, validate, logger)
	uploadHandler := handler.NewUploadHandler(uploadSvc, logger)

	// 5. Middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)

	chiRouter, api := SetupHumaAPI(cfg, logger,
		metrics.Middleware,
		middleware.LoggerMiddleware(logger),
		c.Handler,
		middleware.SessionMiddleware(cfg.JWTSecret, logger),
	)
	RegisterRoutes(api, authHandler, linkHandler, profileHandler, userHandler, analyticsHandler, subscriberHandler, subscriptionHandler, logger)

	// 6. Raw endpoints: redirects, raw bodies, multipart and CSV
	chiRouter.Get("/api/auth/google", authHandler.GoogleLogin)
	chiRouter.Get("/api/auth/google/callback", authHandler.GoogleCallback)
	chiRouter.Post("/api/razorpay/webhook", subscriptionHandler.RazorpayWebhook)
	chiRouter.Post("/api/stripe/webhook", subscriptionHandler.StripeWebhook)
	chiRouter.With(authMiddleware).Post("/api/upload", uploadHandler.UploadAvatar)
	chiRouter.With(authMiddleware).Get("/api/subscribers/export", subscriberHandler.ExportSubscribers)
	chiRouter.Handle("/metrics", promhttp.Handler())
	chiRouter.Get("/healthz", healthz(pool, logger))

	return chiRouter, cleanup, nil
}

func healthz(pool *pgxpool.Pool, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		w.Header().Set("Content-Type", "application/json")
		if err := pool.Ping(ctx); err != nil {
			logger.Error().Err(err).Msg("Health check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
