package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/hndlyt/releaseboard-backend/api/controllers"
	"github.com/hndlyt/releaseboard-backend/api/routes"
	"github.com/hndlyt/releaseboard-backend/internal/admin"
	"github.com/hndlyt/releaseboard-backend/internal/analytics"
	"github.com/hndlyt/releaseboard-backend/internal/artworks"
	"github.com/hndlyt/releaseboard-backend/internal/auth"
	"github.com/hndlyt/releaseboard-backend/internal/calendar"
	"github.com/hndlyt/releaseboard-backend/internal/live"
	"github.com/hndlyt/releaseboard-backend/internal/notifications"
	"github.com/hndlyt/releaseboard-backend/internal/releases"
	"github.com/hndlyt/releaseboard-backend/internal/submissions"
	"github.com/hndlyt/releaseboard-backend/internal/subscriptions"
	"github.com/hndlyt/releaseboard-backend/internal/users"
	"github.com/hndlyt/releaseboard-backend/pkg/auth/session"
	"github.com/hndlyt/releaseboard-backend/pkg/config"
	"github.com/hndlyt/releaseboard-backend/pkg/db"
	"github.com/hndlyt/releaseboard-backend/pkg/logger"
	"github.com/hndlyt/releaseboard-backend/pkg/migrate"
	"github.com/hndlyt/releaseboard-backend/pkg/pubsub"
	"github.com/hndlyt/releaseboard-backend/pkg/redis"
	"github.com/hndlyt/releaseboard-backend/pkg/storage/gcs"
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

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gcs", err)
		os.Exit(1)
	}
	defer func() {
		if err := gcsClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing gcs", err)
		}
	}()

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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	releasesRepo := releases.NewRepository(dbClient.DB())
	submissionsRepo := submissions.NewRepository(dbClient.DB())
	subscriptionsRepo := subscriptions.NewRepository(dbClient.DB())
	analyticsRepo := analytics.NewRepository(dbClient.DB())
	notificationsRepo := notifications.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		RateLimiter:    redisClient,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		RateLimits:     cfg.AuthRateLimit,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	gumroadClient, err := subscriptions.NewGumroadClient(cfg.Gumroad)
	if err != nil {
		logg.Error(context.Background(), "failed to create license verifier", err)
		os.Exit(1)
	}

	subscriptionsService, err := subscriptions.NewService(subscriptions.ServiceParams{
		Repo:              subscriptionsRepo,
		Verifier:          gumroadClient,
		Releases:          releasesRepo,
		Submissions:       submissionsRepo,
		TransactionRunner: dbClient,
		Quota:             cfg.Quota,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create subscriptions service", err)
		os.Exit(1)
	}

	hub := live.NewHub()

	releasesService, err := releases.NewService(releasesRepo, subscriptionsService, hub)
	if err != nil {
		logg.Error(context.Background(), "failed to create releases service", err)
		os.Exit(1)
	}

	submissionsService, err := submissions.NewService(submissionsRepo, subscriptionsService, hub)
	if err != nil {
		logg.Error(context.Background(), "failed to create submissions service", err)
		os.Exit(1)
	}

	calendarService, err := calendar.NewService(releasesRepo, submissionsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create calendar service", err)
		os.Exit(1)
	}

	artworksService, err := artworks.NewService(gcsClient, cfg.GCS, cfg.Artwork)
	if err != nil {
		logg.Error(context.Background(), "failed to create artworks service", err)
		os.Exit(1)
	}

	analyticsPublisher, err := analytics.NewTopicPublisher(pubsubClient.AnalyticsPublisher())
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics publisher", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(analyticsPublisher, analyticsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	adminService, err := admin.NewService(admin.ServiceParams{
		Users:         usersRepo,
		Subscriptions: subscriptionsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			Session:       sessionManager,
			Readiness:     controllers.ReadinessDeps(dbClient, redisClient, gcsClient, pubsubClient),
			Auth:          authService,
			Releases:      releasesService,
			Submissions:   submissionsService,
			Calendar:      calendarService,
			Subscriptions: subscriptionsService,
			Artworks:      artworksService,
			Analytics:     analyticsService,
			Notifications: notificationsService,
			Admin:         adminService,
			Hub:           hub,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
