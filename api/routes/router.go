package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hndlyt/releaseboard-backend/api/controllers"
	"github.com/hndlyt/releaseboard-backend/api/middleware"
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
	"github.com/hndlyt/releaseboard-backend/pkg/auth/session"
	"github.com/hndlyt/releaseboard-backend/pkg/config"
	"github.com/hndlyt/releaseboard-backend/pkg/enums"
	"github.com/hndlyt/releaseboard-backend/pkg/logger"
)

// Deps collects everything the router wires into handlers.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	Session session.AccessSessionChecker

	Readiness map[string]controllers.Pinger

	Auth          auth.Service
	Releases      releases.Service
	Submissions   submissions.Service
	Calendar      calendar.Service
	Subscriptions subscriptions.Service
	Artworks      artworks.Service
	Analytics     analytics.Service
	Notifications notifications.Service
	Admin         admin.Service
	Hub           *live.Hub
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AdminAuthLogin(deps.Auth, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Session, logg))

		r.Route("/v1/releases", func(r chi.Router) {
			r.Get("/", controllers.ReleaseList(deps.Releases, logg))
			r.Post("/", controllers.ReleaseCreate(deps.Releases, logg))
			r.Get("/watch", controllers.WatchReleases(deps.Hub, deps.Releases, logg))
			r.Get("/{releaseId}", controllers.ReleaseGet(deps.Releases, logg))
			r.Put("/{releaseId}", controllers.ReleaseUpdate(deps.Releases, logg))
			r.Delete("/{releaseId}", controllers.ReleaseDelete(deps.Releases, logg))
		})

		r.Route("/v1/submissions", func(r chi.Router) {
			r.Get("/", controllers.SubmissionList(deps.Submissions, logg))
			r.Post("/", controllers.SubmissionCreate(deps.Submissions, logg))
			r.Get("/watch", controllers.WatchSubmissions(deps.Hub, deps.Submissions, logg))
			r.Get("/{submissionId}", controllers.SubmissionGet(deps.Submissions, logg))
			r.Put("/{submissionId}", controllers.SubmissionUpdate(deps.Submissions, logg))
			r.Delete("/{submissionId}", controllers.SubmissionDelete(deps.Submissions, logg))
		})

		r.Route("/v1/calendar", func(r chi.Router) {
			r.Use(middleware.RequireTier(deps.Subscriptions, enums.TierBasic, logg))
			r.Get("/day/{date}", controllers.CalendarDay(deps.Calendar, logg))
			r.Get("/{month}", controllers.CalendarMonth(deps.Calendar, logg))
		})

		r.Route("/v1/subscriptions", func(r chi.Router) {
			r.Get("/me", controllers.SubscriptionMe(deps.Subscriptions, logg))
			r.Post("/activate", controllers.SubscriptionActivate(deps.Subscriptions, logg))
		})

		r.Post("/v1/artworks/presign", controllers.ArtworkPresign(deps.Artworks, logg))

		r.Route("/v1/analytics", func(r chi.Router) {
			r.Use(middleware.RequireTier(deps.Subscriptions, enums.TierPro, logg))
			r.Post("/events", controllers.AnalyticsTrack(deps.Analytics, logg))
			r.Get("/events", controllers.AnalyticsQuery(deps.Analytics, logg))
			r.Get("/summary", controllers.AnalyticsSummary(deps.Analytics, logg))
		})

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/preferences", controllers.NotificationPreferencesGet(deps.Notifications, logg))
			r.Put("/preferences", controllers.NotificationPreferencesUpdate(deps.Notifications, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Session, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Get("/ping", controllers.AdminPing())
		r.Route("/v1", func(r chi.Router) {
			r.Get("/overview", controllers.AdminOverview(deps.Admin, logg))
			r.Get("/revenue", controllers.AdminRevenue(deps.Admin, logg))
			r.Get("/users", controllers.AdminUsers(deps.Admin, logg))
		})
	})

	return r
}
