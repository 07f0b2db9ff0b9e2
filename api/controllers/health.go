package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/hndlyt/releaseboard-backend/api/responses"
	"github.com/hndlyt/releaseboard-backend/pkg/config"
	"github.com/hndlyt/releaseboard-backend/pkg/logger"
)

const readinessTimeout = 5 * time.Second

// Pinger is the readiness contract every hard dependency satisfies.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Releaseboard-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every hard dependency and reports per-dependency
// status. Any failure flips the response to 503.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		w.Header().Set("X-Releaseboard-Env", cfg.App.Env)

		statuses := map[string]string{}
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				healthy = false
				statuses[name] = "unreachable"
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "readiness probe failed", err)
				}
				continue
			}
			statuses[name] = "ok"
		}

		status := http.StatusOK
		state := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status":       state,
			"dependencies": statuses,
		})
	}
}

// ReadinessDeps assembles the named dependency set HealthReady probes.
func ReadinessDeps(db Pinger, redis Pinger, gcs Pinger, pubsub Pinger) map[string]Pinger {
	deps := map[string]Pinger{}
	if db != nil {
		deps["postgres"] = db
	}
	if redis != nil {
		deps["redis"] = redis
	}
	if gcs != nil {
		deps["gcs"] = gcs
	}
	if pubsub != nil {
		deps["pubsub"] = pubsub
	}
	return deps
}
