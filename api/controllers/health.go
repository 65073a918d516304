package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/haroldnikoue/storefront-backend/api/responses"
	"github.com/haroldnikoue/storefront-backend/pkg/config"
	"github.com/haroldnikoue/storefront-backend/pkg/db"
	"github.com/haroldnikoue/storefront-backend/pkg/logger"
	"github.com/haroldnikoue/storefront-backend/pkg/pubsub"
	"github.com/haroldnikoue/storefront-backend/pkg/redis"
)

const readinessTimeout = 5 * time.Second

// HealthLive reports process liveness only.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing dependency and aggregates failures, so one
// probe response names everything that is down rather than the first hit. A
// nil pub/sub client is reported as skipped; events degrade to log-only in
// that mode and should not fail readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, pubsubClient *pubsub.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		var combined error
		statuses := map[string]string{}

		check := func(name string, ping func(context.Context) error) {
			if err := ping(ctx); err != nil {
				statuses[name] = "down"
				combined = multierr.Append(combined, err)
				return
			}
			statuses[name] = "ok"
		}

		if dbP != nil {
			check("database", dbP.Ping)
		}
		if redisP != nil {
			check("redis", redisP.Ping)
		}
		if pubsubClient != nil {
			check("pubsub", pubsubClient.Ping)
		} else {
			statuses["pubsub"] = "skipped"
		}

		if combined != nil {
			if logg != nil {
				logg.Error(ctx, "readiness check failed", combined)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			if err := json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"status":  statuses,
			}); err != nil && logg != nil {
				logg.Error(ctx, "failed to encode readiness response", err)
			}
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": statuses})
	}
}
