package controllers

import (
	"net/http"

	"github.com/payhub-br/payhub-backend/api/responses"
	"github.com/payhub-br/payhub-backend/internal/ledger"
	"github.com/payhub-br/payhub-backend/pkg/config"
	pkgerrors "github.com/payhub-br/payhub-backend/pkg/errors"
	"github.com/payhub-br/payhub-backend/pkg/logger"
	pkgredis "github.com/payhub-br/payhub-backend/pkg/redis"
)

func Health(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Payhub-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{
			"status":  "ok",
			"service": "PAYHUB",
			"version": "mvp",
		})
	}
}

// HealthReady reports whether the gateway can settle right now: the ledger
// node must answer, and redis must answer when it is configured.
func HealthReady(cfg *config.Config, logg *logger.Logger, client ledger.Client, cache pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-Payhub-Env", cfg.App.Env)

		if client == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "ledger client not configured"))
			return
		}
		if _, err := client.ServerInfo(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ledger node unreachable"))
			return
		}
		checks := map[string]string{"ledger": "ok"}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
			checks["redis"] = "ok"
		}
		responses.WriteSuccess(w, map[string]any{
			"status": "ready",
			"checks": checks,
		})
	}
}
