package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/accounts-service/api/responses"
	pkgerrors "github.com/angelmondragon/accounts-service/pkg/errors"
	"github.com/angelmondragon/accounts-service/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is satisfied by the user stores and the redis client.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency and answers 503 naming the ones that
// failed. Nil pingers are skipped.
func HealthReady(deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		failed := map[string]string{}
		var firstErr error
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				failed[name] = "unavailable"
				if firstErr == nil {
					firstErr = err
				}
			}
		}

		if len(failed) > 0 {
			err := pkgerrors.Wrap(pkgerrors.CodeDependency, firstErr, "dependency unavailable").WithDetails(failed)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
