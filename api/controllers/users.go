package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/accounts-service/api/middleware"
	"github.com/angelmondragon/accounts-service/api/responses"
	"github.com/angelmondragon/accounts-service/internal/users"
	pkgerrors "github.com/angelmondragon/accounts-service/pkg/errors"
	"github.com/angelmondragon/accounts-service/pkg/logger"
)

// GetUser returns the public view of the user named by the {id} path segment.
// It must sit behind middleware.Auth.
func GetUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		callerID := middleware.UserIDFromContext(r.Context())
		user, err := svc.GetByID(r.Context(), callerID, chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}
