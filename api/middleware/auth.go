package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/accounts-service/api/responses"
	pkgerrors "github.com/angelmondragon/accounts-service/pkg/errors"
	"github.com/angelmondragon/accounts-service/pkg/logger"
)

const (
	rejectMissingHeader = "missing_header"
	rejectInvalidToken  = "invalid_token"
)

type tokenVerifier interface {
	Verify(token string) (string, error)
}

type guardMetrics interface {
	IncGuardRejection(reason string)
}

// Auth verifies the bearer token on protected routes and seeds the request
// context with the authenticated user id. A missing header is rejected with
// ACCESS_DENIED before the handler runs; any verification failure is
// INVALID_TOKEN.
func Auth(verifier tokenVerifier, rejections guardMetrics, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				reject(rejections, rejectMissingHeader)
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeAccessDenied, "Access Denied"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				reject(rejections, rejectInvalidToken)
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInvalidToken, "Invalid Token"))
				return
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				reject(rejections, rejectInvalidToken)
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInvalidToken, err, "Invalid Token"))
				return
			}

			ctx := WithUserID(r.Context(), userID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func reject(rejections guardMetrics, reason string) {
	if rejections != nil {
		rejections.IncGuardRejection(reason)
	}
}
