package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/haroldnikoue/storefront-backend/api/responses"
	pkgerrors "github.com/haroldnikoue/storefront-backend/pkg/errors"
	"github.com/haroldnikoue/storefront-backend/pkg/logger"
)

const (
	sessionIDHeader  = "X-Session-Id"
	customerIDHeader = "X-Customer-Id"
)

type sessionCtxKey struct{}
type customerCtxKey struct{}

// SessionContext lifts the caller's identity headers into the request
// context. Both are optional; a malformed customer id is rejected rather
// than silently treated as anonymous.
func SessionContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if sessionID := r.Header.Get(sessionIDHeader); sessionID != "" {
				ctx = context.WithValue(ctx, sessionCtxKey{}, sessionID)
				if logg != nil {
					ctx = logg.WithSessionID(ctx, sessionID)
				}
			}

			if raw := r.Header.Get(customerIDHeader); raw != "" {
				customerID, err := uuid.Parse(raw)
				if err != nil {
					responses.WriteError(ctx, logg, w,
						pkgerrors.New(pkgerrors.CodeValidation, "customer id header must be a valid uuid"))
					return
				}
				ctx = context.WithValue(ctx, customerCtxKey{}, customerID)
				if logg != nil {
					ctx = logg.WithCustomerID(ctx, customerID.String())
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFrom returns the caller's session id, if one was presented.
func SessionIDFrom(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionCtxKey{}).(string)
	return sessionID, ok
}

// CustomerIDFrom returns the caller's customer id, if one was presented.
func CustomerIDFrom(ctx context.Context) (uuid.UUID, bool) {
	customerID, ok := ctx.Value(customerCtxKey{}).(uuid.UUID)
	return customerID, ok
}
