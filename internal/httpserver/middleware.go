package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/skillcoder/coreportal/internal/logic/authz"
	"github.com/skillcoder/coreportal/internal/logic/operations"
)

type roleCtxKey struct{}

// identify resolves the caller's role and user from request headers, falling back
// to the configured defaults, and stores them in the request context.
func (a *API) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(headerRole)
		if raw == "" {
			raw = string(a.defaultRole)
		}

		role, err := authz.ParseRole(raw)
		if err != nil {
			a.fail(w, r, err)

			return
		}

		user := strings.TrimSpace(r.Header.Get(headerUser))
		if user == "" {
			user = a.defaultUser
		}

		ctx := context.WithValue(r.Context(), roleCtxKey{}, role)
		ctx = operations.WithUser(ctx, user)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// require rejects requests whose role lacks capability.
func (a *API) require(capability authz.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			role, _ := ctx.Value(roleCtxKey{}).(authz.Role)

			if err := a.policy.Check(role, capability); err != nil {
				a.logger.InfoContext(ctx, "request denied",
					"traceID", middleware.GetReqID(ctx),
					"role", role,
					"user", operations.UserFrom(ctx),
					"capability", capability,
				)
				a.fail(w, r, err)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
