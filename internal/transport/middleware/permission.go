package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/idea-portal/internal"
	"github.com/frahmantamala/idea-portal/internal/core/policy"
	"github.com/frahmantamala/idea-portal/internal/transport"
)

// RequireRoles rejects requests whose identity holds none of the given roles.
// It must run after the authentication middleware.
func RequireRoles(logger *slog.Logger, roles ...policy.Role) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := policy.IdentityFromContext(r.Context())
			if id.IsAnonymous() {
				base.HandleError(w, internal.ErrMissingToken)
				return
			}

			for _, role := range roles {
				if id.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.Warn("access denied: role not allowed",
				"user_id", id.UserID,
				"role", id.Role,
				"required_roles", roles,
				"path", r.URL.Path)
			base.HandleError(w, internal.ErrInsufficientRole)
		})
	}
}

// RequireReviewer admits admins and superadmins.
func RequireReviewer(logger *slog.Logger) func(http.Handler) http.Handler {
	return RequireRoles(logger, policy.RoleAdmin, policy.RoleSuperAdmin)
}
