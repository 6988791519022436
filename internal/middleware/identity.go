package middleware

import (
	"net/http"

	"github.com/cedarelevator/commerce/internal/domain"
)

const (
	// IdentityHeader carries the authenticated user ID, set by the
	// upstream gateway after it has verified the session token. The
	// commerce core trusts this header; the gateway strips any
	// client-supplied value.
	IdentityHeader = "X-User-ID"

	// RoleHeader carries the caller's role ("admin" for back-office
	// staff), asserted by the gateway under the same trust model.
	RoleHeader = "X-User-Role"
)

// WithIdentity resolves the caller's identity from the gateway headers and
// stores it in the request context. Requests without the headers proceed as
// guests; handlers decide per operation whether authentication is required.
func WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := domain.Identity{
			UserID: r.Header.Get(IdentityHeader),
			Role:   r.Header.Get(RoleHeader),
		}
		ctx := domain.NewContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
