package httpx

import "net/http"

// adminRoles are the role strings granting access to the aggregated views.
// "admin" and "supervisor" are legacy aliases still present on older
// accounts.
var adminRoles = map[string]struct{}{
	"admin_user": {},
	"admin":      {},
	"supervisor": {},
}

// RequireAdminRole rejects callers whose role does not grant the admin
// views. Must run after AuthnMiddleware.
func RequireAdminRole() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := adminRoles[RoleFromContext(r.Context())]; !ok {
				WriteJSON(w, http.StatusForbidden, map[string]string{
					"error":  "role_denied",
					"detail": "this area requires an administrator role",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
