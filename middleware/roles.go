package middleware

import (
	"log"
	"net/http"

	"avantages-backend/constants"
	"avantages-backend/utils"
)

// RequireRole vérifie que le rôle porté par le token correspond au routeur.
// Le rôle est lu depuis les claims (mis par le middleware Auth), pas depuis
// la base : un token signé fait foi.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r.Context())
			if claims == nil {
				utils.RespondError(w, http.StatusUnauthorized, constants.CodeUnauthorized, constants.ErrNotAuthenticated)
				return
			}

			if claims.Role != role {
				log.Printf("⚠️  Accès %s refusé pour sub=%s (role=%s)", role, claims.Subject, claims.Role)
				utils.RespondError(w, http.StatusForbidden, constants.CodeForbidden, constants.ErrAccessDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
