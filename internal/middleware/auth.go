package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"signpost/internal/auth"
	"signpost/internal/httputil"
)

// RequireFunc decides whether a request must carry a valid token.
type RequireFunc func(r *http.Request) bool

// WritesOnly requires authentication for state-changing methods, except for
// the paths listed in public.
func WritesOnly(public ...string) RequireFunc {
	return func(r *http.Request) bool {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return false
		}
		for _, p := range public {
			if r.URL.Path == p {
				return false
			}
		}
		return true
	}
}

// Auth verifies the bearer token on requests selected by require and stores
// the caller in the request context. A token sent on other requests is
// still verified, so handlers can see who is calling.
func Auth(verifier auth.JWTVerifier, require RequireFunc, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			required := require(r)

			if !ok {
				if required {
					w.Header().Set("WWW-Authenticate", `Bearer`)
					httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "method", r.Method, "error", err)
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			r = httputil.WithUser(r, httputil.User{ID: claims.GetUserID(), Email: claims.Email})
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
