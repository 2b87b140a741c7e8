package auth

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Middleware authenticates every request with a. Rejected requests get a 401
// JSON body; internal authenticator errors get a 500. A nil a attaches the
// anonymous identity.
func Middleware(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a == nil {
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), Anonymous())))
				return
			}

			req := NewRequest(r)
			if !a.Supports(req) {
				unauthorized(w, ErrMissingCredentials)
				return
			}

			result, err := a.Authenticate(r.Context(), req)
			if err != nil {
				writeError(w, http.StatusInternalServerError, errors.New("auth: authentication unavailable"))
				return
			}
			if !result.Authenticated {
				unauthorized(w, result.Error)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), result.Identity)))
		})
	}
}

// RequireScope rejects requests whose identity lacks scope with 403.
// Anonymous identities pass, since they only exist when auth is disabled.
func RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFromContext(r.Context())
			switch {
			case id == nil:
				unauthorized(w, ErrMissingCredentials)
			case id.Method == AuthMethodAnonymous || id.HasScope(scope):
				next.ServeHTTP(w, r)
			default:
				writeError(w, http.StatusForbidden, ErrForbidden)
			}
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	if err == nil {
		err = ErrInvalidCredentials
	}
	w.Header().Set("WWW-Authenticate", `Bearer realm="breedfetch"`)
	writeError(w, http.StatusUnauthorized, err)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
