package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/questboard/internal/auth"
)

// ParentPINHeader carries the parent PIN on parent-app requests.
const ParentPINHeader = "X-Parent-PIN"

// PINVerifier checks a parent PIN.
type PINVerifier interface {
	Verify(pin string) bool
}

// RequireParent rejects requests without a valid parent PIN and marks the
// rest as parent access.
func RequireParent(gate PINVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pin := r.Header.Get(ParentPINHeader)
			if pin == "" || !gate.Verify(pin) {
				writeError(w, http.StatusUnauthorized, "parent PIN required")
				return
			}
			ctx := auth.WithAccess(r.Context(), auth.Access{Parent: true, RemoteIP: RealIP(r)})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
