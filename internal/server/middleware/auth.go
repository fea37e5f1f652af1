package middleware

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
)

// APIKeyHeader carries the static key that guards the API when one is
// configured. The repair and verify routes mutate stored markets, so the
// whole surface sits behind the same key.
const APIKeyHeader = "X-API-Key"

// APIKey returns middleware enforcing a static key in the APIKeyHeader
// header. An empty configured key disables the check entirely.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			got := strings.TrimSpace(r.Header.Get(APIKeyHeader))
			switch {
			case got == "":
				denyUnauthorized(w, "missing api key")
			case subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1:
				denyUnauthorized(w, "invalid api key")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func denyUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"error":%q}`, msg)
}
