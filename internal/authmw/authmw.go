// Package authmw guards the clinical API with a shared bearer token.
package authmw

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/linnemanlabs/go-core/log"
)

const realm = `Bearer realm="caduceus"`

// BearerToken rejects requests whose Authorization header does not carry
// token. An empty token rejects everything. Failures are logged without
// the presented credential.
func BearerToken(token string, logger log.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.Nop()
	}
	expected := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			switch {
			case !ok:
				deny(w, r, logger, "missing or malformed authorization header")
			case len(expected) == 0 || subtle.ConstantTimeCompare([]byte(got), expected) != 1:
				deny(w, r, logger, "invalid token")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, logger log.Logger, reason string) {
	logger.Info(r.Context(), "api request unauthorized", "reason", reason, "path", r.URL.Path)
	w.Header().Set("WWW-Authenticate", realm)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + reason + `"}`))
}
