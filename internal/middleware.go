package internal

import (
	"crypto/subtle"
	"mime"
	"net/http"

	"supplier-inventory-api/internal/apperror"
)

// requireJSON rejects mutating requests whose Content-Type is not
// application/json with 415, before any body is read.
func requireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			writeError(w, apperror.UnsupportedMediaType("application/json"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAPIKey checks the X-Api-Key header against the configured value on
// security-sensitive endpoints. An empty configured key disables the check.
func requireAPIKey(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey != "" {
				got := r.Header.Get("X-Api-Key")
				if subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
					writeError(w, apperror.Unauthorized())
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
