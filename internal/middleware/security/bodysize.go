package security

import (
	"net/http"
)

// MaxBodySizeMiddleware returns middleware that limits the request body
// size. The limit is specified in kilobytes; claim requests are tiny JSON
// objects, so the cap can be aggressive.
func MaxBodySizeMiddleware(maxSizeKB int) func(http.Handler) http.Handler {
	maxBytes := int64(maxSizeKB) * 1024

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
