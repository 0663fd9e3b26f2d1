package middleware

import (
	"net/http"
	"time"
)

// Timeout bounds handler run time. Handlers that overrun have their context
// cancelled and the client receives 503 with a JSON error body.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.TimeoutHandler(next, timeout, `{"error":"request timeout"}`)
	}
}
