// Package recovery converts handler panics into generic 500 responses.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	respond "github.com/kenangan-app/kenangan-server/internal/api/respond"
)

// Middleware intercepts panics from downstream handlers, logs the stack, and
// replies with a generic 500 so one bad request cannot kill the process.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote", r.RemoteAddr).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				respond.WriteInternalError(w, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
