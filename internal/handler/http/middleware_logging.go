package http

import (
	"net/http"
	"time"

	"github.com/sprintboard/sprintboard/internal/logger"
)

// withLogging writes one access log line per request. For a websocket the
// line is written when the connection ends, so duration covers the whole
// session.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()
		lw := &responseWriter{
			ResponseWriter: w,
		}

		next.ServeHTTP(lw, r)

		log.Info().
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Int("status", lw.status).
			Bool("upgraded", lw.hijacked).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}
