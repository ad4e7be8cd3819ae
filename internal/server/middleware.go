package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/hoverfx/pkg/observability"
)

// requestLogger logs each request and reports it to the HTTP hooks under
// its route pattern.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, dur)

		logf := s.logger.Debug
		if status >= http.StatusInternalServerError {
			logf = s.logger.Warn
		}
		logf("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"dur", dur.Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()))
	})
}

// corsHandler answers preflight requests and sets the allow headers for
// the configured origins.
func (s *Server) corsHandler() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	})
}

// originPatterns converts the allowed origins to the host patterns the
// WebSocket handshake checks.
func (c *Config) originPatterns() []string {
	out := make([]string, 0, len(c.AllowedOrigins))
	for _, o := range c.AllowedOrigins {
		if _, host, ok := strings.Cut(o, "://"); ok {
			o = host
		}
		out = append(out, strings.TrimSuffix(o, "/"))
	}
	return out
}
