package api

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/dittoserve/internal/logger"
	"github.com/marmos91/dittoserve/internal/telemetry"
	"github.com/marmos91/dittoserve/pkg/api/handlers"
	"github.com/marmos91/dittoserve/pkg/static"
)

// NewRouter creates the chi router.
//
// Middleware, outermost first: request ID, real client IP, request
// logging, panic recovery. No request timeout is installed since file
// transfers stream for as long as the client keeps reading.
//
// Routes:
//   - GET /health       liveness probe
//   - GET /health/ready readiness probe
//   - GET, HEAD /*      static files (other methods get 405)
func NewRouter(files *static.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	health := handlers.NewHealthHandler(files)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", health.Liveness)
		r.Get("/ready", health.Readiness)
	})

	if files != nil {
		r.Method(http.MethodGet, "/*", files)
		r.Method(http.MethodHead, "/*", files)
	}

	return r
}

// requestLogger attaches a logger.LogContext and any propagated trace
// context to the request, then logs its completion.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lc := logger.NewLogContext(clientIP(r.RemoteAddr)).
			WithRequest(middleware.GetReqID(r.Context()), r.Method, r.URL.Path)
		ctx := telemetry.ExtractHTTP(r.Context(), r.Header)
		ctx = logger.WithContext(ctx, lc)
		r = r.WithContext(ctx)

		logger.DebugCtx(ctx, "Request started",
			logger.KeyRange, r.Header.Get("Range"),
			logger.KeyUserAgent, r.UserAgent())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logger.InfoCtx(ctx, "Request completed",
			logger.KeyStatus, status,
			logger.KeyBytes, ww.BytesWritten(),
			logger.KeyDuration, logger.Duration(start))
	})
}

// clientIP strips the port from a RemoteAddr. middleware.RealIP may have
// already replaced it with a bare address.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
