package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/projecthelena/legacyapp/internal/config"
	_ "github.com/projecthelena/legacyapp/internal/docs"
	"github.com/projecthelena/legacyapp/internal/logging"
	"github.com/projecthelena/legacyapp/internal/status"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/time/rate"
)

type Router struct {
	*chi.Mux
	limiter *IPRateLimiter
}

// SecureHeaders returns middleware that adds security headers, including HSTS when the
// deployment terminates TLS in front of the service.
func SecureHeaders(hsts bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if hsts {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NewRouter registers every route once. The returned router must be closed to stop the
// rate limiter's cleanup loop.
func NewRouter(cfg *config.Config, clock status.Clock, logger *log.Logger) *Router {
	if logger == nil {
		logger = logging.New("http")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	// Only trust X-Forwarded-For when a reverse proxy sits in front of us, otherwise
	// clients could pick their own rate limit bucket.
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}

	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)
	r.Use(SecureHeaders(cfg.HSTS))

	router := &Router{
		Mux: r,
	}

	statusH := NewStatusHandler(clock, logger)

	// Orchestrator probes are never rate limited.
	r.Get("/health", Health)

	r.Group(func(root chi.Router) {
		if cfg.RateLimit > 0 {
			router.limiter = NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
			root.Use(RateLimitMiddleware(router.limiter))
		}
		root.Get("/", statusH.Root)
	})

	if cfg.DocsEnabled {
		r.Get("/docs/*", httpSwagger.Handler(
			httpSwagger.URL("/docs/doc.json"),
		))
	}

	return router
}

// Close releases background resources held by the router.
func (rt *Router) Close() {
	if rt.limiter != nil {
		rt.limiter.Stop()
	}
}

// writeJSON writes the encoded payload without a trailing newline so bodies compare byte for byte.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
