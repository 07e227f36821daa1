// Package api exposes a project over HTTP as JSON.
package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/proforma/internal/project"
	"github.com/sells-group/proforma/internal/report"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proforma_http_requests_total",
		Help: "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "proforma_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// Config tunes the HTTP surface.
type Config struct {
	CORSOrigins []string
	// RateLimit is requests per second across all clients. Zero disables it.
	RateLimit float64
	RateBurst int
}

// Server serializes every request against a single project. The project is
// not safe for concurrent use, so reads take the same lock as writes.
type Server struct {
	mu      sync.Mutex
	project *project.Project
	sink    report.Sink
	cfg     Config
	limiter *rate.Limiter
	now     func() time.Time
}

// New returns a Server. sink may be nil, which disables /export.
func New(p *project.Project, sink report.Sink, cfg Config) *Server {
	s := &Server{project: p, sink: sink, cfg: cfg, now: time.Now}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = int(cfg.RateLimit) + 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)
	if len(s.cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.rateLimit)

		r.Get("/summary", s.locked(s.getSummary))
		r.Post("/export", s.locked(s.postExport))

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.locked(s.listTemplates))
			r.Post("/", s.locked(s.createTemplate))
			r.Post("/import", s.locked(s.importTemplates))
			r.Put("/{id}", s.locked(s.replaceTemplate))
			r.Delete("/{id}", s.locked(s.deleteTemplate))
		})

		r.Route("/floors", func(r chi.Router) {
			r.Get("/", s.locked(s.listFloors))
			r.Post("/", s.locked(s.createFloors))
			r.Post("/bulk", s.locked(s.bulkEditFloors))
			r.Post("/remove", s.locked(s.removeFloors))
			r.Route("/{number}", func(r chi.Router) {
				r.Get("/", s.locked(s.getFloor))
				r.Patch("/", s.locked(s.updateFloor))
				r.Delete("/", s.locked(s.deleteFloor))
				r.Post("/copy", s.locked(s.copyFloor))
				r.Post("/reorder", s.locked(s.reorderFloor))
				r.Post("/apply-template", s.locked(s.applyTemplate))
				r.Post("/spaces", s.locked(s.createSpace))
				r.Patch("/spaces/{spaceID}", s.locked(s.updateSpace))
				r.Delete("/spaces/{spaceID}", s.locked(s.deleteSpace))
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.locked(s.listCategories))
			r.Post("/", s.locked(s.createCategory))
			r.Post("/undo", s.locked(s.undoRemoveCategory))
			r.Delete("/{name}", s.locked(s.deleteCategory))
		})

		r.Route("/unit-types", func(r chi.Router) {
			r.Get("/", s.locked(s.listUnitTypes))
			r.Post("/", s.locked(s.createUnitType))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.locked(s.getUnitType))
				r.Patch("/", s.locked(s.updateUnitType))
				r.Delete("/", s.locked(s.deleteUnitType))
				r.Post("/suggest", s.locked(s.suggestAllocations))
				r.Post("/suggestions", s.locked(s.commitSuggestions))
			})
		})

		r.Route("/allocations", func(r chi.Router) {
			r.Get("/", s.locked(s.listAllocations))
			r.Post("/", s.locked(s.createAllocation))
			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", s.locked(s.updateAllocation))
				r.Post("/resize", s.locked(s.resizeAllocation))
				r.Delete("/", s.locked(s.deleteAllocation))
			})
		})
	})
	return r
}

func (s *Server) locked(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		h(w, r)
	}
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		requestDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())

		zap.L().Debug("api: request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
