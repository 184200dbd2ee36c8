// Package storefront wires the catalog, compare tray, and cart into one
// HTTP surface behind shared middleware.
package storefront

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ducktaek/kitaekshoppingmall/internal/cart"
	"github.com/ducktaek/kitaekshoppingmall/internal/catalog"
	"github.com/ducktaek/kitaekshoppingmall/internal/compare"
	"github.com/ducktaek/kitaekshoppingmall/internal/session"
	"github.com/ducktaek/kitaekshoppingmall/pkg/kit"
)

type Deps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	Store    *cart.Store
	Sessions *session.TokenMaker

	MetricsEnabled bool
	MetricsToken   string

	RateLimit     int
	RateWindowSec int
}

func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 1*time.Second)
		defer cancel()

		if err := deps.Store.Ping(ctx); err != nil {
			if deps.Log != nil {
				deps.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, req, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	catalogSrv := &catalog.Server{Log: deps.Log}
	compareSrv := &compare.Server{Sets: compare.NewSets(), Log: deps.Log}
	cartSrv := &cart.Server{Store: deps.Store, Log: deps.Log}

	r.Group(func(gr chi.Router) {
		gr.Use(session.Middleware(deps.Sessions))

		if deps.RateLimit > 0 {
			limiter := kit.NewIPRateLimiter(deps.RateLimit, deps.RateWindowSec)
			gr.Use(limitMutations(limiter))
		}

		gr.Mount("/products", catalogSrv.Routes())
		gr.Mount("/compare", compareSrv.Routes())
		gr.Mount("/cart", cartSrv.Routes())
		gr.Post("/checkout", cartSrv.Checkout)
	})

	return r
}

// limitMutations rate-limits writes only; browsing stays unthrottled.
func limitMutations(l *kit.IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := l.Middleware(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				limited.ServeHTTP(w, r)
			}
		})
	}
}

func setupMiddleware(r *chi.Mux, deps Deps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps Deps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}
