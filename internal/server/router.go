// Package server wires the vibedex proxy, demo route, and operational
// endpoints into one chi router.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vibedex/vibedex/internal/config"
	"github.com/vibedex/vibedex/internal/httputil"
	"github.com/vibedex/vibedex/internal/proxy"
)

// HTTPServer wraps proxy HTTP routing state.
type HTTPServer struct {
	cfg      config.Config
	version  string
	commit   string
	build    string
	proxy    *proxy.Handler
	authn    *BearerAuthenticator
	gatherer prometheus.Gatherer
	logger   zerolog.Logger
}

// NewHTTPServer creates the proxy HTTP server. gatherer may be nil when
// metrics are disabled.
func NewHTTPServer(
	cfg config.Config,
	version, commit, buildDate string,
	proxyHandler *proxy.Handler,
	authn *BearerAuthenticator,
	gatherer prometheus.Gatherer,
	logger zerolog.Logger,
) *HTTPServer {
	return &HTTPServer{
		cfg:      cfg,
		version:  version,
		commit:   commit,
		build:    buildDate,
		proxy:    proxyHandler,
		authn:    authn,
		gatherer: gatherer,
		logger:   logger,
	}
}

// Router builds the proxy HTTP router.
func (s *HTTPServer) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "vibedex-proxy")
	})
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(httputil.SecureHeaders)
	r.Use(httputil.NoStore)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.RespondError(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	registerHealthRoutes(r, s.version, s.commit, s.build, s.proxy.Ready)
	if s.cfg.MetricsEnabled && s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Method(http.MethodGet, proxy.Route, s.proxy)
	r.Get(DemoRoute, demoHandler(s.authn))

	return r
}
