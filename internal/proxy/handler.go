// Package proxy forwards GET requests to a configured upstream API, injecting
// a bearer credential the caller never sees, and normalizes the response.
package proxy

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vibedex/vibedex/internal/audit"
	"github.com/vibedex/vibedex/internal/httputil"
)

// Route is the path the proxy is mounted on. Paths targeting it are refused.
const Route = "/api/proxy"

const (
	msgMissingBaseURL = "Proxy server is missing PROXY_API_BASE_URL."
	msgMissingKey     = "Missing PROXY_API_KEY. Add it to .env and restart."
	msgMissingPath    = `Missing required "path" query parameter.`
	msgRecursive      = "Refusing to proxy to /api/proxy (recursive)."
	msgUnreachable    = "Unable to reach upstream API."
	msgUpstreamFailed = "Upstream request failed."
)

var (
	// ErrBaseURLMissing indicates no upstream base URL is configured.
	ErrBaseURLMissing = errors.New("upstream base URL is not configured")
	// ErrAPIKeyMissing indicates no upstream API key is configured.
	ErrAPIKeyMissing = errors.New("upstream API key is not configured")
)

// UpstreamFailure is the body returned when the upstream answers non-2xx.
type UpstreamFailure struct {
	Error   string `json:"error"`
	Status  int    `json:"status"`
	Details any    `json:"details"`
}

// UnreachableFailure is the body returned when the upstream cannot be reached.
type UnreachableFailure struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Handler serves the proxy route.
type Handler struct {
	baseURL string
	apiKey  string
	client  *http.Client
	audit   *audit.Logger
	metrics *Metrics
	logger  zerolog.Logger
}

// Option configures handler construction.
type Option func(*Handler)

// WithHTTPClient sets the client used for upstream calls.
func WithHTTPClient(client *http.Client) Option {
	return func(h *Handler) {
		if client != nil {
			h.client = client
		}
	}
}

// WithAuditLogger sets the audit sink for completed calls.
func WithAuditLogger(l *audit.Logger) Option {
	return func(h *Handler) {
		h.audit = l
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithLogger sets the handler logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler creates a proxy handler for baseURL authenticated with apiKey.
// Either may be empty; requests then fail with a configuration error.
func NewHandler(baseURL, apiKey string, opts ...Option) *Handler {
	h := &Handler{
		baseURL: strings.TrimSpace(baseURL),
		apiKey:  strings.TrimSpace(apiKey),
		client:  &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Ready reports the first missing piece of configuration, if any.
func (h *Handler) Ready() error {
	if h.baseURL == "" {
		return ErrBaseURLMissing
	}
	if h.apiKey == "" {
		return ErrAPIKeyMissing
	}
	return nil
}

// ServeHTTP forwards one request upstream. Every failure is answered with a
// JSON body; nothing escapes this boundary.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	call := audit.ProxyCallCompletion{RequestID: middleware.GetReqID(r.Context())}
	start := time.Now()
	respond := func(outcome audit.Outcome, status int, body any) {
		httputil.RespondJSON(w, status, body)
		call.Outcome = outcome
		call.Status = status
		call.Duration = time.Since(start)
		h.audit.Complete(call)
		h.metrics.observeRequest(outcome, status)
	}

	if h.baseURL == "" {
		respond(audit.OutcomeRejected, http.StatusInternalServerError, httputil.ErrorBody{Error: msgMissingBaseURL})
		return
	}
	if h.apiKey == "" {
		respond(audit.OutcomeRejected, http.StatusUnauthorized, httputil.ErrorBody{Error: msgMissingKey})
		return
	}

	params := r.URL.Query()
	path := FirstQueryValue(params, "path")
	query := FirstQueryValue(params, "query")
	call.Path = path
	call.Query = query

	if path == "" {
		respond(audit.OutcomeRejected, http.StatusBadRequest, httputil.ErrorBody{Error: msgMissingPath})
		return
	}
	if strings.HasPrefix(normalizePath(path), Route) {
		respond(audit.OutcomeRejected, http.StatusBadRequest, httputil.ErrorBody{Error: msgRecursive})
		return
	}

	upstreamURL := BuildUpstreamURL(h.baseURL, path, query)
	call.UpstreamURL = upstreamURL

	upstreamStart := time.Now()
	status, payload, err := h.fetch(r, upstreamURL)
	if err != nil {
		h.metrics.observeUpstream(audit.OutcomeUnreachable, time.Since(upstreamStart))
		h.logger.Debug().Err(err).Str("path", path).Msg("upstream unreachable")
		call.ErrorDetail = err.Error()
		respond(audit.OutcomeUnreachable, http.StatusBadGateway, UnreachableFailure{
			Error:   msgUnreachable,
			Details: err.Error(),
		})
		return
	}

	if status < 200 || status > 299 {
		h.metrics.observeUpstream(audit.OutcomeUpstreamError, time.Since(upstreamStart))
		respond(audit.OutcomeUpstreamError, status, UpstreamFailure{
			Error:   msgUpstreamFailed,
			Status:  status,
			Details: payload,
		})
		return
	}

	h.metrics.observeUpstream(audit.OutcomeSuccess, time.Since(upstreamStart))
	respond(audit.OutcomeSuccess, status, payload)
}

// fetch issues the single upstream GET and decodes its body.
func (h *Handler) fetch(r *http.Request, upstreamURL string) (int, any, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstreamURL, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	payload, err := httputil.DecodePayload(resp)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, payload, nil
}
