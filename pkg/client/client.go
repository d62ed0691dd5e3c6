// Package client provides the typed HTTP client used by the vibedex browser:
// public catalog reads plus protected reads through the vibedex proxy.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vibedex/vibedex/internal/httputil"
	"github.com/vibedex/vibedex/pkg/types"
)

const (
	// DefaultCatalogURL is the public catalog API root.
	DefaultCatalogURL = "https://pokeapi.co/api/v2"

	defaultTimeout = 30 * time.Second
	listPath       = "/pokemon"
	proxyPath      = "/api/proxy"

	msgUnreachable = "Server not reachable."
)

var (
	// ErrListFailed is returned when the catalog list request is not 2xx.
	ErrListFailed = errors.New("failed to fetch list")
	// ErrDetailsFailed is returned when a detail request is not 2xx.
	ErrDetailsFailed = errors.New("failed to fetch details")
	// ErrServerUnreachable is wrapped by APIError when the proxy cannot be reached.
	ErrServerUnreachable = errors.New("server not reachable")
)

// Config holds client configuration.
type Config struct {
	// CatalogURL is the public catalog API root. Defaults to DefaultCatalogURL.
	CatalogURL string
	// ProxyURL is the root URL of the vibedex proxy (for example: http://localhost:5174).
	ProxyURL string
	// HTTPClient is used for every request. Defaults to an instrumented client
	// with a 30s timeout.
	HTTPClient *http.Client
}

// Client fetches catalog and protected resources.
type Client struct {
	http       *http.Client
	catalogURL string
	proxyURL   string
}

// APIError is returned by FetchProtectedResource when the proxy call fails.
type APIError struct {
	message string
	status  int
	details any
	cause   error
}

func (e *APIError) Error() string {
	return e.message
}

// Unwrap returns the underlying sentinel or transport error, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Details returns the structured payload attached to the failure.
func (e *APIError) Details() any {
	return e.details
}

// StatusCode returns the proxy status code, or 0 when no response arrived.
func (e *APIError) StatusCode() int {
	return e.status
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	proxyURL := strings.TrimSpace(cfg.ProxyURL)
	if proxyURL == "" {
		return nil, fmt.Errorf("client: ProxyURL is required")
	}

	catalogURL := strings.TrimSpace(cfg.CatalogURL)
	if catalogURL == "" {
		catalogURL = DefaultCatalogURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &Client{
		http:       httpClient,
		catalogURL: strings.TrimRight(catalogURL, "/"),
		proxyURL:   strings.TrimRight(proxyURL, "/"),
	}, nil
}

// FetchList returns one page of the catalog listing.
func (c *Client) FetchList(ctx context.Context, limit, offset int) (*types.ListPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var page types.ListPage
	if err := c.getJSON(ctx, c.catalogURL+listPath+"?"+q.Encode(), ErrListFailed, &page); err != nil {
		return nil, fmt.Errorf("listing catalog: %w", err)
	}
	return &page, nil
}

// FetchDetails returns the detail document at detailURL.
func (c *Client) FetchDetails(ctx context.Context, detailURL string) (*types.Detail, error) {
	detailURL = strings.TrimSpace(detailURL)
	if detailURL == "" {
		return nil, fmt.Errorf("detail url is required")
	}

	var detail types.Detail
	if err := c.getJSON(ctx, detailURL, ErrDetailsFailed, &detail); err != nil {
		return nil, fmt.Errorf("getting details: %w", err)
	}
	return &detail, nil
}

// FetchProtectedResource calls the proxy for path with an optional raw query
// string and returns the decoded payload. Failures are *APIError values.
func (c *Client) FetchProtectedResource(ctx context.Context, path, query string) (any, error) {
	q := url.Values{}
	q.Set("path", path)
	if query != "" {
		q.Set("query", query)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.proxyURL+proxyPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building proxy request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{
			message: msgUnreachable,
			details: map[string]any{"error": err.Error()},
			cause:   fmt.Errorf("%w: %w", ErrServerUnreachable, err),
		}
	}
	defer resp.Body.Close()

	payload, err := httputil.DecodePayload(resp)
	if err != nil {
		return nil, &APIError{
			message: fmt.Sprintf("Request failed with status %d.", resp.StatusCode),
			status:  resp.StatusCode,
			cause:   err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message, ok := httputil.ErrorField(payload)
		if !ok {
			message = fmt.Sprintf("Request failed with status %d.", resp.StatusCode)
		}
		return nil, &APIError{
			message: message,
			status:  resp.StatusCode,
			details: payload,
		}
	}

	return payload, nil
}

func (c *Client) getJSON(ctx context.Context, target string, failure error, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
