//go:build smoke

package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run against a proxy started with VIBEDEX_DEV_MODE=true:
//
//	go test -tags smoke ./pkg/client/...
const (
	defaultSmokeProxyURL = "http://127.0.0.1:5174"
	defaultHealthTimeout = 10 * time.Second
)

func smokeProxyURL() string {
	if value := strings.TrimSpace(os.Getenv("VIBEDEX_TEST_PROXY_URL")); value != "" {
		return value
	}
	return defaultSmokeProxyURL
}

func TestSmoke_ProtectedDemoThroughProxy(t *testing.T) {
	proxyURL := smokeProxyURL()
	waitForHealthy(t, proxyURL, defaultHealthTimeout)

	c, err := New(Config{ProxyURL: proxyURL})
	require.NoError(t, err)

	query := fmt.Sprintf("run=%d", time.Now().UnixNano())
	payload, err := c.FetchProtectedResource(context.Background(), "/__demo/protected", query)
	require.NoError(t, err)

	body, ok := payload.(map[string]any)
	require.True(t, ok, "unexpected payload %#v", payload)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "__demo/protected", body["source"])
}

func TestSmoke_RecursivePathRejected(t *testing.T) {
	proxyURL := smokeProxyURL()
	waitForHealthy(t, proxyURL, defaultHealthTimeout)

	c, err := New(Config{ProxyURL: proxyURL})
	require.NoError(t, err)

	_, err = c.FetchProtectedResource(context.Background(), "/api/proxy", "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode())
	assert.Equal(t, "Refusing to proxy to /api/proxy (recursive).", apiErr.Error())
}

func waitForHealthy(t *testing.T, baseURL string, timeout time.Duration) {
	t.Helper()

	httpClient := &http.Client{Timeout: 1 * time.Second}
	healthURL := strings.TrimRight(baseURL, "/") + "/health"
	deadline := time.Now().Add(timeout)
	lastError := ""

	for {
		resp, err := httpClient.Get(healthURL)
		if err == nil {
			body, readErr := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			switch {
			case readErr != nil:
				lastError = readErr.Error()
			case resp.StatusCode == http.StatusOK:
				return
			default:
				lastError = fmt.Sprintf("status=%d body=%q", resp.StatusCode, strings.TrimSpace(string(body)))
			}
		} else {
			lastError = err.Error()
		}

		if time.Now().After(deadline) {
			break
		}
		time.Sleep(250 * time.Millisecond)
	}

	t.Fatalf("proxy not healthy within %s: %s", timeout, lastError)
}
