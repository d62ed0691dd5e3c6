// Package audit provides structured audit logging for proxied upstream calls.
package audit

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	bearerTokenPattern = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9\-._~+/]+=*`)
	keyValuePattern    = regexp.MustCompile(`(?i)\b(api_key|apikey|key|token|secret|password|authorization)\s*[:=]\s*([^\s,;&]+)`)
)

// sensitiveParams are query parameter names whose values never reach the log.
var sensitiveParams = []string{"api_key", "apikey", "key", "token", "access_token", "secret", "password"}

// Outcome classifies how a proxied call ended.
type Outcome string

// Call outcomes.
const (
	OutcomeSuccess       Outcome = "success"
	OutcomeUpstreamError Outcome = "upstream_error"
	OutcomeUnreachable   Outcome = "unreachable"
	OutcomeRejected      Outcome = "rejected"
)

// ProxyCallCompletion captures one finalized proxied call.
type ProxyCallCompletion struct {
	RequestID   string
	Path        string
	Query       string
	UpstreamURL string
	Outcome     Outcome
	Status      int
	ErrorDetail string
	Duration    time.Duration
}

// Logger emits structured audit entries.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger creates an audit logger.
func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{
		logger: logger.With().Str("component", "audit").Logger(),
	}
}

// Complete writes a single completion entry for one proxied call.
func (l *Logger) Complete(event ProxyCallCompletion) {
	if l == nil {
		return
	}

	outcome := event.Outcome
	if outcome == "" {
		outcome = OutcomeRejected
	}
	duration := event.Duration
	if duration < 0 {
		duration = 0
	}

	entry := l.logger.Info()
	if outcome == OutcomeUnreachable {
		entry = l.logger.Warn()
	}
	entry = entry.
		Str("event", "proxy.call.completed").
		Str("request_id", strings.TrimSpace(event.RequestID)).
		Str("path", strings.TrimSpace(event.Path)).
		Str("query", RedactQuery(event.Query)).
		Str("outcome", string(outcome)).
		Int64("duration_ms", duration.Milliseconds())

	if event.UpstreamURL != "" {
		entry = entry.Str("upstream_url", RedactURL(event.UpstreamURL))
	}
	if event.Status > 0 {
		entry = entry.Int("status", event.Status)
	}
	if redactedError := RedactSensitiveText(event.ErrorDetail); redactedError != "" {
		entry = entry.Str("error_detail", redactedError)
	}

	entry.Msg("proxy call completed")
}

// RedactSensitiveText removes obvious secrets from free-text error details.
func RedactSensitiveText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	redacted := bearerTokenPattern.ReplaceAllString(trimmed, "Bearer [REDACTED]")
	redacted = keyValuePattern.ReplaceAllStringFunc(redacted, func(match string) string {
		parts := strings.SplitN(match, ":", 2)
		if len(parts) == 2 {
			return fmt.Sprintf("%s: [REDACTED]", strings.TrimSpace(parts[0]))
		}
		parts = strings.SplitN(match, "=", 2)
		if len(parts) == 2 {
			return fmt.Sprintf("%s=[REDACTED]", strings.TrimSpace(parts[0]))
		}
		return "[REDACTED]"
	})
	return redacted
}

// RedactQuery masks the values of sensitive parameters in a raw query string.
// Unparseable input falls back to free-text redaction.
func RedactQuery(raw string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "?")
	if trimmed == "" {
		return ""
	}
	values, err := url.ParseQuery(trimmed)
	if err != nil {
		return RedactSensitiveText(trimmed)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		sensitive := slices.Contains(sensitiveParams, strings.ToLower(k))
		for _, v := range values[k] {
			if sensitive {
				v = "[REDACTED]"
			}
			parts = append(parts, k+"="+v)
		}
	}
	return strings.Join(parts, "&")
}

// RedactURL strips userinfo and masks sensitive query parameters.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return RedactSensitiveText(raw)
	}
	u.User = nil
	query := RedactQuery(u.RawQuery)
	u.RawQuery = ""
	if query == "" {
		return u.String()
	}
	return u.String() + "?" + query
}
