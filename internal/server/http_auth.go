package server

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrKeyMissing indicates no shared key was configured.
	ErrKeyMissing = errors.New("proxy API key is not configured")
	// ErrBearerTokenMissing indicates Authorization header did not contain a bearer token.
	ErrBearerTokenMissing = errors.New("missing or malformed Authorization bearer token")
	// ErrBearerTokenInvalid indicates the provided bearer token did not match the configured key.
	ErrBearerTokenInvalid = errors.New("invalid bearer token")
)

// BearerAuthenticator validates incoming bearer tokens against the shared key.
type BearerAuthenticator struct {
	key string
}

// NewBearerAuthenticator creates an authenticator for key.
func NewBearerAuthenticator(key string) *BearerAuthenticator {
	return &BearerAuthenticator{key: strings.TrimSpace(key)}
}

// Authenticate validates the Authorization bearer token on r. The comparison
// runs in constant time.
func (a *BearerAuthenticator) Authenticate(r *http.Request) error {
	if a.key == "" {
		return fmt.Errorf("%w; set PROXY_API_KEY", ErrKeyMissing)
	}
	presented := parseBearerToken(r.Header.Get("Authorization"))
	if presented == "" {
		return ErrBearerTokenMissing
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(a.key)) != 1 {
		return ErrBearerTokenInvalid
	}
	return nil
}

func parseBearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
