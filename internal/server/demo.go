package server

import (
	"errors"
	"net/http"

	"github.com/vibedex/vibedex/internal/httputil"
	"github.com/vibedex/vibedex/internal/proxy"
)

// DemoRoute is a self-contained protected endpoint that lets the proxy be
// exercised end to end without a real backend.
const DemoRoute = "/__demo/protected"

// DemoPayload is the body returned by the demo route on success.
type DemoPayload struct {
	OK     bool              `json:"ok"`
	Source string            `json:"source"`
	Query  map[string]string `json:"query"`
}

func demoHandler(authn *BearerAuthenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := authn.Authenticate(r); err != nil {
			if errors.Is(err, ErrKeyMissing) {
				httputil.RespondError(w, http.StatusInternalServerError, "Demo route missing PROXY_API_KEY.")
				return
			}
			httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized.")
			return
		}

		params := r.URL.Query()
		query := make(map[string]string, len(params))
		for k := range params {
			query[k] = proxy.FirstQueryValue(params, k)
		}

		httputil.RespondJSON(w, http.StatusOK, DemoPayload{
			OK:     true,
			Source: DemoRoute[1:],
			Query:  query,
		})
	}
}
