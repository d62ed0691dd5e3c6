package proxy

import (
	"net/url"
	"strings"
)

// NormalizeQueryValue collapses a query parameter value to one string: the
// first element of a []string (or "" when empty), a string as-is, and "" for
// anything else.
func NormalizeQueryValue(value any) string {
	switch v := value.(type) {
	case []string:
		if len(v) == 0 {
			return ""
		}
		return v[0]
	case string:
		return v
	default:
		return ""
	}
}

// FirstQueryValue returns the normalized value of key in values.
func FirstQueryValue(values url.Values, key string) string {
	return NormalizeQueryValue(values[key])
}

// BuildUpstreamURL joins base, path and query. Trailing slashes on base are
// dropped, path always starts with "/", and a non-empty query always starts
// with exactly one "?".
func BuildUpstreamURL(baseURL, path, query string) string {
	return strings.TrimRight(baseURL, "/") + normalizePath(path) + normalizeQuery(query)
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

func normalizeQuery(query string) string {
	switch {
	case query == "":
		return ""
	case strings.HasPrefix(query, "?"):
		return query
	default:
		return "?" + query
	}
}
