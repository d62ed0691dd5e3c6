// Package httputil holds the JSON response, payload decoding, and middleware
// helpers shared by the vibedex proxy and client.
package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ContentTypeJSON is the content type of every vibedex JSON response.
const ContentTypeJSON = "application/json; charset=utf-8"

// ErrorBody is the {error} payload returned for locally generated failures.
type ErrorBody struct {
	Error string `json:"error"`
}

// RespondJSON writes v as indented JSON with the given status code.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		w.Header().Set("Content-Type", ContentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to encode response"}`))
		return
	}

	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(bytes.TrimRight(buf.Bytes(), "\n"))
}

// RespondError writes {"error": message} with the given status code.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorBody{Error: message})
}

// IsJSON reports whether a Content-Type header value declares a JSON body.
func IsJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

// DecodePayload reads resp.Body. A JSON body is decoded with numbers kept
// verbatim as json.Number; any other body is wrapped as {"message": text}.
func DecodePayload(resp *http.Response) (any, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if !IsJSON(resp.Header.Get("Content-Type")) {
		return map[string]any{"message": string(data)}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding JSON response body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding JSON response body: unexpected trailing data")
	}
	return payload, nil
}

// ErrorField returns payload["error"] when payload is an object with a
// non-empty string error field.
func ErrorField(payload any) (string, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return "", false
	}
	msg, ok := obj["error"].(string)
	if !ok || strings.TrimSpace(msg) == "" {
		return "", false
	}
	return msg, true
}
