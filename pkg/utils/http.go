// Package utils provides common utility functions.
package utils

import "net/http"

// UserAgent identifies the explorer to the backend service.
const UserAgent = "hexnews/1.0"

// HTTPHelper provides HTTP utility functions.
type HTTPHelper struct{}

// NewHTTPHelper creates a new HTTP helper.
func NewHTTPHelper() *HTTPHelper {
	return &HTTPHelper{}
}

// BuildHeaders creates JSON request headers with defaults.
func (h *HTTPHelper) BuildHeaders(customHeaders map[string]string) http.Header {
	headers := http.Header{}

	headers.Set("User-Agent", UserAgent)
	headers.Set("Accept", "application/json")
	headers.Set("Content-Type", "application/json")

	for key, value := range customHeaders {
		headers.Set(key, value)
	}

	return headers
}

// IsSuccess reports whether status is a 2xx code.
func (h *HTTPHelper) IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
