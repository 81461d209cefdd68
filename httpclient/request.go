package httpclient

import (
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE, etc).
	Method string
	// URL is joined to the client's BaseURL unless it is already absolute.
	URL string
	// Headers are request-specific headers (merged over client defaults).
	Headers map[string]string
	// Query is merged into the URL's query. A key present here replaces the
	// URL's values for it; multiple values per key are kept.
	Query url.Values
	// Body is the request body. Accepts io.Reader, []byte or string.
	Body any
	// Auth overrides the client-level auth for this request.
	Auth *AuthConfig
}

// Response is the result of an HTTP request. The body is read fully
// before Do returns, so it can be inspected any number of times.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Header holds the response headers.
	Header http.Header
	// Body is the raw response body.
	Body []byte
	// Request is the request that was actually sent.
	Request *http.Request
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// ContentType returns the raw Content-Type header.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// Charset returns the charset parameter of the Content-Type header, or "".
func (r *Response) Charset() string {
	_, params, err := mime.ParseMediaType(r.ContentType())
	if err != nil {
		return ""
	}
	return strings.ToLower(params["charset"])
}
