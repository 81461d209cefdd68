package rest

import (
	"context"
	"maps"
	"net/http"
	"net/url"
	"slices"

	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/logger"
)

// Resource is an immutable handle to a URL. Derivation methods return a
// new Resource and leave the receiver untouched.
type Resource struct {
	client  *Client
	url     *url.URL
	headers map[string]string
	accept  string
	err     error
}

// URL returns the target URL.
func (r *Resource) URL() string {
	if r.url == nil {
		return ""
	}
	return r.url.String()
}

// Headers returns a copy of the resource's own headers.
func (r *Resource) Headers() map[string]string {
	return maps.Clone(r.headers)
}

// Accept returns the Accept value sent for this resource: the one set with
// WithAccept, else the client's DefaultAccept.
func (r *Resource) Accept() string {
	if r.accept != "" {
		return r.accept
	}
	return r.client.config().DefaultAccept
}

// Err returns the error recorded while deriving the resource, if any.
// Verb calls on such a resource return it without sending anything.
func (r *Resource) Err() error {
	return r.err
}

func (r *Resource) derive() *Resource {
	next := *r
	next.headers = maps.Clone(r.headers)
	return &next
}

// SubPath returns a resource for path below this one, with exactly one
// slash at the seam. The query string of the receiver is kept and any
// query in path is appended to it.
func (r *Resource) SubPath(path string) *Resource {
	next := r.derive()
	if r.err != nil {
		return next
	}

	u, err := httpclient.ExtendURL(r.url, path)
	if err != nil {
		next.err = err
		return next
	}
	next.url = u
	return next
}

// WithHeaders returns a resource whose headers are the receiver's merged
// with headers, the new values winning. Keys are stored canonicalized; of
// two keys in headers equal but for case, the one sorting last wins.
func (r *Resource) WithHeaders(headers map[string]string) *Resource {
	next := r.derive()
	if next.headers == nil {
		next.headers = make(map[string]string, len(headers))
	}
	for _, k := range slices.Sorted(maps.Keys(headers)) {
		next.headers[http.CanonicalHeaderKey(k)] = headers[k]
	}
	return next
}

// WithAccept returns a resource sending accept as its Accept header.
func (r *Resource) WithAccept(accept string) *Resource {
	next := r.derive()
	next.accept = accept
	return next
}

// Get sends a GET request.
func (r *Resource) Get(ctx context.Context, opts ...CallOption) (*Response, error) {
	return r.do(ctx, http.MethodGet, nil, opts)
}

// Post sends a POST request with body. See Put for the accepted body types.
func (r *Resource) Post(ctx context.Context, body any, opts ...CallOption) (*Response, error) {
	return r.do(ctx, http.MethodPost, body, opts)
}

// Put sends a PUT request with body, which may be nil, a string, []byte,
// io.Reader, Node, Builder or func() Node. Nodes and builders are rendered
// as XML and sent as application/xml unless a Content-Type was given.
func (r *Resource) Put(ctx context.Context, body any, opts ...CallOption) (*Response, error) {
	return r.do(ctx, http.MethodPut, body, opts)
}

// Delete sends a DELETE request.
func (r *Resource) Delete(ctx context.Context, opts ...CallOption) (*Response, error) {
	return r.do(ctx, http.MethodDelete, nil, opts)
}

// GetAt is SubPath(path).Get(ctx, opts...).
func (r *Resource) GetAt(ctx context.Context, path string, opts ...CallOption) (*Response, error) {
	return r.SubPath(path).Get(ctx, opts...)
}

// PutAt is SubPath(path).Put(ctx, body, opts...).
func (r *Resource) PutAt(ctx context.Context, path string, body any, opts ...CallOption) (*Response, error) {
	return r.SubPath(path).Put(ctx, body, opts...)
}

// PostBuilder posts the XML document described by b.
func (r *Resource) PostBuilder(ctx context.Context, b Builder, opts ...CallOption) (*Response, error) {
	return r.do(ctx, http.MethodPost, b, opts)
}

// do sends the request. A failure handler configured on the client sees
// every response outside [200, 299]; its error is returned with the response.
func (r *Resource) do(ctx context.Context, method string, body any, opts []CallOption) (*Response, error) {
	if r.err != nil {
		return nil, r.err
	}

	cfg := r.client.config()

	var c call
	for _, opt := range opts {
		opt(&c)
	}

	headers := r.headerSet(cfg, c.headers)

	payload, err := materialize(body, headers, cfg.declaration())
	if err != nil {
		return nil, err
	}

	raw, err := r.client.http.Do(ctx, httpclient.Request{
		Method:  method,
		URL:     r.url.String(),
		Headers: flatten(headers),
		Query:   c.query,
		Body:    payload,
	})
	if err != nil {
		return nil, err
	}

	resp := &Response{raw: raw, client: r.client}
	if !raw.IsSuccess() && cfg.FailureHandler != nil {
		r.client.log.Debug("failure handler invoked", logger.RequestFields(method, r.URL(), raw.StatusCode))
		if err := cfg.FailureHandler(resp); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// headerSet merges default headers, the Accept value, resource headers and
// call headers in that order. Keys are canonicalized so later sources
// override earlier ones regardless of case.
func (r *Resource) headerSet(cfg *Config, callHeaders map[string]string) http.Header {
	h := make(http.Header)
	setHeaders(h, cfg.DefaultHeaders)
	h.Set("Accept", r.Accept())
	setHeaders(h, r.headers)
	setHeaders(h, callHeaders)
	return h
}

// setHeaders applies src in sorted key order. Within one map, of two keys
// equal but for case the one sorting last wins, on every call.
func setHeaders(h http.Header, src map[string]string) {
	for _, k := range slices.Sorted(maps.Keys(src)) {
		h.Set(k, src[k])
	}
}

func flatten(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}
