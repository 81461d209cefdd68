package rest

import "net/url"

// CallOption adjusts a single request.
type CallOption func(*call)

type call struct {
	headers map[string]string
	query   url.Values
}

// WithHeaders sets headers for this call only. They override default and
// resource headers with the same name. Keys that differ only in case
// collide; the one sorting last wins.
func WithHeaders(headers map[string]string) CallOption {
	return func(c *call) {
		for k, v := range headers {
			c.setHeader(k, v)
		}
	}
}

// WithHeader sets one header for this call only.
func WithHeader(key, value string) CallOption {
	return func(c *call) { c.setHeader(key, value) }
}

// WithQuery sets query parameters for this call. Each key replaces the
// values the resource URL already has for it.
func WithQuery(query url.Values) CallOption {
	return func(c *call) {
		for k, vs := range query {
			c.params()[k] = append([]string(nil), vs...)
		}
	}
}

// WithParam appends values to the query parameter key set for this call.
// Like WithQuery, the key then replaces the resource URL's values for it.
func WithParam(key string, values ...string) CallOption {
	return func(c *call) {
		q := c.params()
		q[key] = append(q[key], values...)
	}
}

func (c *call) setHeader(k, v string) {
	if c.headers == nil {
		c.headers = make(map[string]string)
	}
	c.headers[k] = v
}

func (c *call) params() url.Values {
	if c.query == nil {
		c.query = url.Values{}
	}
	return c.query
}
