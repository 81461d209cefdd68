package rest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/logger"
)

// Doer sends a request and returns the buffered response.
// *httpclient.Adapter satisfies it.
type Doer interface {
	Do(ctx context.Context, req httpclient.Request) (*httpclient.Response, error)
}

// debugger is implemented by doers that can dump traffic to a stream.
type debugger interface {
	Debug(w io.Writer)
}

// Client issues requests for the resources it creates.
type Client struct {
	http Doer
	log  *logger.Logger
	cfg  atomic.Pointer[Config]
}

// Option customizes a Client at construction time.
type Option func(*clientOptions)

type clientOptions struct {
	log      *logger.Logger
	doer     Doer
	httpOpts []httpclient.Option
}

// WithLogger sets the logger of the client and of its transport.
func WithLogger(l *logger.Logger) Option {
	return func(o *clientOptions) { o.log = l }
}

// WithDoer replaces the transport. Config.HTTP is then ignored.
func WithDoer(d Doer) Option {
	return func(o *clientOptions) { o.doer = d }
}

// WithHTTPOptions passes options through to httpclient.New.
func WithHTTPOptions(opts ...httpclient.Option) Option {
	return func(o *clientOptions) { o.httpOpts = append(o.httpOpts, opts...) }
}

// New creates a Client from cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}
	switch {
	case o.log != nil:
	case cfg.Logging != nil:
		o.log = logger.New(cfg.Logging, cfg.HTTP.Name)
	default:
		o.log = logger.GetGlobalLogger()
	}

	doer := o.doer
	if doer == nil {
		httpCfg := cfg.HTTP
		httpCfg.BaseURL = ""
		httpOpts := append([]httpclient.Option{httpclient.WithLogger(o.log)}, o.httpOpts...)
		adapter, err := httpclient.New(httpCfg, httpOpts...)
		if err != nil {
			return nil, fmt.Errorf("rest: %w", err)
		}
		doer = adapter
	}

	c := &Client{
		http: doer,
		log:  o.log.WithComponent("rest"),
	}
	c.cfg.Store(&cfg)
	return c, nil
}

var defaultClient atomic.Pointer[Client]

// Default returns the process-wide client used by GET, POST, PUT, DELETE
// and Create. It is built from DefaultConfig on first use.
func Default() *Client {
	if c := defaultClient.Load(); c != nil {
		return c
	}
	c, err := New(DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("rest: default client: %v", err))
	}
	defaultClient.CompareAndSwap(nil, c)
	return defaultClient.Load()
}

// SetDefault replaces the process-wide client. A nil c resets it so the
// next Default call builds a fresh one.
func SetDefault(c *Client) {
	defaultClient.Store(c)
}

// Config returns a copy of the current configuration.
func (c *Client) Config() Config {
	return *c.cfg.Load()
}

// Configure replaces the configuration read by subsequent requests and
// assertions. The transport built from Config.HTTP is kept.
func (c *Client) Configure(cfg Config) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg.Store(&cfg)
	return nil
}

// Update applies fn to a copy of the current configuration and stores the
// result.
func (c *Client) Update(fn func(*Config)) error {
	cfg := c.Config()
	fn(&cfg)
	return c.Configure(cfg)
}

func (c *Client) config() *Config {
	return c.cfg.Load()
}

// Debug dumps every request and response to w. Debug(nil) stops it.
// It has no effect when the transport cannot dump traffic.
func (c *Client) Debug(w io.Writer) {
	d, ok := c.http.(debugger)
	if !ok {
		c.log.Warn("transport does not support debug output")
		return
	}
	d.Debug(w)
}

// Create returns a Resource for path. A path without a scheme is appended
// to the path of Config.BaseURL, whose query string is kept; anything else
// must be an absolute URL.
func (c *Client) Create(path string) (*Resource, error) {
	u, err := httpclient.ResolveURL(c.config().BaseURL, path)
	if err != nil {
		return nil, err
	}
	return &Resource{client: c, url: u}, nil
}

// Get is Create(path) followed by Resource.Get.
func (c *Client) Get(ctx context.Context, path string, opts ...CallOption) (*Response, error) {
	return c.verb(ctx, http.MethodGet, path, nil, opts)
}

// Post is Create(path) followed by Resource.Post.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...CallOption) (*Response, error) {
	return c.verb(ctx, http.MethodPost, path, body, opts)
}

// Put is Create(path) followed by Resource.Put.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...CallOption) (*Response, error) {
	return c.verb(ctx, http.MethodPut, path, body, opts)
}

// Delete is Create(path) followed by Resource.Delete.
func (c *Client) Delete(ctx context.Context, path string, opts ...CallOption) (*Response, error) {
	return c.verb(ctx, http.MethodDelete, path, nil, opts)
}

func (c *Client) verb(ctx context.Context, method, path string, body any, opts []CallOption) (*Response, error) {
	r, err := c.Create(path)
	if err != nil {
		return nil, err
	}
	return r.do(ctx, method, body, opts)
}

// RenderXML serializes node, with the XML declaration when the client is
// configured for it.
func (c *Client) RenderXML(node Node) (string, error) {
	return RenderXML(node, c.config().declaration())
}
