package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/observability"
)

const instrumentationName = "github.com/kbukum/restkit/httpclient"

// Adapter is the HTTP collaborator behind the rest layer. It resolves URLs,
// merges headers, sends the request and buffers the response. It never
// interprets status codes.
type Adapter struct {
	httpClient *http.Client
	base       http.RoundTripper
	config     Config
	log        *logger.Logger
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	metrics    *observability.HTTPClientMetrics
}

// New creates a new HTTP adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	base := o.transport
	if base == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.MaxIdleConnsPerHost > 0 {
			transport.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
		}
		tlsCfg, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}
		if tlsCfg != nil {
			transport.TLSClientConfig = tlsCfg
		}
		base = transport
	}

	if o.log == nil {
		o.log = logger.GetGlobalLogger()
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
	if o.meterProvider == nil {
		o.meterProvider = otel.GetMeterProvider()
	}
	if o.propagator == nil {
		o.propagator = otel.GetTextMapPropagator()
	}

	metrics, err := observability.NewHTTPClientMetrics(o.meterProvider.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}

	return &Adapter{
		httpClient: &http.Client{
			Transport: base,
			Timeout:   cfg.Timeout,
		},
		base:       base,
		config:     cfg,
		log:        o.log.WithComponent("httpclient").WithFields(map[string]interface{}{"client": cfg.Name}),
		tracer:     o.tracerProvider.Tracer(instrumentationName),
		propagator: o.propagator,
		metrics:    metrics,
	}, nil
}

// Do sends req and returns the buffered response. Transport failures are
// returned as *Error with ErrCodeTransport, or ErrCodeTimeout when the
// client timeout or the context deadline expired; a cancelled context is a
// transport failure. Any status code, including 4xx and 5xx, is a
// successful exchange.
func (a *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := a.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	ctx, span := a.tracer.Start(ctx, "HTTP "+httpReq.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", httpReq.Method),
			attribute.String("url.full", httpReq.URL.String()),
			attribute.String("server.address", httpReq.URL.Hostname()),
		),
	)
	defer span.End()

	ctx = a.logContext(ctx, httpReq, span.SpanContext())
	log := a.log.WithContext(ctx)

	httpReq = httpReq.WithContext(ctx)
	a.propagator.Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	start := time.Now()
	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		var clientErr *Error
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || isTimeout(err) {
			clientErr = NewTimeoutError(err)
		} else {
			clientErr = NewTransportError(err)
		}
		span.RecordError(clientErr)
		span.SetStatus(codes.Error, clientErr.Code.String())
		a.metrics.RecordFailure(ctx, a.config.Name, httpReq.Method, clientErr.Code.String())
		fields := logger.RequestFields(httpReq.Method, httpReq.URL.String(), 0)
		fields[logger.FieldError] = err.Error()
		log.Warn("http request failed", fields)
		return nil, clientErr
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		clientErr := NewTransportError(fmt.Errorf("read response body: %w", err))
		span.RecordError(clientErr)
		span.SetStatus(codes.Error, clientErr.Code.String())
		a.metrics.RecordFailure(ctx, a.config.Name, httpReq.Method, clientErr.Code.String())
		return nil, clientErr
	}
	elapsed := time.Since(start)

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 500 {
		span.SetStatus(codes.Error, resp.Status)
	}
	a.metrics.RecordResponse(ctx, a.config.Name, httpReq.Method, resp.StatusCode, elapsed)

	log.Debug("http request",
		logger.RequestFields(httpReq.Method, httpReq.URL.String(), resp.StatusCode),
		logger.DurationFields("http_request", elapsed),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Request:    httpReq,
	}, nil
}

// logContext stores the request ID and the span identifiers of this
// exchange in ctx so every log record about it carries them.
func (a *Adapter) logContext(ctx context.Context, req *http.Request, sc trace.SpanContext) context.Context {
	if h := a.config.RequestIDHeader; h != "" {
		if id := req.Header.Get(h); id != "" {
			ctx = logger.ContextWithField(ctx, logger.FieldRequestID, id)
		}
	}
	if sc.HasTraceID() {
		ctx = logger.ContextWithField(ctx, logger.FieldTraceID, sc.TraceID().String())
	}
	if sc.HasSpanID() {
		ctx = logger.ContextWithField(ctx, logger.FieldSpanID, sc.SpanID().String())
	}
	return ctx
}

// Debug attaches an interceptor that dumps every request and response to w.
// A nil writer detaches it. Not safe to call while requests are in flight.
func (a *Adapter) Debug(w io.Writer) {
	if w == nil {
		a.httpClient.Transport = a.base
		return
	}
	a.httpClient.Transport = newDebugTransport(a.base, w, a.config.Name)
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (a *Adapter) Unwrap() *http.Client {
	return a.httpClient
}

// Config returns the adapter's configuration with defaults applied.
func (a *Adapter) Config() Config {
	return a.config
}

// Close releases idle connections held by the adapter.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// buildRequest constructs an *http.Request from the adapter config and request.
func (a *Adapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	target, err := ResolveURL(a.config.BaseURL, req.URL)
	if err != nil {
		return nil, err
	}

	if len(req.Query) > 0 {
		q := target.Query()
		for k, vs := range req.Query {
			q[k] = append([]string(nil), vs...)
		}
		target.RawQuery = q.Encode()
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewEncodingError("encode body", err)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, NewInvalidURLError(target.String(), err)
	}

	for _, k := range slices.Sorted(maps.Keys(a.config.Headers)) {
		httpReq.Header.Set(k, a.config.Headers[k])
	}
	for _, k := range slices.Sorted(maps.Keys(req.Headers)) {
		httpReq.Header.Set(k, req.Headers[k])
	}

	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", a.config.UserAgent)
	}
	if h := a.config.RequestIDHeader; h != "" && httpReq.Header.Get(h) == "" {
		httpReq.Header.Set(h, uuid.NewString())
	}

	auth := a.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	return httpReq, nil
}

// isTimeout reports whether err is a client or dial timeout.
func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain; charset=utf-8", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}
