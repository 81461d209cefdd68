package rest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/logger"
)

func newTestClient(t *testing.T, cfg Config, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithLogger(logger.NewNop())}, opts...)
	c, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

// captured records the last request a test server saw.
type captured struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   string
}

func newCaptureServer(t *testing.T, status int, contentType, body string) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.Query()
		got.header = r.Header.Clone()
		got.body = string(b)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestCreate_JoinsBaseURL(t *testing.T) {
	tests := []struct {
		base, path, sub, want string
	}{
		{"http://h/api", "/sub", "/leaf", "http://h/api/sub/leaf"},
		{"http://h/api/", "sub", "leaf", "http://h/api/sub/leaf"},
		{"http://h/api/", "/sub/", "/leaf", "http://h/api/sub/leaf"},
		{"http://h", "", "leaf", "http://h/leaf"},
	}
	for _, tt := range tests {
		c := newTestClient(t, Config{BaseURL: tt.base})
		r, err := c.Create(tt.path)
		if err != nil {
			t.Fatalf("Create(%q) unexpected error: %v", tt.path, err)
		}
		if got := r.SubPath(tt.sub).URL(); got != tt.want {
			t.Errorf("Create(%q).SubPath(%q) = %q, want %q", tt.path, tt.sub, got, tt.want)
		}
	}
}

func TestCreate_BaseURLWithQuery(t *testing.T) {
	srv, got := newCaptureServer(t, 200, "", "")
	c := newTestClient(t, Config{BaseURL: srv.URL + "/api?key=k1"})

	r, err := c.Create("/sub")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := srv.URL + "/api/sub?key=k1"; r.URL() != want {
		t.Errorf("expected %q, got %q", want, r.URL())
	}

	if _, err := c.Get(context.Background(), "/sub/leaf?page=2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.path != "/api/sub/leaf" {
		t.Errorf("expected path /api/sub/leaf, got %q", got.path)
	}
	if got.query.Get("key") != "k1" || got.query.Get("page") != "2" {
		t.Errorf("expected key=k1&page=2, got %v", got.query)
	}
}

func TestCreate_AbsoluteURLIgnoresBase(t *testing.T) {
	c := newTestClient(t, Config{BaseURL: "http://base/api"})
	r, err := c.Create("https://other.example.com/x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.URL() != "https://other.example.com/x" {
		t.Errorf("expected standalone URL, got %q", r.URL())
	}
}

func TestCreate_InvalidURL(t *testing.T) {
	c := newTestClient(t, Config{})
	for _, path := range []string{"relative/path", "/abs-path", "http://", "http://h/%zz"} {
		if _, err := c.Create(path); !IsInvalidURL(err) {
			t.Errorf("Create(%q) expected invalid URL error, got %v", path, err)
		}
	}
}

func TestSubPath_KeepsReceiverAndQuery(t *testing.T) {
	c := newTestClient(t, Config{})
	r, err := c.Create("http://h/api?key=1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	child := r.SubPath("items?page=2")
	if child.URL() != "http://h/api/items?key=1&page=2" {
		t.Errorf("unexpected child URL %q", child.URL())
	}
	if r.URL() != "http://h/api?key=1" {
		t.Errorf("receiver was modified: %q", r.URL())
	}
}

func TestSubPath_InvalidIsSticky(t *testing.T) {
	srv, got := newCaptureServer(t, 200, "", "")
	c := newTestClient(t, Config{BaseURL: srv.URL})
	r, _ := c.Create("/a")

	bad := r.SubPath("%zz")
	if !IsInvalidURL(bad.Err()) {
		t.Fatalf("expected invalid URL error, got %v", bad.Err())
	}
	if _, err := bad.SubPath("more").Get(context.Background()); !IsInvalidURL(err) {
		t.Errorf("expected invalid URL error from Get, got %v", err)
	}
	if got.method != "" {
		t.Error("no request should have been sent")
	}
}

func TestResource_DerivationIsImmutable(t *testing.T) {
	c := newTestClient(t, Config{BaseURL: "http://h"})
	r, _ := c.Create("/a")
	withH := r.WithHeaders(map[string]string{"X-A": "1"})
	withH2 := withH.WithHeaders(map[string]string{"X-B": "2"})
	withAccept := withH2.WithAccept("text/plain")

	if len(r.Headers()) != 0 {
		t.Errorf("receiver headers changed: %v", r.Headers())
	}
	if len(withH.Headers()) != 1 {
		t.Errorf("expected 1 header, got %v", withH.Headers())
	}
	if h := withH2.Headers(); h["X-A"] != "1" || h["X-B"] != "2" {
		t.Errorf("expected merged headers, got %v", h)
	}
	if r.Accept() != DefaultAccept || withH2.Accept() != DefaultAccept {
		t.Errorf("accept leaked across derivations")
	}
	if withAccept.Accept() != "text/plain" {
		t.Errorf("expected text/plain, got %q", withAccept.Accept())
	}

	h := withH.Headers()
	h["X-A"] = "mutated"
	if withH.Headers()["X-A"] != "1" {
		t.Error("Headers() must return a copy")
	}
}

func TestHeaders_CaseCollisionsResolveTheSameWay(t *testing.T) {
	srv, got := newCaptureServer(t, 200, "", "")
	c := newTestClient(t, Config{BaseURL: srv.URL})
	r, _ := c.Create("/")
	r = r.WithHeaders(map[string]string{"x-res": "lower", "X-Res": "upper"})

	for i := 0; i < 20; i++ {
		_, err := r.Get(context.Background(), WithHeaders(map[string]string{"x-call": "lower", "X-Call": "upper"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v := got.header.Values("X-Call"); len(v) != 1 || v[0] != "lower" {
			t.Fatalf("run %d: expected X-Call=[lower], got %v", i, v)
		}
		if v := got.header.Values("X-Res"); len(v) != 1 || v[0] != "lower" {
			t.Fatalf("run %d: expected X-Res=[lower], got %v", i, v)
		}
	}

	later := r.WithHeaders(map[string]string{"x-res": "later"})
	if h := later.Headers(); len(h) != 1 || h["X-Res"] != "later" {
		t.Errorf("expected newer value to replace X-Res, got %v", h)
	}
}

func TestHeaderPrecedence(t *testing.T) {
	srv, got := newCaptureServer(t, 200, "", "")
	c := newTestClient(t, Config{
		BaseURL: srv.URL,
		DefaultHeaders: map[string]string{
			"X-Default": "d",
			"X-Level":   "default",
			"x-call":    "default",
		},
	})
	r, _ := c.Create("/h")
	r = r.WithHeaders(map[string]string{"X-Level": "resource", "X-Call": "resource"})

	if _, err := r.Get(context.Background(), WithHeader("X-CALL", "call")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v := got.header.Get("X-Default"); v != "d" {
		t.Errorf("X-Default = %q, want d", v)
	}
	if v := got.header.Get("X-Level"); v != "resource" {
		t.Errorf("X-Level = %q, want resource", v)
	}
	if v := got.header.Values("X-Call"); len(v) != 1 || v[0] != "call" {
		t.Errorf("X-Call = %v, want [call]", v)
	}
}

func TestAcceptHeader(t *testing.T) {
	srv, got := newCaptureServer(t, 200, "", "")
	c := newTestClient(t, Config{BaseURL: srv.URL})
	r, _ := c.Create("/a")
	ctx := context.Background()

	r.Get(ctx)
	if v := got.header.Get("Accept"); v != "application/xml" {
		t.Errorf("default Accept = %q", v)
	}

	r.WithAccept("text/plain").Get(ctx)
	if v := got.header.Get("Accept"); v != "text/plain" {
		t.Errorf("resource Accept = %q", v)
	}

	r.WithAccept("text/plain").Get(ctx, WithHeader("accept", "application/json"))
	if v := got.header.Get("Accept"); v != "application/json" {
		t.Errorf("call Accept = %q", v)
	}
}

func TestQueryParameters(t *testing.T) {
	srv, got := newCaptureServer(t, 200, "", "")
	c := newTestClient(t, Config{BaseURL: srv.URL})
	r, _ := c.Create("/search?page=1&lang=en")
	ctx := context.Background()

	if _, err := r.Get(ctx, WithQuery(url.Values{"q": {"term"}})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.query.Get("q") != "term" {
		t.Errorf("expected q=term, got %v", got.query)
	}

	_, err := r.Get(ctx,
		WithQuery(url.Values{"page": {"3"}}),
		WithParam("tag", "a", "b"),
		WithParam("tag", "c"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.query.Get("page") != "3" {
		t.Errorf("expected page overridden to 3, got %v", got.query["page"])
	}
	if got.query.Get("lang") != "en" {
		t.Errorf("expected lang kept, got %v", got.query["lang"])
	}
	if tags := got.query["tag"]; len(tags) != 3 || tags[2] != "c" {
		t.Errorf("expected tag=[a b c], got %v", tags)
	}
}

func TestVerbs(t *testing.T) {
	srv, got := newCaptureServer(t, 200, "", "")
	c := newTestClient(t, Config{BaseURL: srv.URL})
	r, _ := c.Create("/items")
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func() (*Response, error)
		method string
		path   string
		body   string
	}{
		{"get", func() (*Response, error) { return r.Get(ctx) }, "GET", "/items", ""},
		{"get at", func() (*Response, error) { return r.GetAt(ctx, "7") }, "GET", "/items/7", ""},
		{"post string", func() (*Response, error) { return r.Post(ctx, "raw") }, "POST", "/items", "raw"},
		{"put bytes", func() (*Response, error) { return r.Put(ctx, []byte("b")) }, "PUT", "/items", "b"},
		{"put at", func() (*Response, error) { return r.PutAt(ctx, "/7/", strings.NewReader("r")) }, "PUT", "/items/7/", "r"},
		{"delete", func() (*Response, error) { return r.Delete(ctx) }, "DELETE", "/items", ""},
		{"client get", func() (*Response, error) { return c.Get(ctx, "/x") }, "GET", "/x", ""},
		{"client post", func() (*Response, error) { return c.Post(ctx, "/x", "p") }, "POST", "/x", "p"},
		{"client put", func() (*Response, error) { return c.Put(ctx, "/x", nil) }, "PUT", "/x", ""},
		{"client delete", func() (*Response, error) { return c.Delete(ctx, "/x") }, "DELETE", "/x", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.call()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.StatusCode() != 200 {
				t.Errorf("expected 200, got %d", resp.StatusCode())
			}
			if got.method != tt.method || got.path != tt.path || got.body != tt.body {
				t.Errorf("got %s %s %q, want %s %s %q", got.method, got.path, got.body, tt.method, tt.path, tt.body)
			}
		})
	}
}

func TestXMLBodies(t *testing.T) {
	srv, got := newCaptureServer(t, 201, "", "")
	c := newTestClient(t, Config{BaseURL: srv.URL})
	r, _ := c.Create("/orders")
	ctx := context.Background()

	order := Elem("order", Attr("id", "42"), Elem("note", Text("hi")))
	const want = `<?xml version="1.0" encoding="UTF-8"?><order id="42"><note>hi</note></order>`

	if _, err := r.Post(ctx, order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.body != want {
		t.Errorf("node body = %q, want %q", got.body, want)
	}
	if ct := got.header.Get("Content-Type"); ct != XMLContentType {
		t.Errorf("expected %q, got %q", XMLContentType, ct)
	}

	if _, err := r.PostBuilder(ctx, func() Node { return order }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.body != want {
		t.Errorf("builder body = %q, want %q", got.body, want)
	}

	builder := func() Node { return order }
	if _, err := r.Put(ctx, builder, WithHeader("Content-Type", "text/xml")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.method != "PUT" || got.body != want {
		t.Errorf("func body = %s %q", got.method, got.body)
	}
	if ct := got.header.Get("Content-Type"); ct != "text/xml" {
		t.Errorf("explicit Content-Type should win, got %q", ct)
	}
}

func TestXMLBody_RenderErrorSendsNothing(t *testing.T) {
	srv, got := newCaptureServer(t, 200, "", "")
	c := newTestClient(t, Config{BaseURL: srv.URL})
	r, _ := c.Create("/")

	_, err := r.Post(context.Background(), Text("not an element"))
	if !IsEncoding(err) {
		t.Fatalf("expected encoding error, got %v", err)
	}
	if got.method != "" {
		t.Error("no request should have been sent")
	}
}

func TestXMLDeclarationDisabled(t *testing.T) {
	srv, got := newCaptureServer(t, 200, "", "")
	off := false
	c := newTestClient(t, Config{BaseURL: srv.URL, XMLDeclaration: &off})
	r, _ := c.Create("/")

	if _, err := r.Post(context.Background(), Elem("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.body != "<a/>" {
		t.Errorf("expected bare element, got %q", got.body)
	}
}

func TestNonSuccessWithoutHandler(t *testing.T) {
	srv, _ := newCaptureServer(t, 404, "text/plain", "missing")
	c := newTestClient(t, Config{BaseURL: srv.URL})

	resp, err := c.Get(context.Background(), "/nope")
	if err != nil {
		t.Fatalf("expected nil error without a handler, got %v", err)
	}
	if resp.StatusCode() != 404 {
		t.Errorf("expected 404, got %d", resp.StatusCode())
	}
}

func TestFailureHandlerOnVerb(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		handleErr error
		wantCalls int
	}{
		{"success skips handler", 200, nil, 0},
		{"redirect-class status", 304, nil, 1},
		{"client error recovered", 404, nil, 1},
		{"server error raised", 503, errors.New("service down"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newCaptureServer(t, tt.status, "", "")
			calls := 0
			var seen *Response
			c := newTestClient(t, Config{
				BaseURL: srv.URL,
				FailureHandler: func(resp *Response) error {
					calls++
					seen = resp
					return tt.handleErr
				},
			})

			resp, err := c.Get(context.Background(), "/")
			if calls != tt.wantCalls {
				t.Errorf("handler called %d times, want %d", calls, tt.wantCalls)
			}
			if err != tt.handleErr {
				t.Errorf("error = %v, want %v", err, tt.handleErr)
			}
			if resp == nil || resp.StatusCode() != tt.status {
				t.Fatalf("expected response with status %d", tt.status)
			}
			if tt.wantCalls > 0 && seen != resp {
				t.Error("handler should receive the returned response")
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	calls := 0
	c := newTestClient(t, Config{
		BaseURL:        addr,
		FailureHandler: func(*Response) error { calls++; return nil },
	})
	resp, err := c.Get(context.Background(), "/")
	if !IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if resp != nil {
		t.Error("expected nil response")
	}
	if calls != 0 {
		t.Error("failure handler must not see transport errors")
	}
}

func TestConfigure(t *testing.T) {
	srv, got := newCaptureServer(t, 200, "", "")
	c := newTestClient(t, Config{BaseURL: "http://unused.invalid"})

	err := c.Update(func(cfg *Config) {
		cfg.BaseURL = srv.URL + "/v2"
		cfg.DefaultHeaders = map[string]string{"X-Tenant": "acme"}
		cfg.DefaultAccept = "text/xml"
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.Get(context.Background(), "items"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.path != "/v2/items" {
		t.Errorf("expected /v2/items, got %q", got.path)
	}
	if got.header.Get("X-Tenant") != "acme" || got.header.Get("Accept") != "text/xml" {
		t.Errorf("new defaults not applied: %v", got.header)
	}

	if err := c.Configure(Config{BaseURL: "not a url"}); err == nil {
		t.Error("expected invalid configuration to be rejected")
	}
	if c.Config().BaseURL != srv.URL+"/v2" {
		t.Error("rejected configuration must not be stored")
	}
}

func TestDebug(t *testing.T) {
	srv, _ := newCaptureServer(t, 200, "application/xml", "<ok/>")
	c := newTestClient(t, Config{BaseURL: srv.URL})

	var buf bytes.Buffer
	c.Debug(&buf)
	if _, err := c.Get(context.Background(), "/ping"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "GET /ping HTTP/1.1") {
		t.Errorf("expected request line in debug output, got %q", out)
	}
	if !strings.Contains(out, "200 OK") {
		t.Errorf("expected response status in debug output, got %q", out)
	}

	c.Debug(nil)
	buf.Reset()
	c.Get(context.Background(), "/ping")
	if buf.Len() != 0 {
		t.Errorf("expected no output after Debug(nil), got %q", buf.String())
	}
}

type fakeDoer struct {
	reqs []httpclient.Request
	resp *httpclient.Response
}

func (f *fakeDoer) Do(_ context.Context, req httpclient.Request) (*httpclient.Response, error) {
	f.reqs = append(f.reqs, req)
	return f.resp, nil
}

func TestWithDoer(t *testing.T) {
	doer := &fakeDoer{resp: &httpclient.Response{StatusCode: 200, Header: http.Header{}}}
	c := newTestClient(t, Config{
		BaseURL:        "http://svc.internal",
		DefaultHeaders: BearerAuthHeader("tok"),
	}, WithDoer(doer))

	if _, err := c.Get(context.Background(), "/a", WithParam("x", "1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doer.reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(doer.reqs))
	}
	req := doer.reqs[0]
	if req.URL != "http://svc.internal/a" {
		t.Errorf("unexpected URL %q", req.URL)
	}
	if req.Headers["Authorization"] != "Bearer tok" {
		t.Errorf("expected bearer header, got %v", req.Headers)
	}
	if req.Query.Get("x") != "1" {
		t.Errorf("expected query x=1, got %v", req.Query)
	}

	c.Debug(io.Discard)
}

func TestTracing(t *testing.T) {
	srv, got := newCaptureServer(t, 200, "", "")

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	c := newTestClient(t, Config{BaseURL: srv.URL}, WithHTTPOptions(
		httpclient.WithTracerProvider(tp),
		httpclient.WithPropagator(propagation.TraceContext{}),
	))

	if _, err := c.Delete(context.Background(), "/x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "HTTP DELETE" {
		t.Errorf("unexpected span name %q", spans[0].Name())
	}
	tp2 := got.header.Get("Traceparent")
	if !strings.Contains(tp2, spans[0].SpanContext().TraceID().String()) {
		t.Errorf("expected traceparent for the span, got %q", tp2)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{BaseURL: "/relative"}); err == nil {
		t.Error("expected error for relative base URL")
	}
	if _, err := New(Config{HTTP: httpclient.Config{Timeout: -1}}); err != nil {
		t.Errorf("negative timeout should be replaced by the default, got %v", err)
	}
}
