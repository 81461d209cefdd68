// Package httpclient is the transport collaborator behind restkit. It owns
// the *http.Client (connection reuse, TLS, timeouts), resolves request URLs
// against an optional base URL, merges default and per-request headers,
// and returns fully buffered responses. Status codes are never turned into
// errors here; only transport failures are.
//
// Each request runs in an OpenTelemetry client span, carries the
// propagated trace context, is counted in the http.client.* instruments
// and logged at debug level through the restkit logger.
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Timeout: 30 * time.Second,
//	    Auth:    httpclient.BearerAuth("my-token"),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    URL:    "/users/123",
//	    Query:  url.Values{"expand": {"roles", "groups"}},
//	})
//
// # Debugging
//
//	client.Debug(os.Stderr) // dump every request and response
//	client.Debug(nil)       // stop
//
// The rest subpackage builds the fluent resource API on top of this client.
package httpclient
