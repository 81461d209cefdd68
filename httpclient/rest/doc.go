// Package rest is a fluent client for XML-speaking REST services built on
// the httpclient adapter.
//
// A Client carries the shared configuration: base URL, default headers,
// default Accept type, XML declaration flag and the failure handlers.
// Resources are immutable URL handles derived from it:
//
//	client, err := rest.New(rest.Config{
//	    BaseURL:        "https://api.example.com/v1",
//	    DefaultHeaders: rest.BasicAuthHeader("user", "secret"),
//	})
//
//	orders, err := client.Create("/orders")
//	resp, err := orders.GetAt(ctx, "42", rest.WithParam("expand", "lines"))
//	resp, err = resp.RequireStatus(http.StatusOK)
//	doc, err := resp.XML()
//
// Request bodies can be described declaratively and are rendered as XML:
//
//	resp, err := orders.Post(ctx, rest.Elem("order",
//	    rest.Attr("id", "42"),
//	    rest.Elem("note", rest.Text("leave at door")),
//	))
//
// The package-level GET, POST, PUT and DELETE functions use the client
// returned by Default, which SetDefault replaces.
//
// # Failure handlers
//
// Config.FailureHandler sees every response outside 2xx and every failed
// RequireStatus; Config.ContentTypeFailureHandler sees every failed
// content-type assertion. Each call invokes its handler at most once, and
// an error the handler returns reaches the caller unmodified. Without
// handlers, verbs return non-2xx responses with a nil error and assertions
// return UnexpectedStatus or UnexpectedContentType errors.
package rest
