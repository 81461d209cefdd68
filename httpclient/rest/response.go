package rest

import (
	"bytes"
	"errors"
	"io"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/logger"
)

// Response decorates a buffered httpclient.Response with content-type and
// status assertions and body decoding. Assertions return the receiver so
// they chain; it is returned alongside any error as well.
type Response struct {
	raw    *httpclient.Response
	client *Client
}

// Unwrap returns the underlying response.
func (r *Response) Unwrap() *httpclient.Response {
	return r.raw
}

// StatusCode returns the HTTP status code.
func (r *Response) StatusCode() int {
	return r.raw.StatusCode
}

// Header returns the first value of the response header key.
func (r *Response) Header(key string) string {
	return r.raw.Header.Get(key)
}

// Bytes returns the raw body.
func (r *Response) Bytes() []byte {
	return r.raw.Body
}

// ContentType returns the lower-cased type/subtype of the Content-Type
// header, or "" when it is missing or unparsable.
func (r *Response) ContentType() string {
	typ, sub, ok := mediaType(r.raw.ContentType())
	if !ok {
		return ""
	}
	return typ + "/" + sub
}

// HasContentType reports whether the response media type equals candidate.
// Parameters are ignored and wildcards only match themselves.
func (r *Response) HasContentType(candidate string) bool {
	return sameMediaType(r.raw.ContentType(), candidate)
}

// HasCompatibleType reports whether the response media type falls in the
// range candidate, or the other way round: text/* accepts text/xml and
// */* accepts anything.
func (r *Response) HasCompatibleType(candidate string) bool {
	return compatibleMediaType(r.raw.ContentType(), candidate)
}

// RequireContentType fails unless HasContentType(candidate) holds.
func (r *Response) RequireContentType(candidate string) (*Response, error) {
	if r.HasContentType(candidate) {
		return r, nil
	}
	return r, r.contentTypeFailure(candidate)
}

// RequireCompatibleType fails unless HasCompatibleType(candidate) holds.
func (r *Response) RequireCompatibleType(candidate string) (*Response, error) {
	if r.HasCompatibleType(candidate) {
		return r, nil
	}
	return r, r.contentTypeFailure(candidate)
}

// RequireStatus fails unless the status code is expected. With a
// FailureHandler configured the handler decides the outcome.
func (r *Response) RequireStatus(expected int) (*Response, error) {
	if r.raw.StatusCode == expected {
		return r, nil
	}
	if h := r.client.config().FailureHandler; h != nil {
		r.client.log.Debug("failure handler invoked", logger.Fields(
			logger.FieldStatus, r.raw.StatusCode,
			"expected", expected,
		))
		return r, h(r)
	}
	return r, httpclient.NewUnexpectedStatusError(expected, r.raw.StatusCode, r.raw.Body)
}

func (r *Response) contentTypeFailure(candidate string) error {
	if h := r.client.config().ContentTypeFailureHandler; h != nil {
		r.client.log.Debug("content type failure handler invoked", logger.Fields(
			"expected", candidate,
			"actual", r.raw.ContentType(),
		))
		return h(candidate, r)
	}
	return httpclient.NewUnexpectedContentTypeError(candidate, r.ContentType(), r.raw.StatusCode)
}

// XML parses the body into a navigable tree. Encodings named in the XML
// declaration are honoured. Each call parses afresh.
func (r *Response) XML() (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(r.raw.Body); err != nil {
		return nil, httpclient.NewMalformedXMLError(err)
	}
	if doc.Root() == nil {
		return nil, httpclient.NewMalformedXMLError(errors.New("no root element"))
	}
	return doc, nil
}

// Text returns the body decoded from the charset named in Content-Type,
// UTF-8 when none is named.
func (r *Response) Text() (string, error) {
	label := r.raw.Charset()
	if label == "" || label == "utf-8" || label == "utf8" {
		return string(r.raw.Body), nil
	}

	enc, name := charset.Lookup(label)
	if enc == nil {
		return "", httpclient.NewEncodingError("unknown charset "+label, nil)
	}
	out, err := io.ReadAll(enc.NewDecoder().Reader(bytes.NewReader(r.raw.Body)))
	if err != nil {
		return "", httpclient.NewEncodingError("decode "+name, err)
	}
	return string(out), nil
}
