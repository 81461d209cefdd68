package httpclient

import (
	"errors"
	"fmt"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeTransport indicates a connection-level failure (refused, DNS, TLS).
	ErrCodeTransport ErrorCode = iota
	// ErrCodeTimeout indicates the request context expired.
	ErrCodeTimeout
	// ErrCodeInvalidURL indicates the request target is not a valid absolute URL.
	ErrCodeInvalidURL
	// ErrCodeUnexpectedStatus indicates a status assertion failed.
	ErrCodeUnexpectedStatus
	// ErrCodeUnexpectedContentType indicates a content-type assertion failed.
	ErrCodeUnexpectedContentType
	// ErrCodeMalformedXML indicates a body could not be parsed as XML.
	ErrCodeMalformedXML
	// ErrCodeEncoding indicates a body could not be encoded or decoded.
	ErrCodeEncoding
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTransport:
		return "transport"
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeInvalidURL:
		return "invalid_url"
	case ErrCodeUnexpectedStatus:
		return "unexpected_status"
	case ErrCodeUnexpectedContentType:
		return "unexpected_content_type"
	case ErrCodeMalformedXML:
		return "malformed_xml"
	case ErrCodeEncoding:
		return "encoding"
	default:
		return "unknown"
	}
}

// Error is a structured HTTP client error with classification.
type Error struct {
	// StatusCode is the HTTP status code (0 for errors raised before a response).
	StatusCode int
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// Body is the response body, when there was one.
	Body []byte
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewTransportError creates a transport error.
func NewTransportError(err error) *Error {
	return &Error{
		Code:    ErrCodeTransport,
		Message: err.Error(),
		Err:     err,
	}
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{
		Code:    ErrCodeTimeout,
		Message: err.Error(),
		Err:     err,
	}
}

// NewInvalidURLError creates an invalid-URL error.
func NewInvalidURLError(rawURL string, err error) *Error {
	msg := fmt.Sprintf("invalid URL %q", rawURL)
	if err != nil {
		msg += ": " + err.Error()
	}
	return &Error{
		Code:    ErrCodeInvalidURL,
		Message: msg,
		Err:     err,
	}
}

// NewUnexpectedStatusError creates an error for a failed status assertion.
func NewUnexpectedStatusError(expected, actual int, body []byte) *Error {
	return &Error{
		StatusCode: actual,
		Code:       ErrCodeUnexpectedStatus,
		Message:    fmt.Sprintf("expected status %d, got %d", expected, actual),
		Body:       body,
	}
}

// NewUnexpectedContentTypeError creates an error for a failed content-type assertion.
func NewUnexpectedContentTypeError(expected, actual string, statusCode int) *Error {
	if actual == "" {
		actual = "none"
	}
	return &Error{
		StatusCode: statusCode,
		Code:       ErrCodeUnexpectedContentType,
		Message:    fmt.Sprintf("expected content type %s, got %s", expected, actual),
	}
}

// NewMalformedXMLError creates an XML parse error.
func NewMalformedXMLError(err error) *Error {
	return &Error{
		Code:    ErrCodeMalformedXML,
		Message: err.Error(),
		Err:     err,
	}
}

// NewEncodingError creates a body encoding/decoding error.
func NewEncodingError(msg string, err error) *Error {
	if err != nil {
		msg += ": " + err.Error()
	}
	return &Error{
		Code:    ErrCodeEncoding,
		Message: msg,
		Err:     err,
	}
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsTransport checks if an error is a transport error.
func IsTransport(err error) bool { return hasCode(err, ErrCodeTransport) }

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsInvalidURL checks if an error is an invalid-URL error.
func IsInvalidURL(err error) bool { return hasCode(err, ErrCodeInvalidURL) }

// IsUnexpectedStatus checks if an error is a failed status assertion.
func IsUnexpectedStatus(err error) bool { return hasCode(err, ErrCodeUnexpectedStatus) }

// IsUnexpectedContentType checks if an error is a failed content-type assertion.
func IsUnexpectedContentType(err error) bool { return hasCode(err, ErrCodeUnexpectedContentType) }

// IsMalformedXML checks if an error is an XML parse error.
func IsMalformedXML(err error) bool { return hasCode(err, ErrCodeMalformedXML) }

// IsEncoding checks if an error is a body encoding error.
func IsEncoding(err error) bool { return hasCode(err, ErrCodeEncoding) }
