package rest

import "github.com/kbukum/restkit/httpclient"

// Error helpers delegate to httpclient's classification so callers of this
// package need not import httpclient for error checks.

// Error is the error type returned by this package.
type Error = httpclient.Error

// IsInvalidURL checks if the error is a malformed resource URL.
func IsInvalidURL(err error) bool { return httpclient.IsInvalidURL(err) }

// IsTransport checks if the error is a connection-level failure.
func IsTransport(err error) bool { return httpclient.IsTransport(err) }

// IsTimeout checks if the error is a timeout.
func IsTimeout(err error) bool { return httpclient.IsTimeout(err) }

// IsUnexpectedStatus checks if the error is a failed RequireStatus.
func IsUnexpectedStatus(err error) bool { return httpclient.IsUnexpectedStatus(err) }

// IsUnexpectedContentType checks if the error is a failed content-type assertion.
func IsUnexpectedContentType(err error) bool { return httpclient.IsUnexpectedContentType(err) }

// IsMalformedXML checks if the error is an unparsable XML body.
func IsMalformedXML(err error) bool { return httpclient.IsMalformedXML(err) }

// IsEncoding checks if the error is a body that could not be rendered or decoded.
func IsEncoding(err error) bool { return httpclient.IsEncoding(err) }
