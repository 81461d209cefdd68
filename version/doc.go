// Package version reports the restkit build and produces the default
// User-Agent of its HTTP clients.
//
//	go build -ldflags "-X github.com/kbukum/restkit/version.Version=1.4.0"
package version
