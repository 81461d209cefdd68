// Package logger provides structured logging for restkit using zerolog.
//
// It supports JSON and console output, per-logger levels, writer-backed
// loggers (used by the HTTP debug interceptor) and component-scoped
// loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("orders-api")
//	log.Info("resource created", logger.Fields("url", u, "status", 201))
package logger
