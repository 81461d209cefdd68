// Package observability wires OpenTelemetry into restkit.
//
// InitTracer and InitMeter install OTLP/HTTP exporting providers as the
// process globals, which httpclient picks up unless explicit providers are
// passed to it:
//
//	tp, err := observability.InitTracer(ctx, &cfg.Tracing)
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, &cfg.Metrics)
//	defer mp.Shutdown(ctx)
//
// HTTPClientMetrics holds the instruments recorded for every outbound
// request: http.client.requests, http.client.request.duration and
// http.client.errors.
package observability
