package httpclient

import (
	"io"
	"net/http"
	"net/http/httputil"

	"github.com/kbukum/restkit/logger"
)

// debugTransport dumps each exchange through a JSON logger bound to a stream.
type debugTransport struct {
	next http.RoundTripper
	log  *logger.Logger
}

func newDebugTransport(next http.RoundTripper, w io.Writer, name string) *debugTransport {
	cfg := &logger.Config{Level: "debug", Format: "json", Timestamp: true}
	return &debugTransport{
		next: next,
		log:  logger.NewWriter(w, cfg, name).WithComponent("httpclient.debug"),
	}
}

func (t *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	log := t.log.WithContext(req.Context())
	if dump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Info("request", logger.Fields("dump", string(dump)))
	} else {
		log.Warn("request dump failed", logger.ErrorFields("dump_request", err))
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		log.Error("round trip failed", logger.ErrorFields("round_trip", err))
		return nil, err
	}

	if dump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Info("response", logger.Fields("dump", string(dump)))
	} else {
		log.Warn("response dump failed", logger.ErrorFields("dump_response", err))
	}
	return resp, nil
}
