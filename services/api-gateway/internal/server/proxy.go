package server

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/api-gateway/internal/contextkeys"
)

// CreateProxy builds a reverse proxy that forwards the original request path
// under the internal API prefix of the target service. No response timeout
// is applied; the client decides how long it is willing to wait.
func CreateProxy(targetURL, pathPrefix string) http.Handler {
	proxy := newReverseProxy(targetURL, pathPrefix)
	return proxy
}

// CreateSSEProxy is CreateProxy for streaming endpoints: responses are
// flushed to the client as they arrive instead of being buffered.
func CreateSSEProxy(targetURL, pathPrefix string) http.Handler {
	proxy := newReverseProxy(targetURL, pathPrefix)
	proxy.FlushInterval = -1
	return proxy
}

func newReverseProxy(targetURL, pathPrefix string) *httputil.ReverseProxy {
	target, err := url.Parse(targetURL)
	if err != nil {
		log.Fatalf("Invalid target URL: %v", err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)

	proxy.Director = func(req *http.Request) {
		req.URL.Scheme = target.Scheme
		req.URL.Host = target.Host
		req.Host = target.Host

		// /tasks/123 becomes /api/v1/tasks/123 on the target service.
		// Query parameters live in RawQuery and pass through untouched.
		req.URL.Path = pathPrefix + req.URL.Path

		traceID := contextkeys.TraceIDFromContext(req.Context())
		if traceID != "" {
			req.Header.Set("X-Trace-ID", traceID)
		}
	}

	return proxy
}
