package log

import (
	"net/http"
	"time"
)

type loggingHandler struct {
	inner  http.Handler
	logger Logger
}

// NewLoggingHandler wraps an http.Handler so every request is logged with
// its method, path and duration. Used on the OAuth callback server when
// request logging is enabled.
func NewLoggingHandler(handler http.Handler, logger Logger) http.Handler {
	return &loggingHandler{inner: handler, logger: logger}
}

func (h *loggingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	h.inner.ServeHTTP(w, r)
	h.logger.Info("request handled",
		"method", r.Method,
		"path", r.URL.Path,
		"duration", time.Since(start))
}
