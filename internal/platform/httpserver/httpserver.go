package httpserver

import (
	"net/http"
	"time"

	"digitalidentity/internal/platform/config"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 2 * time.Minute
	// writeGrace leaves room to write the 503 from the request timeout
	// middleware before the connection deadline hits.
	writeGrace = 5 * time.Second
)

// New builds the API server. Read and write deadlines follow the configured
// request timeout.
func New(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + writeGrace,
		IdleTimeout:       idleTimeout,
	}
}
