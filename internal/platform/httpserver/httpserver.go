// Package httpserver builds the process's http.Server with the timeouts
// the service runs under.
package httpserver

import (
	"net/http"
	"time"
)

// New returns a server for addr. Per-request deadlines come from the
// timeout middleware; these guards cover slow clients at the socket level.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
