// Package server runs the library's HTTP server.
//
// It owns the listener lifecycle: startup, shutdown when the run context is
// cancelled and the bounded wait for in-flight requests to finish.
package server
