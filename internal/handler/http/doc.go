// Package http implements the web front of the library: route wiring, page
// handlers, server-rendered templates and the middleware in front of them.
//
// Cross-cutting concerns such as request tracing, access logging, response
// compression and session resolution are handled in this package before
// requests are delegated to the service layer. Every form submission is
// answered with a redirect carrying a one-shot notice cookie.
package http
