// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod returns an [http.HandlerFunc] that is intended to be
// registered as the router's MethodNotAllowed handler via
// [chi.Mux.MethodNotAllowed].
//
// Chi's default behaviour is to respond with HTTP 405 Method Not Allowed
// whenever a request path matches a registered route but the HTTP method
// is not handled. This function overrides that behaviour: if the requested
// method is not registered for the path, notFound answers instead, so a
// caller using an unsupported method cannot tell the route exists.
//
// The lookup uses [chi.Mux.Match] with a fresh routing context, so
// parameterised patterns such as "/books/{id}/edit" are matched the same way
// the router matches them. If the method IS registered, the request is
// routed again from the top.
//
// Usage:
//
//	router := chi.NewRouter()
//	// ... register routes ...
//	router.MethodNotAllowed(CheckHTTPMethod(router, notFound))
func CheckHTTPMethod(router *chi.Mux, notFound http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !router.Match(chi.NewRouteContext(), r.Method, r.URL.Path) {
			notFound(w, r)
			return
		}

		// drop the routing state of the failed match before routing again
		ctx := context.WithValue(r.Context(), chi.RouteCtxKey, nil)
		router.ServeHTTP(w, r.WithContext(ctx))
	}
}
