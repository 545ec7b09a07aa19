// Package middleware provides the HTTP middleware shared by both services.
package middleware

import "net/http"

// Pipe is a composable HTTP middleware.
type Pipe func(http.Handler) http.Handler

// Link wraps h with the given pipes, outermost first.
func Link(h http.Handler, pipes ...Pipe) http.Handler {
	for i := len(pipes) - 1; i >= 0; i-- {
		h = pipes[i](h)
	}
	return h
}
