package testutil

import (
	"net/http"
	"time"

	"reviewcycle/pkg/requestcontext"
)

// WithActor marks the request as made by actor, as the gateway header middleware would.
func WithActor(req *http.Request, actor string) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}

// WithTime pins the request clock.
func WithTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
