package auth

import (
	"context"
	"net/http"

	"ledger/internal/access"
)

type callerKey struct{}

// Verifier resolves a bearer token into a caller.
type Verifier interface {
	Verify(token string) (access.Caller, error)
}

// WithCaller stores caller in ctx.
func WithCaller(ctx context.Context, caller access.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the caller resolved for this request.
func CallerFromContext(ctx context.Context) (access.Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(access.Caller)
	return caller, ok
}

// Middleware resolves the caller from the Authorization header. Requests
// without a valid token are handed to reject and never reach next.
func Middleware(v Verifier, reject func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				reject(w, r, err)
				return
			}
			caller, err := v.Verify(token)
			if err != nil {
				reject(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}
