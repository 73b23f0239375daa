// Copyright (c) 2026 GameShelf. All rights reserved.

// Package middleware provides the HTTP middleware chain for the GameShelf API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthZ/AuthN, and Rate Limiting.
package middleware

import (
	"context"
	"net/http"

	"github.com/kael/gameshelf/internal/platform/apperr"
	"github.com/kael/gameshelf/internal/platform/constants"
	"github.com/kael/gameshelf/internal/platform/ctxkey"
	"github.com/kael/gameshelf/internal/platform/respond"
	"github.com/kael/gameshelf/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify session tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the `sec` signer
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	Verify(token string) (*sec.Session, error)
}

// Authenticate extracts and verifies the session cookie.
//
// # Flow
//  1. Check for the session cookie.
//  2. If absent, request proceeds as anonymous.
//  3. If present, verify the HMAC token via [TokenVerifier]. Expired or
//     malformed tokens are treated as anonymous rather than rejected outright,
//     so read-only endpoints keep working for a logged-out browser.
//  4. Inject [*sec.Session] into the request context for downstream use.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			cookie, err := request.Cookie(constants.SessionCookieName)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			session, err := verifier.Verify(cookie.Value)
			if err != nil {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := context.WithValue(request.Context(), ctxkey.KeySession, session)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.Session] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		session := GetSession(request.Context())
		if session == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// GetSession retrieves the [*sec.Session] from the [context.Context].
//
// # Returns
//   - A pointer to [sec.Session] if the request is authenticated.
//   - nil if the request is anonymous.
func GetSession(ctx context.Context) *sec.Session {
	session, ok := ctx.Value(ctxkey.KeySession).(*sec.Session)
	if !ok {
		return nil
	}
	return session
}
