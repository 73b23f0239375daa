// Copyright (c) 2026 GameShelf. All rights reserved.

// Package auth implements the single-admin session flow: a password login
// that issues a signed expiry cookie, a session probe, and logout.
//
// # Architecture
//
// There are no user accounts. One bcrypt password hash is supplied through
// configuration and every authenticated session carries the same (full)
// privileges. The session token itself is the credential; nothing is stored
// server-side.
package auth

import (
	"time"

	"github.com/kael/gameshelf/internal/platform/apperr"
	"github.com/kael/gameshelf/internal/platform/sec"
)

// Service implements the login use case.
type Service struct {
	passwordHash string
	signer       *sec.SessionSigner
	sessionTTL   time.Duration
}

// NewService constructs the auth service around the configured admin
// password hash and token signer.
func NewService(passwordHash string, signer *sec.SessionSigner, sessionTTL time.Duration) *Service {
	return &Service{
		passwordHash: passwordHash,
		signer:       signer,
		sessionTTL:   sessionTTL,
	}
}

// LoginResult carries the issued session token and its expiry.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// Login verifies the password and issues a signed session token.
//
// # Returns
//   - A [LoginResult] with the cookie value and expiry on success.
//   - [apperr.Unauthorized] when the password does not match. The message is
//     deliberately generic.
func (service *Service) Login(password string) (*LoginResult, error) {
	// Bcrypt comparison is constant-time with respect to the hash.
	if !sec.CheckPasswordHash(password, service.passwordHash) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	expiresAt := time.Now().Add(service.sessionTTL)
	return &LoginResult{
		Token:     service.signer.Sign(expiresAt),
		ExpiresAt: expiresAt,
	}, nil
}

// SessionTTL returns the configured session lifetime.
func (service *Service) SessionTTL() time.Duration {
	return service.sessionTTL
}
