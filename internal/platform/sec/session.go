// Copyright (c) 2026 GameShelf. All rights reserved.

// Package sec provides cryptographic primitives and session token management.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, HMAC token
// signing) from the domain logic. It acts as an Infrastructure service injected
// into the Application layer via the [TokenVerifier] interface consumed by the
// middleware.
package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Session represents a verified, still-valid session token.
//
// The tracker is single-user, so a session carries no identity beyond its
// expiry. Possession of a validly signed, unexpired token is the identity.
type Session struct {
	// ExpiresAt is the instant after which the token is rejected.
	ExpiresAt time.Time
}

// Token verification failure modes. All of them are "unauthenticated", not
// exceptional conditions; callers translate them into a 401.
var (
	// ErrMalformedToken is returned when the token does not have the
	// two-part "expiry.signature" shape.
	ErrMalformedToken = errors.New("sec: malformed session token")

	// ErrBadSignature is returned when the HMAC does not verify.
	ErrBadSignature = errors.New("sec: invalid session signature")

	// ErrExpiredToken is returned when the signature verifies but the
	// embedded expiry is in the past.
	ErrExpiredToken = errors.New("sec: session expired")
)

// SessionSigner issues and verifies stateless session tokens.
//
// # Token Format
//
// A token is the string "expiresEpochMillis.base64urlSignature" where the
// signature is HMAC-SHA256 over the decimal expiry string. There is no
// server-side session store: expiry and signature together are the whole
// session state.
type SessionSigner struct {
	secret []byte
}

// NewSessionSigner creates a signer around the shared session secret.
func NewSessionSigner(secret string) *SessionSigner {
	return &SessionSigner{secret: []byte(secret)}
}

// Sign issues a token that is valid until expiresAt.
func (signer *SessionSigner) Sign(expiresAt time.Time) string {
	expiry := strconv.FormatInt(expiresAt.UnixMilli(), 10)
	return expiry + "." + signer.signature(expiry)
}

// Verify checks a token's shape, signature, and expiry.
//
// It returns the decoded [Session] on success, or one of the package-level
// errors on failure. Expired and malformed tokens are both unauthenticated;
// the distinction exists only for logging.
func (signer *SessionSigner) Verify(token string) (*Session, error) {
	expiry, signature, found := strings.Cut(token, ".")
	if !found || expiry == "" || signature == "" {
		return nil, ErrMalformedToken
	}

	epochMillis, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil {
		return nil, ErrMalformedToken
	}

	// Constant-time comparison of the recomputed signature.
	if !hmac.Equal([]byte(signer.signature(expiry)), []byte(signature)) {
		return nil, ErrBadSignature
	}

	expiresAt := time.UnixMilli(epochMillis)
	if time.Now().After(expiresAt) {
		return nil, ErrExpiredToken
	}

	return &Session{ExpiresAt: expiresAt}, nil
}

// signature computes the base64url-encoded HMAC-SHA256 of the expiry string.
func (signer *SessionSigner) signature(expiry string) string {
	mac := hmac.New(sha256.New, signer.secret)
	mac.Write([]byte(expiry))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
