// Copyright (c) 2026 GameShelf. All rights reserved.

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kael/gameshelf/internal/platform/constants"
	requestutil "github.com/kael/gameshelf/internal/platform/request"
	"github.com/kael/gameshelf/internal/platform/respond"
	"github.com/kael/gameshelf/internal/platform/validate"
)

// Handler implements the authentication HTTP endpoints.
type Handler struct {
	authService *Service

	// secureCookies marks issued cookies Secure; disabled only for local
	// plain-HTTP development.
	secureCookies bool
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{authService: service, secureCookies: secureCookies}
}

// Routes returns a [chi.Router] configured with the auth endpoints.
//
// # Endpoints
//   - POST /login   : Verifies the password and sets the session cookie.
//   - GET  /session : Reports whether the current session is authenticated.
//   - POST /logout  : Expires the session cookie.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Get("/session", handler.session)
	router.Post("/logout", handler.logout)

	return router
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Password string `json:"password"`
}

// login handles POST /api/auth/login requests.
//
// # Returns
//   - Writes HTTP 200 OK on success; the session travels as an HttpOnly
//     cookie, never in the response body.
//   - Writes HTTP 401 Unauthorized for a wrong password.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Password == "" {
		respond.Error(writer, request, validate.RequiredError("password", "is required"))
		return
	}

	result, err := handler.authService.Login(input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, handler.sessionCookie(result.Token, result.ExpiresAt))
	respond.OK(writer, sessionResponse{
		Authenticated: true,
		ExpiresAt:     result.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// sessionResponse reports the authentication state of the caller.
type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	ExpiresAt     string `json:"expiresAt,omitempty"`
}

// session handles GET /api/auth/session requests.
//
// An unauthenticated caller gets a 200 with authenticated=false; being
// logged out is a normal state, not an error.
func (handler *Handler) session(writer http.ResponseWriter, request *http.Request) {
	session := requestutil.Session(request)
	if session == nil {
		respond.OK(writer, sessionResponse{Authenticated: false})
		return
	}

	respond.OK(writer, sessionResponse{
		Authenticated: true,
		ExpiresAt:     session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// logout handles POST /api/auth/logout requests. Idempotent: logging out
// without a session still succeeds.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	expired := handler.sessionCookie("", time.Unix(0, 0))
	expired.MaxAge = -1
	http.SetCookie(writer, expired)

	respond.OK(writer, sessionResponse{Authenticated: false})
}

func (handler *Handler) sessionCookie(value string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
