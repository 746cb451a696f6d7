// Package handlers exposes the ledger over a JSON HTTP API with cookie sessions.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/ledger"
	"finance-tracker/internal/log"
	"finance-tracker/internal/models"
	"finance-tracker/internal/storage"
	"finance-tracker/internal/summary"
)

// Context key type to avoid collisions.
type contextKey string

const (
	// UserContextKey is the context key for the authenticated user.
	UserContextKey contextKey = "user"
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session"
	// SessionDuration is how long sessions last when Options.SessionTTL is zero (30 days).
	SessionDuration = 30 * 24 * time.Hour
)

// Options holds dependencies for HTTP handlers.
type Options struct {
	DB           *storage.DB
	Auth         *auth.Service
	Ledger       *ledger.Ledger
	Summary      *summary.Engine
	SessionTTL   time.Duration
	SecureCookie bool
	Logger       *log.Logger
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	db           *storage.DB
	auth         *auth.Service
	ledger       *ledger.Ledger
	summary      *summary.Engine
	sessionTTL   time.Duration
	secureCookie bool
	log          *log.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(opts Options) *Handlers {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = SessionDuration
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	return &Handlers{
		db:           opts.DB,
		auth:         opts.Auth,
		ledger:       opts.Ledger,
		summary:      opts.Summary,
		sessionTTL:   opts.SessionTTL,
		secureCookie: opts.SecureCookie,
		log:          opts.Logger.WithComponent(log.ComponentHTTP),
	}
}

// GetUserFromContext retrieves the authenticated user from request context.
func GetUserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// AuthMiddleware wraps handlers to require authentication.
// It also implements rolling sessions: if a session is past the halfway point
// of its lifetime, it automatically renews the session.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		sessionInfo, err := h.db.ValidateSessionWithInfo(r.Context(), cookie.Value)
		if errors.Is(err, models.ErrNotFound) {
			// Invalid or expired session, clear the cookie
			h.clearSessionCookie(w)
			writeError(w, http.StatusUnauthorized, "session expired")
			return
		}
		if err != nil {
			h.fail(w, r, err)
			return
		}

		// Rolling session: renew if past halfway point
		now := time.Now()
		if sessionInfo.ExpiresAt.Sub(now) < h.sessionTTL/2 {
			if err := h.db.RenewSession(r.Context(), cookie.Value, now.Add(h.sessionTTL)); err == nil {
				h.setSessionCookie(w, cookie.Value)
			} else {
				// If renewal fails, just continue with the current session
				h.log.Warn("Session renewal failed", log.FieldUserID, sessionInfo.User.ID, log.FieldError, err)
			}
		}

		ctx := context.WithValue(r.Context(), UserContextKey, sessionInfo.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Signup registers a new user.
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if !h.decode(w, r, &c) {
		return
	}
	username := auth.NormalizeUsername(c.Username)

	id, err := h.auth.Register(r.Context(), username, c.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, userResponse{ID: id, Username: username})
}

// Login verifies credentials and starts a session.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if !h.decode(w, r, &c) {
		return
	}
	username := auth.NormalizeUsername(c.Username)

	if username == "" || c.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	id, err := h.auth.Authenticate(r.Context(), username, c.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	// Generate session token
	token, err := auth.GenerateSessionToken()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.db.CreateSession(r.Context(), token, id, time.Now().Add(h.sessionTTL)); err != nil {
		h.fail(w, r, err)
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, userResponse{ID: id, Username: username})
}

// Logout handles user logout.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.db.DeleteSession(r.Context(), cookie.Value); err != nil {
			h.log.Error("Failed to delete session", log.FieldError, err)
		}
	}
	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Username: user.Username})
}

// Categories lists the allowed categories per transaction type.
func (h *Handlers) Categories(w http.ResponseWriter, r *http.Request) {
	cats := h.ledger.Categories()
	writeJSON(w, http.StatusOK, map[string][]string{
		"expense": cats.For(models.Expense),
		"income":  cats.For(models.Income),
	})
}

// Healthz reports whether the store is reachable.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case models.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// fail writes err as a JSON error. Server-side failures are logged and their
// details withheld from the client.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusServiceUnavailable:
		msg = "store unavailable, please try again later"
	case http.StatusInternalServerError:
		msg = "internal server error"
	}
	if status >= 500 {
		h.log.ErrorContext(r.Context(), "Request failed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
	}
	writeError(w, status, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
