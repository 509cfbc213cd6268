package api

import (
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"modulos/pricing/internal/domain"
	apperrors "modulos/pricing/internal/errors"
	"modulos/pricing/internal/services"
	appcontext "modulos/pricing/pkg/context"
)

type AuthHandlers struct {
	logger   *zap.Logger
	sessions *services.SessionService
	verifier services.CredentialVerifier
	guard    *services.LoginGuard
}

// NewAuthHandlers creates the password gate handlers
func NewAuthHandlers(logger *zap.Logger, sessions *services.SessionService, verifier services.CredentialVerifier, guard *services.LoginGuard) *AuthHandlers {
	return &AuthHandlers{
		logger:   logger,
		sessions: sessions,
		verifier: verifier,
		guard:    guard,
	}
}

type LoginRequest struct {
	Password string `json:"password" validate:"required,max=256"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionResponse struct {
	State     domain.SessionState `json:"state"`
	SessionID string              `json:"session_id,omitempty"`
	ExpiresAt *time.Time          `json:"expires_at,omitempty"`
}

// clientKey identifies the caller for rate limiting; RealIP has already run
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func isSecure(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}

func (h *AuthHandlers) writeRetryAfter(w http.ResponseWriter, key string) {
	if d := h.guard.RetryAfter(key); d > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(d.Seconds()))))
	}
}

// POST /api/auth/login
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	logger := appcontext.LoggerFromContext(r.Context())
	key := clientKey(r)

	if err := h.guard.Allow(key); err != nil {
		logger.Warn("Login attempt refused", zap.String("client", key), zap.Error(err))
		h.writeRetryAfter(w, key)
		writeError(h.logger, w, err)
		return
	}

	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(h.logger, w, err)
		return
	}
	if !ValidateRequest(h.logger, w, r, &req) {
		return
	}

	if err := h.verifier.Verify(r.Context(), req.Password); err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			writeError(h.logger, w, err)
			return
		}
		locked := h.guard.RecordFailure(key)
		logger.Warn("Login failed", zap.String("client", key), zap.Bool("locked", locked))
		writeError(h.logger, w, apperrors.New(apperrors.ErrorCodeInvalidCredentials))
		return
	}
	h.guard.RecordSuccess(key)

	token, session, err := h.sessions.Issue()
	if err != nil {
		writeError(h.logger, w, apperrors.Wrap(apperrors.ErrorCodeInternal, err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(h.sessions.Expiration() / time.Second),
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("Session granted", zap.String("session_id", session.ID))
	writeJSON(h.logger, w, http.StatusOK, LoginResponse{
		Token:     token,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	})
}

// GET /api/auth/session
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	session := domain.SessionFromContext(r.Context())

	resp := SessionResponse{State: session.State, SessionID: session.ID}
	if session.Granted() {
		expiresAt := session.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}
	writeJSON(h.logger, w, http.StatusOK, resp)
}

// POST /api/auth/logout clears the browser cookie. Bearer tokens stay valid
// until they expire.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(h.logger, w, http.StatusOK, SessionResponse{State: domain.SessionUnset})
}
