package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"modulos/pricing/internal/domain"
	apperrors "modulos/pricing/internal/errors"
	"modulos/pricing/internal/services"
	appcontext "modulos/pricing/pkg/context"
)

// SessionCookieName is the cookie that carries the session token for browsers
const SessionCookieName = "pricing_session"

// sessionToken returns the bearer token or, failing that, the session cookie.
// Other Authorization schemes are ignored.
func sessionToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// SessionMiddleware resolves the caller's gate session and stores it in the
// request context. It never rejects a request; RequireSession does that.
func SessionMiddleware(sessions *services.SessionService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessions.Validate(token)
			if err != nil {
				logger.Debug("Session token rejected",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.Error(err),
				)
				if session.State != domain.SessionExpired {
					next.ServeHTTP(w, r)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(domain.WithSession(r.Context(), session)))
		})
	}
}

// RequireSession rejects callers that have not passed the password gate
func RequireSession(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := domain.SessionFromContext(r.Context())
			switch session.State {
			case domain.SessionGranted:
				next.ServeHTTP(w, r)
			case domain.SessionExpired:
				writeError(logger, w, apperrors.New(apperrors.ErrorCodeSessionExpired))
			default:
				writeError(logger, w, apperrors.New(apperrors.ErrorCodeUnauthorized))
			}
		})
	}
}

// loggingMiddleware logs each request and hands a request-scoped logger to handlers
func loggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := middleware.GetReqID(r.Context())
			reqLogger := logger.With(zap.String("request_id", requestID))

			ctx := domain.WithRequestID(r.Context(), requestID)
			ctx = appcontext.WithLogger(ctx, reqLogger)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
			)
		})
	}
}
