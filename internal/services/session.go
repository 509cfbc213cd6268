package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"modulos/pricing/internal/domain"
	apperrors "modulos/pricing/internal/errors"
)

// SessionService issues and validates the signed tokens that carry a granted gate session
type SessionService struct {
	secret     []byte
	expiration time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

type SessionClaims struct {
	SessionID string `json:"sid"`
	Granted   bool   `json:"granted"`
	jwt.RegisteredClaims
}

// NewSessionService creates a new session service
func NewSessionService(secret string, expiration time.Duration, logger *zap.Logger) *SessionService {
	return &SessionService{
		secret:     []byte(secret),
		expiration: expiration,
		logger:     logger,
		now:        time.Now,
	}
}

// Expiration returns how long issued sessions stay valid
func (s *SessionService) Expiration() time.Duration {
	return s.expiration
}

// Issue starts a new granted session and returns its signed token
func (s *SessionService) Issue() (string, domain.Session, error) {
	now := s.now()
	session := domain.Session{
		ID:        uuid.New().String(),
		State:     domain.SessionGranted,
		ExpiresAt: now.Add(s.expiration).Truncate(time.Second),
	}

	claims := &SessionClaims{
		SessionID: session.ID,
		Granted:   true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", domain.Session{}, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Debug("Session issued", zap.String("session_id", session.ID), zap.Time("expires_at", session.ExpiresAt))
	return tokenString, session, nil
}

// Validate parses a session token. Expired tokens return SESSION_EXPIRED,
// anything else unusable returns UNAUTHORIZED.
func (s *SessionService) Validate(tokenString string) (domain.Session, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Session{ID: claims.SessionID, State: domain.SessionExpired},
				apperrors.Wrap(apperrors.ErrorCodeSessionExpired, err)
		}
		return domain.Session{}, apperrors.Wrap(apperrors.ErrorCodeUnauthorized, err, "failed to parse token")
	}

	if !token.Valid || !claims.Granted || claims.SessionID == "" {
		return domain.Session{}, apperrors.New(apperrors.ErrorCodeUnauthorized, "invalid token")
	}

	session := domain.Session{
		ID:    claims.SessionID,
		State: domain.SessionGranted,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
