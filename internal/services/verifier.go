package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apperrors "modulos/pricing/internal/errors"
)

// ErrInvalidCredentials is returned by a CredentialVerifier when the secret does not match.
var ErrInvalidCredentials = apperrors.New(apperrors.ErrorCodeInvalidCredentials)

// CredentialVerifier checks a presented secret against the configured gate credential.
type CredentialVerifier interface {
	Verify(ctx context.Context, secret string) error
}

// BcryptVerifier verifies secrets against a bcrypt hash
type BcryptVerifier struct {
	hash   []byte
	logger *zap.Logger
}

// NewBcryptVerifier creates a verifier from an existing bcrypt hash
func NewBcryptVerifier(hash string, logger *zap.Logger) (*BcryptVerifier, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid password hash: %w", err)
	}
	return &BcryptVerifier{
		hash:   []byte(hash),
		logger: logger,
	}, nil
}

// NewBcryptVerifierFromPassword hashes a plaintext password at startup
func NewBcryptVerifierFromPassword(password string, logger *zap.Logger) (*BcryptVerifier, error) {
	if password == "" {
		return nil, errors.New("password must not be empty")
	}
	hash, err := HashPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return NewBcryptVerifier(hash, logger)
}

// Verify returns ErrInvalidCredentials when secret does not match the hash
func (v *BcryptVerifier) Verify(ctx context.Context, secret string) error {
	err := bcrypt.CompareHashAndPassword(v.hash, []byte(secret))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}
	v.logger.Error("Password comparison failed", zap.Error(err))
	return apperrors.Wrap(apperrors.ErrorCodeInternal, err, "password comparison failed")
}

// HashPassword hashes a password with bcrypt at the given cost
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
