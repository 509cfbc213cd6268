package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apperrors "modulos/pricing/internal/errors"
)

// statusForCode maps catalog codes to HTTP status codes
func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrorCodeInvalidInput, apperrors.ErrorCodeInvalidRequest:
		return http.StatusBadRequest
	case apperrors.ErrorCodeNoTier:
		return http.StatusUnprocessableEntity
	case apperrors.ErrorCodeInvalidCredentials, apperrors.ErrorCodeUnauthorized, apperrors.ErrorCodeSessionExpired:
		return http.StatusUnauthorized
	case apperrors.ErrorCodeRateLimited, apperrors.ErrorCodeLockedOut:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError renders err as {"code","message","details"}. Errors outside the
// catalog become INTERNAL_ERROR without leaking their text.
func writeError(logger *zap.Logger, w http.ResponseWriter, err error) {
	pricingErr, ok := apperrors.AsPricingError(err)
	if !ok {
		logger.Error("Unhandled error", zap.Error(err))
		pricingErr = apperrors.New(apperrors.ErrorCodeInternal)
	}

	status := statusForCode(pricingErr.Code)
	if status == http.StatusInternalServerError {
		// internal details stay in the logs
		pricingErr = apperrors.New(pricingErr.Code)
	}
	writeJSON(logger, w, status, pricingErr)
}
