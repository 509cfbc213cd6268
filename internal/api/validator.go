package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "modulos/pricing/internal/errors"
)

const maxBodyBytes = 1 << 20

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names instead of Go field names
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// decodeJSON reads a single JSON object from the request body
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.ErrorCodeInvalidRequest, err)
	}
	if dec.More() {
		return apperrors.New(apperrors.ErrorCodeInvalidRequest, "body must contain a single JSON object")
	}
	return nil
}

// ValidateRequest validates a struct using the validator package
func ValidateRequest(logger *zap.Logger, w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		logger.Warn("Validation failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)

		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			writeError(logger, w, apperrors.Wrap(apperrors.ErrorCodeInvalidRequest, err))
			return false
		}

		problems := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			problems = append(problems, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
		writeError(logger, w, apperrors.New(apperrors.ErrorCodeInvalidRequest, strings.Join(problems, "; ")))
		return false
	}
	return true
}
