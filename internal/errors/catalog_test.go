package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrorCodeInvalidInput, "apps=-1")

	assert.Equal(t, ErrorCodeInvalidInput, err.Code)
	assert.Equal(t, GetMessage(ErrorCodeInvalidInput), err.Message)
	assert.Equal(t, "[INVALID_INPUT] "+err.Message+": apps=-1", err.Error())
}

func TestNew_WithoutDetails(t *testing.T) {
	err := New(ErrorCodeNoTier)
	assert.Equal(t, "[NO_TIER] "+GetMessage(ErrorCodeNoTier), err.Error())
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("yaml: line 3")

	err := Wrap(ErrorCodeInvalidTable, cause, "tiers.yaml")

	assert.Equal(t, "tiers.yaml: yaml: line 3", err.Details)
	assert.ErrorIs(t, err, cause)
}

func TestWrap_NilError(t *testing.T) {
	err := Wrap(ErrorCodeInternal, nil)
	assert.Nil(t, err.Err)
	assert.Empty(t, err.Details)
}

func TestGetMessage_Unknown(t *testing.T) {
	assert.Equal(t, "An unknown error occurred.", GetMessage(ErrorCode("NOPE")))
}

func TestAsPricingError_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("quote: %w", New(ErrorCodeInvalidInput))

	pricingErr, ok := AsPricingError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrorCodeInvalidInput, pricingErr.Code)

	assert.True(t, HasCode(wrapped, ErrorCodeInvalidInput))
	assert.False(t, HasCode(wrapped, ErrorCodeNoTier))
	assert.False(t, HasCode(nil, ErrorCodeNoTier))
}

func TestIs_MatchesByCode(t *testing.T) {
	sentinel := New(ErrorCodeNoTier)
	err := fmt.Errorf("resolve: %w", New(ErrorCodeNoTier, "apps=5"))

	assert.ErrorIs(t, err, sentinel)
	assert.NotErrorIs(t, err, New(ErrorCodeInvalidInput))
}
