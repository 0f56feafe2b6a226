package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Matching and Lookup Tests
// ==========================

func TestStandardError_IsMatchesByCode(t *testing.T) {
	err := NewEmptyCorpusError("all 12 entries filtered")
	wrapped := fmt.Errorf("rank: %w", err)

	assert.True(t, stderrors.Is(wrapped, ErrEmptyCorpus))
	assert.False(t, stderrors.Is(wrapped, ErrEmptyCatalog))
	assert.Equal(t, ErrCodeEmptyCorpus, CodeOf(wrapped))
}

func TestStandardError_UnwrapKeepsCause(t *testing.T) {
	err := NewGenerationTimeoutError(2*time.Second, context.DeadlineExceeded)

	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
	assert.True(t, err.Retryable)
	assert.Contains(t, err.Error(), "GENERATION_TIMEOUT")
}

func TestAsStandardError(t *testing.T) {
	assert.Nil(t, AsStandardError(nil))

	plain := AsStandardError(stderrors.New("socket closed"))
	require.NotNil(t, plain)
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "socket closed", plain.Details)

	profileErr := NewInvalidProfileError([]string{"name: required", "gpa: must be <= 4"})
	got := AsStandardError(fmt.Errorf("wrapped: %w", profileErr))
	assert.Same(t, profileErr, got)
	assert.Equal(t, "name: required; gpa: must be <= 4", got.Details)
}

// ==========================
// Policy Tests
// ==========================

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeGenerationTimeout, 1},
		{ErrCodeEmbeddingFailed, 2},
		{ErrCodeGenerationEmpty, 0},
		{ErrCodeGenerationFailed, 0},
		{ErrCodeInvalidProfile, 0},
		{ErrCodeEmptyCorpus, 0},
		{ErrCodeEmptyCatalog, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetRetryCount(tt.code))
			assert.Equal(t, tt.want > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrCodeInvalidProfile))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrCodeInvalidRequest))
	assert.Equal(t, http.StatusGatewayTimeout, HTTPStatus(ErrCodeGenerationTimeout))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(ErrCodeGenerationEmpty))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrCodeEmptyCatalog))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrCodeInternal))
}

func TestConvertToBPMNError(t *testing.T) {
	timeoutErr := NewGenerationTimeoutError(time.Second, nil)
	bpmn := ConvertToBPMNError(timeoutErr)

	assert.Equal(t, "GENERATION_TIMEOUT", bpmn.Code)
	assert.Equal(t, 1, bpmn.Retries)
	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "GENERATION_TIMEOUT", vars["errorCode"])
	assert.Equal(t, "GENERATION_TIMEOUT", vars["originalErrorCode"])

	emptyErr := NewGenerationEmptyError("no paragraph break")
	assert.Equal(t, 0, ConvertToBPMNError(emptyErr).Retries)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidProfile))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeGenerationEmpty))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeEmbeddingFailed))
	assert.Equal(t, "CONFIGURATION", GetErrorCategory(ErrCodeEmptyCatalog))
	assert.Equal(t, "CONFIGURATION", GetErrorCategory(ErrCodeCorpusLoadFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}
