package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	e := NewError(ErrConfiguration, "OPENAI_API_KEY is not set")
	assert.Equal(t, "[CONFIGURATION] OPENAI_API_KEY is not set", e.Error())

	cause := errors.New("permission denied")
	e = NewError(ErrFilesystem, "create log dir").WithCause(cause)
	assert.Equal(t, "[FILESYSTEM] create log dir: permission denied", e.Error())
	assert.Equal(t, cause, errors.Unwrap(e))
}

func TestError_Builders(t *testing.T) {
	e := NewError(ErrRateLimited, "too many requests").
		WithHTTPStatus(429).
		WithRetryable(true).
		WithProvider("openai")

	assert.Equal(t, 429, e.HTTPStatus)
	assert.True(t, e.Retryable)
	assert.Equal(t, "openai", e.Provider)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewError(ErrUpstreamError, "502").WithRetryable(true)))
	assert.False(t, IsRetryable(NewError(ErrUnauthorized, "401")))
	assert.False(t, IsRetryable(errors.New("plain error")))

	// 包装后仍可识别
	wrapped := fmt.Errorf("probe: %w", NewError(ErrRateLimited, "429").WithRetryable(true))
	assert.True(t, IsRetryable(wrapped))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrAgentRun, GetErrorCode(NewError(ErrAgentRun, "step budget exhausted")))
	assert.Equal(t, ErrorCode(""), GetErrorCode(errors.New("plain")))
}

func TestIsFatalStartup(t *testing.T) {
	assert.True(t, IsFatalStartup(NewError(ErrConfiguration, "missing key")))
	assert.True(t, IsFatalStartup(NewError(ErrFilesystem, "mkdir failed")))
	assert.False(t, IsFatalStartup(NewError(ErrAgentRun, "run failed")))
	assert.False(t, IsFatalStartup(errors.New("plain")))
}
