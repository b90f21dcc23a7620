package memoryerr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSuccessEnvelope(t *testing.T) {
	start := time.Now()
	env := Success("stored", map[string]any{"id": "abc"}, nil, start)

	assert.True(t, env.Success)
	assert.Equal(t, "stored", env.Message)
	assert.Contains(t, env.Metadata, "duration_ms")
	assert.Empty(t, env.Error)
	assert.Empty(t, env.ErrorType)
}

func TestFailureEnvelopeDefaultsUnknown(t *testing.T) {
	start := time.Now()
	env := Failure(assertError("boom"), start)

	assert.False(t, env.Success)
	assert.Equal(t, UnknownError, env.ErrorType)
	assert.Contains(t, env.Error, "boom")
}

func TestFailureEnvelopeValidation(t *testing.T) {
	start := time.Now()
	err := Validation("secrets detected", map[string]any{"error_code": "SECRETS_DETECTED"})
	env := Failure(err, start)

	assert.False(t, env.Success)
	assert.Equal(t, ValidationError, env.ErrorType)
	assert.Equal(t, "SECRETS_DETECTED", env.Metadata["error_code"])
	assert.Contains(t, env.Metadata, "duration_ms")
}

func TestFailureEnvelopeNotFound(t *testing.T) {
	env := Failure(NotFound("memory not found", nil), time.Now())

	assert.Equal(t, NotFoundError, env.ErrorType)
	assert.Equal(t, "memory not found", env.Message)
}

type simpleError string

func (e simpleError) Error() string { return string(e) }

func assertError(msg string) error {
	return simpleError(msg)
}
