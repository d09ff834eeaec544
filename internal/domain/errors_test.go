package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapErrorKeepsKindAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(ErrNetwork, "moondream query", cause)

	assert.True(t, IsKind(err, ErrNetwork))
	assert.False(t, IsKind(err, ErrService))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "moondream query: network failure: connection refused", err.Error())
}

func TestWrapErrorNil(t *testing.T) {
	assert.NoError(t, WrapError(ErrParse, "parse", nil))
}

func TestKindOf(t *testing.T) {
	cause := errors.New("boom")
	assert.Equal(t, "ok", KindOf(nil))
	assert.Equal(t, "missing_credential", KindOf(WrapError(ErrMissingCredential, "analyze", cause)))
	assert.Equal(t, "invalid_input", KindOf(WrapError(ErrInvalidInput, "analyze", cause)))
	assert.Equal(t, "network", KindOf(WrapError(ErrNetwork, "query", cause)))
	assert.Equal(t, "service", KindOf(WrapError(ErrService, "query", cause)))
	assert.Equal(t, "parse", KindOf(WrapError(ErrParse, "parse", cause)))
	assert.Equal(t, "unknown", KindOf(cause))
}
