package docbot_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/docbot"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := docbot.Errorf(docbot.ENOTFOUND, "source %q not found", "handbook/values")

	assert.Equal(t, docbot.ENOTFOUND, docbot.ErrorCode(err))
	assert.Equal(t, "source \"handbook/values\" not found", docbot.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docbot.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docbot.ErrorMessage(nil))
}

func TestErrorCode_UnwrapsWrappedErrors(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("load index: %w", docbot.Errorf(docbot.ECORRUPT, "truncated vector"))

	assert.Equal(t, docbot.ECORRUPT, docbot.ErrorCode(err))
	assert.Equal(t, "truncated vector", docbot.ErrorMessage(err))
}

func TestErrorCode_ForeignErrorIsInternal(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, docbot.EINTERNAL, docbot.ErrorCode(err))
	assert.Equal(t, "Internal error.", docbot.ErrorMessage(err))
}

func TestIsIntegrityError(t *testing.T) {
	t.Parallel()

	assert.True(t, docbot.IsIntegrityError(docbot.Errorf(docbot.EDIMENSION, "x")))
	assert.True(t, docbot.IsIntegrityError(docbot.Errorf(docbot.ECORRUPT, "x")))
	assert.False(t, docbot.IsIntegrityError(docbot.Errorf(docbot.EEMBEDDING, "x")))
	assert.False(t, docbot.IsIntegrityError(nil))
}
