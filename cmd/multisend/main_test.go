package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dyachv/multisend/internal/engine"
)

func TestExitCodeForRunError(t *testing.T) {
	assert.Equal(t, exitConfigError, exitCodeForRunError(engine.ErrInvalidConcurrency))
	assert.Equal(t, exitConfigError, exitCodeForRunError(engine.ErrInvalidTimeout))

	wrapped := errors.Join(errors.New("run aborted"), engine.ErrInvalidTimeout)
	assert.Equal(t, exitConfigError, exitCodeForRunError(wrapped))

	assert.Equal(t, exitTransferFailed, exitCodeForRunError(errors.New("fetch recent blockhash: rpc unreachable")))
}
