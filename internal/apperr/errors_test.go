package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	t.Run("message only", func(t *testing.T) {
		err := NewValidation("bad input")
		assert.Equal(t, "bad input", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("wrapped", func(t *testing.T) {
		inner := errors.New("index out of range")
		err := NewValidationWrap("jump target", inner)
		assert.Equal(t, "jump target: index out of range", err.Error())
		assert.ErrorIs(t, err, inner)
	})

	t.Run("errors.As through wrapping", func(t *testing.T) {
		err := fmt.Errorf("handler: %w", NewValidation("bad input"))
		var ve *ValidationError
		assert.True(t, errors.As(err, &ve))
	})
}

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewNotFound("pair q1/d1 is not in the pool"))
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, "pair q1/d1 is not in the pool", nf.Message)
}
