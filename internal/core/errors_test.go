package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsClassificationError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, AsClassificationError(nil))
	})

	t.Run("wrapped classification error is preserved", func(t *testing.T) {
		appErr := NewApplicationError(422, "text field required", nil)

		got := AsClassificationError(fmt.Errorf("classify: %w", appErr))

		assert.Same(t, appErr, got)
	})

	t.Run("foreign error becomes transport error", func(t *testing.T) {
		cause := errors.New("connection reset by peer")

		got := AsClassificationError(cause)

		assert.Equal(t, KindTransport, got.Kind)
		assert.Equal(t, MsgServerUnreachable, got.Message)
		assert.ErrorIs(t, got, cause)
	})
}

func TestNewApplicationError(t *testing.T) {
	assert.Equal(t, "API request failed", NewApplicationError(502, "", nil).Message)
	assert.Equal(t, "bad input", NewApplicationError(400, "bad input", nil).Message)
	assert.Equal(t, 400, NewApplicationError(400, "bad input", nil).StatusCode)
}

func TestClassificationError_Error(t *testing.T) {
	assert.Equal(t, "validation: Please enter email content to analyze.", NewValidationError(MsgEmptyInput).Error())
	assert.Equal(t,
		"malformed_response: No classification result returned (caused by: classification response contains no results)",
		NewMalformedResponseError(ErrNoResults).Error())
}
