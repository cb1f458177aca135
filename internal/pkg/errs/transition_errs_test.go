package errs_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidTransitionError(t *testing.T) {
	t.Run("NewInvalidTransitionError", func(t *testing.T) {
		err := errs.NewInvalidTransitionError("order", "pending_driver_approval", "delivered")

		assert.Equal(t, "order", err.Entity)
		assert.Equal(t, "pending_driver_approval", err.From)
		assert.Equal(t, "delivered", err.To)
		require.NoError(t, err.Cause)
		assert.Equal(t,
			"invalid transition: order cannot move from pending_driver_approval to delivered",
			err.Error())
		assert.Equal(t, errs.ErrInvalidTransition, err.Unwrap())
	})

	t.Run("NewInvalidTransitionErrorWithCause", func(t *testing.T) {
		cause := errors.New("sub-order already rejected")
		err := errs.NewInvalidTransitionErrorWithCause("store sub-order", "store_rejected", "store_preparing", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"invalid transition: store sub-order cannot move from store_rejected to store_preparing"+
				" (cause: sub-order already rejected)",
			err.Error())
	})
}

func TestConflictError(t *testing.T) {
	t.Run("NewConflictError", func(t *testing.T) {
		err := errs.NewConflictError("assignment", "123")

		assert.Equal(t, "assignment", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "concurrent modification conflict: assignment 123", err.Error())
		assert.Equal(t, errs.ErrConflict, err.Unwrap())
	})

	t.Run("NewConflictErrorWithCause", func(t *testing.T) {
		cause := errors.New("version check failed")
		err := errs.NewConflictErrorWithCause("order", "456", cause)

		assert.Equal(t,
			"concurrent modification conflict: order 456 (cause: version check failed)",
			err.Error())
	})
}

func TestOfferExpiredError(t *testing.T) {
	err := errs.NewOfferExpiredError("assignment", "789")

	assert.Equal(t, "assignment", err.ParamName)
	assert.Equal(t, "789", err.ID)
	assert.Equal(t, "offer window has closed: assignment 789", err.Error())
	assert.Equal(t, errs.ErrOfferExpired, err.Unwrap())
}

func TestAttemptsExhaustedError(t *testing.T) {
	err := errs.NewAttemptsExhaustedError("order", "abc", 5)

	assert.Equal(t, 5, err.Attempts)
	assert.Equal(t, "offer attempts exhausted: order abc after 5 attempts", err.Error())
	assert.Equal(t, errs.ErrAttemptsExhausted, err.Unwrap())
}

func TestTransitionErrorsCanBeUnwrapped(t *testing.T) {
	require.ErrorIs(t,
		errs.NewInvalidTransitionError("order", "cancelled", "driver_picked_up"),
		errs.ErrInvalidTransition)
	require.ErrorIs(t, errs.NewConflictError("assignment", "1"), errs.ErrConflict)
	require.ErrorIs(t, errs.NewOfferExpiredError("assignment", "1"), errs.ErrOfferExpired)
	require.ErrorIs(t, errs.NewAttemptsExhaustedError("order", "1", 3), errs.ErrAttemptsExhausted)
}
