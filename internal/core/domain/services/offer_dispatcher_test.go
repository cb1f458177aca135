package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createDispatcher(t *testing.T, window time.Duration, maxAttempts int) services.OfferDispatcher {
	t.Helper()
	d, err := services.NewOfferDispatcher(window, maxAttempts)
	require.NoError(t, err)
	return d
}

func createAssignment(t *testing.T) *assignment.Assignment {
	t.Helper()
	a, err := assignment.NewAssignment(kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)
	return a
}

func TestNewOfferDispatcher(t *testing.T) {
	t.Run("should create dispatcher with valid parameters", func(t *testing.T) {
		d, err := services.NewOfferDispatcher(30*time.Second, 3)

		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, d.OfferWindow())
		assert.Equal(t, 3, d.MaxAttempts())
	})

	t.Run("should return error for non-positive window", func(t *testing.T) {
		_, err := services.NewOfferDispatcher(0, 3)

		require.Error(t, err)
		assert.IsType(t, &errs.ValueIsInvalidError{}, err)
	})

	t.Run("should return error for non-positive max attempts", func(t *testing.T) {
		_, err := services.NewOfferDispatcher(30*time.Second, 0)

		require.Error(t, err)
		assert.IsType(t, &errs.ValueIsInvalidError{}, err)
	})
}

func TestOfferDispatcher_Offer(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should dispatch rounds until the ceiling", func(t *testing.T) {
		d := createDispatcher(t, 30*time.Second, 2)
		a := createAssignment(t)

		first := kernel.NewUUID()
		require.NoError(t, d.Offer(a, first, now))
		assert.Equal(t, assignment.Offered, a.Status())
		assert.Equal(t, 1, a.AttemptCount())

		require.NoError(t, a.Reject(first, now))
		require.NoError(t, d.Offer(a, kernel.NewUUID(), now))
		assert.Equal(t, 2, a.AttemptCount())
		// A live final round is not exhausted.
		assert.False(t, d.IsExhausted(a))
	})

	t.Run("should return attempts exhausted past the ceiling", func(t *testing.T) {
		d := createDispatcher(t, 30*time.Second, 1)
		a := createAssignment(t)
		driver := kernel.NewUUID()
		require.NoError(t, d.Offer(a, driver, now))
		require.NoError(t, a.Reject(driver, now))
		require.True(t, d.IsExhausted(a))

		err := d.Offer(a, kernel.NewUUID(), now)

		require.Error(t, err)
		assert.IsType(t, &errs.AttemptsExhaustedError{}, err)
	})

	t.Run("should not offer while a round is live", func(t *testing.T) {
		d := createDispatcher(t, 30*time.Second, 3)
		a := createAssignment(t)
		require.NoError(t, d.Offer(a, kernel.NewUUID(), now))

		err := d.Offer(a, kernel.NewUUID(), now)

		require.Error(t, err)
		assert.IsType(t, &errs.InvalidTransitionError{}, err)
	})
}

func TestOfferDispatcher_IsExhausted(t *testing.T) {
	now := time.Now().UTC()

	t.Run("accepted assignment is never exhausted", func(t *testing.T) {
		d := createDispatcher(t, 30*time.Second, 1)
		a := createAssignment(t)
		driver := kernel.NewUUID()
		require.NoError(t, d.Offer(a, driver, now))
		require.NoError(t, a.Accept(driver, now, false))

		assert.False(t, d.IsExhausted(a))
	})
}

func TestOfferDispatcher_Expire(t *testing.T) {
	now := time.Now().UTC()
	window := 30 * time.Second

	t.Run("should expire an overdue round", func(t *testing.T) {
		d := createDispatcher(t, window, 3)
		a := createAssignment(t)
		require.NoError(t, d.Offer(a, kernel.NewUUID(), now))

		err := d.Expire(a, now.Add(window+time.Second))

		require.NoError(t, err)
		assert.Equal(t, assignment.Expired, a.Status())
	})

	t.Run("should not expire a live round", func(t *testing.T) {
		d := createDispatcher(t, window, 3)
		a := createAssignment(t)
		require.NoError(t, d.Offer(a, kernel.NewUUID(), now))

		err := d.Expire(a, now.Add(time.Second))

		require.Error(t, err)
	})
}
