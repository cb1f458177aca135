package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	t.Run("should compute total price", func(t *testing.T) {
		item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Sourdough Loaf",
			kernel.NewMoney(350), 3)

		require.NoError(t, err)
		require.NoError(t, item.Validate())
		assert.Equal(t, "Sourdough Loaf", item.Name())
		assert.Equal(t, kernel.NewMoney(350), item.UnitPrice())
		assert.Equal(t, 3, item.Quantity())
		assert.Equal(t, kernel.NewMoney(1050), item.TotalPrice())
	})

	t.Run("should return error for empty name", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "",
			kernel.NewMoney(100), 1)

		require.Error(t, err)
		assert.IsType(t, &errs.ValueIsRequiredError{}, err)
	})

	t.Run("should return error for non-positive quantity", func(t *testing.T) {
		for _, quantity := range []int{0, -1} {
			_, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Milk",
				kernel.NewMoney(100), quantity)

			require.Error(t, err)
			assert.IsType(t, &errs.ValueIsInvalidError{}, err)
		}
	})

	t.Run("should return error for negative unit price", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Milk",
			kernel.NewMoney(-100), 1)

		require.Error(t, err)
		assert.IsType(t, &errs.ValueIsInvalidError{}, err)
	})

	t.Run("should fail validation for zero-value item", func(t *testing.T) {
		var item order.Item

		err := item.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrItemIsNotConstructed)
	})
}

func TestRestoreItem(t *testing.T) {
	t.Run("should preserve persisted total price", func(t *testing.T) {
		item, err := order.RestoreItem(kernel.NewUUID(), kernel.NewUUID(), "Milk",
			kernel.NewMoney(100), 2, kernel.NewMoney(190))

		require.NoError(t, err)
		assert.Equal(t, kernel.NewMoney(190), item.TotalPrice())
	})
}

func TestNewStoreSubOrder(t *testing.T) {
	t.Run("should compute subtotal from items", func(t *testing.T) {
		items := []order.Item{
			createValidItem(t, 500, 2),  // 1000
			createValidItem(t, 1250, 1), // 1250
		}

		sub, err := order.NewStoreSubOrder(kernel.NewUUID(), kernel.NewUUID(),
			kernel.NewMoney(300), items)

		require.NoError(t, err)
		require.NoError(t, sub.Validate())
		assert.Equal(t, order.SubOrderPendingApproval, sub.Status())
		assert.Equal(t, kernel.NewMoney(2250), sub.Subtotal())
		assert.Equal(t, kernel.NewMoney(300), sub.DeliveryFee())
		assert.True(t, sub.IsSurviving())
		assert.Len(t, sub.Items(), 2)
	})

	t.Run("should return error without items", func(t *testing.T) {
		sub, err := order.NewStoreSubOrder(kernel.NewUUID(), kernel.NewUUID(),
			kernel.NewMoney(300), nil)

		require.Error(t, err)
		assert.Nil(t, sub)
		assert.IsType(t, &errs.ValueIsRequiredError{}, err)
	})

	t.Run("should return error for negative delivery fee", func(t *testing.T) {
		sub, err := order.NewStoreSubOrder(kernel.NewUUID(), kernel.NewUUID(),
			kernel.NewMoney(-1), []order.Item{createValidItem(t, 100, 1)})

		require.Error(t, err)
		assert.Nil(t, sub)
	})
}

func TestStoreSubOrder_Lifecycle(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should stamp timestamps along the happy path", func(t *testing.T) {
		sub := createSubOrder(t, 100)

		require.NoError(t, sub.StartPreparing(now))
		assert.Equal(t, order.SubOrderPreparing, sub.Status())
		require.NotNil(t, sub.AcceptedAt())

		require.NoError(t, sub.FinishPreparing(now))
		assert.Equal(t, order.SubOrderReady, sub.Status())
		require.NotNil(t, sub.PreparedAt())

		require.NoError(t, sub.Approve(now))
		assert.Equal(t, order.SubOrderApproved, sub.Status())
		require.NotNil(t, sub.ApprovedAt())
		assert.Nil(t, sub.RejectedAt())
	})

	t.Run("should record rejection reason", func(t *testing.T) {
		sub := createSubOrder(t, 100)

		err := sub.Reject("out of stock", now)

		require.NoError(t, err)
		assert.Equal(t, order.SubOrderRejected, sub.Status())
		assert.Equal(t, "out of stock", sub.RejectReason())
		require.NotNil(t, sub.RejectedAt())
		assert.False(t, sub.IsSurviving())
	})

	t.Run("should keep amounts after rejection", func(t *testing.T) {
		sub := createSubOrder(t, 100, createValidItem(t, 700, 1))
		require.NoError(t, sub.Reject("store closed", now))

		assert.Equal(t, kernel.NewMoney(700), sub.Subtotal())
		assert.Equal(t, kernel.NewMoney(100), sub.DeliveryFee())
	})

	t.Run("should not approve an already approved portion", func(t *testing.T) {
		sub := createSubOrder(t, 100)
		require.NoError(t, sub.StartPreparing(now))
		require.NoError(t, sub.FinishPreparing(now))
		require.NoError(t, sub.Approve(now))

		err := sub.Approve(now)

		require.Error(t, err)
		assert.IsType(t, &errs.InvalidTransitionError{}, err)
	})
}
