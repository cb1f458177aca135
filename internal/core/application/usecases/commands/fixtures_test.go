package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

// Shared aggregate fixtures for handler tests.

func buildGeoPoint(t *testing.T) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(41.3874, 2.1686)
	require.NoError(t, err)
	return point
}

func buildItem(t *testing.T) order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Eggs 12pk",
		kernel.NewMoney(320), 1)
	require.NoError(t, err)
	return item
}

func buildSubOrder(t *testing.T) *order.StoreSubOrder {
	t.Helper()
	sub, err := order.NewStoreSubOrder(kernel.NewUUID(), kernel.NewUUID(),
		kernel.NewMoney(150), []order.Item{buildItem(t)})
	require.NoError(t, err)
	return sub
}

// buildPendingOrder returns a single-store order awaiting a driver.
func buildPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-100", kernel.NewUUID(),
		"Carrer de Mallorca 401", buildGeoPoint(t), order.PaymentMethodCard,
		[]*order.StoreSubOrder{buildSubOrder(t)})
	require.NoError(t, err)
	return o
}

// buildEngagedOrder returns an order with an accepted driver, together with
// its sub-order, in PendingStoreApproval.
func buildEngagedOrder(t *testing.T) (*order.Order, *order.StoreSubOrder) {
	t.Helper()
	o := buildPendingOrder(t)
	require.NoError(t, o.AcceptDriver())
	return o, o.SubOrders()[0]
}

// buildOfferedAssignment returns an assignment with a live offer to driverID.
func buildOfferedAssignment(t *testing.T, orderID, driverID kernel.UUID) *assignment.Assignment {
	t.Helper()
	a, err := assignment.NewAssignment(kernel.NewUUID(), orderID)
	require.NoError(t, err)
	require.NoError(t, a.Offer(driverID, 30*time.Second, time.Now().UTC()))
	return a
}

func buildSubOrderSpec() []commands.SubOrderSpec {
	return []commands.SubOrderSpec{
		{
			StoreID:     kernel.NewUUID(),
			DeliveryFee: kernel.NewMoney(150),
			Items: []commands.ItemSpec{
				{
					ProductID: kernel.NewUUID(),
					Name:      "Eggs 12pk",
					UnitPrice: kernel.NewMoney(320),
					Quantity:  2,
				},
			},
		},
	}
}
