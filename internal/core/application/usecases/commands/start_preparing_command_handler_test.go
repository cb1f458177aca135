package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStartPreparingCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate, subOrder := buildEngagedOrder(t)
	cmd, err := commands.NewStartPreparingCommand(subOrder.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetBySubOrder", mock.Anything, subOrder.ID()).Return(aggregate, nil).Once()
	orderRepo.On("Update", mock.Anything, aggregate).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	h := commands.NewStartPreparingCommandHandler(factory, publisher)
	status, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.StorePreparing, status)
	assert.Equal(t, order.SubOrderPreparing, subOrder.Status())
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestStartPreparingCommandHandler_Handle_DriverNotMatchedYet(t *testing.T) {
	ctx := t.Context()
	aggregate := buildPendingOrder(t)
	subOrder := aggregate.SubOrders()[0]
	cmd, err := commands.NewStartPreparingCommand(subOrder.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil).Once()
	orderRepo.On("GetBySubOrder", mock.Anything, subOrder.ID()).Return(aggregate, nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStartPreparingCommandHandler(factory, nil)
	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, order.SubOrderPendingApproval, subOrder.Status())
}
