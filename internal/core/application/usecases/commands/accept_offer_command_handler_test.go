package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAcceptOfferCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	driverID := kernel.NewUUID()
	pendingOrder := buildPendingOrder(t)
	offered := buildOfferedAssignment(t, pendingOrder.ID(), driverID)
	cmd, err := commands.NewAcceptOfferCommand(pendingOrder.ID(), driverID)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	assignmentRepo := new(MockAssignmentRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("AssignmentRepository").Return(assignmentRepo)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	assignmentRepo.On("GetByOrder", mock.Anything, pendingOrder.ID()).Return(offered, nil).Once()
	assignmentRepo.On("Update", mock.Anything, offered).Return(nil).Once()
	orderRepo.On("Get", mock.Anything, pendingOrder.ID()).Return(pendingOrder, nil).Once()
	orderRepo.On("Update", mock.Anything, pendingOrder).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.AnythingOfType("ports.TransitionEvent")).Return(nil).Once()

	h := commands.NewAcceptOfferCommandHandler(factory, publisher, false)
	status, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.PendingStoreApproval, status)
	assert.Equal(t, assignment.Accepted, offered.Status())
	assert.True(t, pendingOrder.DriverAccepted())
	orderRepo.AssertExpectations(t)
	assignmentRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAcceptOfferCommandHandler_Handle_WrongCandidate(t *testing.T) {
	ctx := t.Context()
	pendingOrder := buildPendingOrder(t)
	offered := buildOfferedAssignment(t, pendingOrder.ID(), kernel.NewUUID())
	stranger := kernel.NewUUID()
	cmd, err := commands.NewAcceptOfferCommand(pendingOrder.ID(), stranger)
	require.NoError(t, err)

	assignmentRepo := new(MockAssignmentRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("AssignmentRepository").Return(assignmentRepo)
	uow.On("Rollback", ctx).Return(nil).Once()
	assignmentRepo.On("GetByOrder", mock.Anything, pendingOrder.ID()).Return(offered, nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptOfferCommandHandler(factory, nil, false)
	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, assignment.Offered, offered.Status())
	uow.AssertExpectations(t)
}

func TestAcceptOfferCommandHandler_Handle_VersionConflictOnWrite(t *testing.T) {
	ctx := t.Context()
	driverID := kernel.NewUUID()
	pendingOrder := buildPendingOrder(t)
	offered := buildOfferedAssignment(t, pendingOrder.ID(), driverID)
	cmd, err := commands.NewAcceptOfferCommand(pendingOrder.ID(), driverID)
	require.NoError(t, err)

	assignmentRepo := new(MockAssignmentRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("AssignmentRepository").Return(assignmentRepo)
	uow.On("Rollback", ctx).Return(nil).Once()
	assignmentRepo.On("GetByOrder", mock.Anything, pendingOrder.ID()).Return(offered, nil).Once()
	// Another driver's accept landed first; the version check fails.
	assignmentRepo.On("Update", mock.Anything, offered).
		Return(errs.NewConflictError("assignment", offered.ID().String())).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptOfferCommandHandler(factory, nil, false)
	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConflict)
	uow.AssertExpectations(t)
	assignmentRepo.AssertExpectations(t)
}

func TestAcceptOfferCommandHandler_Handle_AnyCandidatePolicy(t *testing.T) {
	ctx := t.Context()
	pendingOrder := buildPendingOrder(t)
	offered := buildOfferedAssignment(t, pendingOrder.ID(), kernel.NewUUID())
	other := kernel.NewUUID()
	cmd, err := commands.NewAcceptOfferCommand(pendingOrder.ID(), other)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	assignmentRepo := new(MockAssignmentRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("AssignmentRepository").Return(assignmentRepo)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	assignmentRepo.On("GetByOrder", mock.Anything, pendingOrder.ID()).Return(offered, nil).Once()
	assignmentRepo.On("Update", mock.Anything, offered).Return(nil).Once()
	orderRepo.On("Get", mock.Anything, pendingOrder.ID()).Return(pendingOrder, nil).Once()
	orderRepo.On("Update", mock.Anything, pendingOrder).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	h := commands.NewAcceptOfferCommandHandler(factory, publisher, true)
	status, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.PendingStoreApproval, status)
	assert.True(t, offered.DriverID().IsEqual(other))
}

// memoryAssignmentRepository is a version-checked in-memory store. Every
// load returns a fresh copy and a write lands only when the stored version
// still matches the version the copy was loaded with, mirroring the SQL
// adapter's compare-and-swap.
type memoryAssignmentRepository struct {
	mu      sync.Mutex
	byOrder map[string]*assignment.Assignment
}

func newMemoryAssignmentRepository(assignments ...*assignment.Assignment) *memoryAssignmentRepository {
	r := &memoryAssignmentRepository{byOrder: make(map[string]*assignment.Assignment)}
	for _, a := range assignments {
		r.byOrder[a.OrderID().String()] = a
	}
	return r
}

func restoreAssignmentCopy(a *assignment.Assignment, version int) (*assignment.Assignment, error) {
	return assignment.RestoreAssignment(a.ID(), a.OrderID(), a.DriverID(), a.Status(),
		a.OfferedAt(), a.RespondedAt(), a.ExpiresAt(), a.AttemptCount(), version)
}

func (r *memoryAssignmentRepository) Add(_ context.Context, a *assignment.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOrder[a.OrderID().String()] = a
	return nil
}

func (r *memoryAssignmentRepository) Update(_ context.Context, a *assignment.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byOrder[a.OrderID().String()]
	if !ok {
		return errs.NewObjectNotFoundError("order_id", a.OrderID().String())
	}
	if stored.Version() != a.Version() {
		return errs.NewConflictError("assignment version", a.ID().String())
	}
	updated, err := restoreAssignmentCopy(a, a.Version()+1)
	if err != nil {
		return err
	}
	r.byOrder[a.OrderID().String()] = updated
	return nil
}

func (r *memoryAssignmentRepository) GetByOrder(_ context.Context, orderID kernel.UUID) (*assignment.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byOrder[orderID.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order_id", orderID.String())
	}
	return restoreAssignmentCopy(stored, stored.Version())
}

func (r *memoryAssignmentRepository) GetOfferable(_ context.Context, _ time.Time) ([]*assignment.Assignment, error) {
	return nil, nil
}

type memoryOrderRepository struct {
	mu        sync.Mutex
	aggregate *order.Order
}

func (r *memoryOrderRepository) Add(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aggregate = o
	return nil
}

func (r *memoryOrderRepository) Update(_ context.Context, _ *order.Order) error {
	return nil
}

func (r *memoryOrderRepository) Get(_ context.Context, _ kernel.UUID) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aggregate, nil
}

func (r *memoryOrderRepository) GetBySubOrder(_ context.Context, _ kernel.UUID) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aggregate, nil
}

type memoryUoW struct {
	orders      *memoryOrderRepository
	assignments *memoryAssignmentRepository
}

func (u memoryUoW) Begin(_ context.Context) error    { return nil }
func (u memoryUoW) Commit(_ context.Context) error   { return nil }
func (u memoryUoW) Rollback(_ context.Context) error { return nil }

func (u memoryUoW) OrderRepository() ports.OrderRepository { return u.orders }

func (u memoryUoW) AssignmentRepository() ports.AssignmentRepository { return u.assignments }

type memoryUoWFactory struct{ uow memoryUoW }

func (f memoryUoWFactory) Create() commands.UoW { return f.uow }

// Many distinct drivers race for one live offer; the version check must let
// exactly one accept land and turn every other accept into a Conflict.
func TestAcceptOfferCommandHandler_Handle_ConcurrentAcceptsExactlyOneWins(t *testing.T) {
	ctx := t.Context()
	const drivers = 16

	pendingOrder := buildPendingOrder(t)
	offered := buildOfferedAssignment(t, pendingOrder.ID(), kernel.NewUUID())

	assignments := newMemoryAssignmentRepository(offered)
	factory := memoryUoWFactory{uow: memoryUoW{
		orders:      &memoryOrderRepository{aggregate: pendingOrder},
		assignments: assignments,
	}}
	h := commands.NewAcceptOfferCommandHandler(factory, nil, true)

	results := make(chan error, drivers)
	var wg sync.WaitGroup
	for i := 0; i < drivers; i++ {
		driverID := kernel.NewUUID()
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd, err := commands.NewAcceptOfferCommand(pendingOrder.ID(), driverID)
			if err != nil {
				results <- err
				return
			}
			_, err = h.Handle(ctx, cmd)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	accepted, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, errs.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected accept outcome: %v", err)
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, drivers-1, conflicts)

	final, err := assignments.GetByOrder(ctx, pendingOrder.ID())
	require.NoError(t, err)
	assert.Equal(t, assignment.Accepted, final.Status())
	assert.Equal(t, 2, final.Version())
	assert.True(t, pendingOrder.DriverAccepted())
}

func TestAcceptOfferCommandHandler_Handle_AssignmentNotFound(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, err := commands.NewAcceptOfferCommand(orderID, kernel.NewUUID())
	require.NoError(t, err)

	assignmentRepo := new(MockAssignmentRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("AssignmentRepository").Return(assignmentRepo)
	uow.On("Rollback", ctx).Return(nil).Once()
	assignmentRepo.On("GetByOrder", mock.Anything, orderID).
		Return(nil, errs.NewObjectNotFoundError("order_id", orderID.String())).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptOfferCommandHandler(factory, nil, false)
	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}
