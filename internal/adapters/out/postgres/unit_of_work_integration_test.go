package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/assignmentrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides comprehensive integration testing
// for the GORM-based Unit of Work implementation with real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes PostgreSQL container and database connection for all tests.
// Runs database migrations to prepare schema for unit of work operations.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Connect to database
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Run migrations
	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.SubOrderDTO{},
		&orderrepo.ItemDTO{},
		&assignmentrepo.AssignmentDTO{},
	)
	suite.Require().NoError(err)

	// Create factory
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
// Truncates all tables to prevent test interference.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, store_sub_orders, order_items, driver_assignments").Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestUnitOfWorkFactory_Create verifies factory creates unit of work instances
// with proper initialization and isolation between instances.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	// Create multiple unit of work instances
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	// Verify instances are different
	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	// Verify both instances provide access to repositories
	suite.NotNil(uow1.OrderRepository(), "First instance should provide order repository")
	suite.NotNil(uow1.AssignmentRepository(), "First instance should provide assignment repository")
	suite.NotNil(uow2.OrderRepository(), "Second instance should provide order repository")
	suite.NotNil(uow2.AssignmentRepository(), "Second instance should provide assignment repository")
}

// TestUnitOfWork_TransactionLifecycle verifies proper transaction management
// including begin, commit, and rollback operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Test begin transaction
	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	// Test multiple begin calls are safe
	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	// Test commit
	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	// Test rollback on new transaction
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

// TestUnitOfWork_TransactionErrors verifies error handling for invalid transaction operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Test commit without begin
	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	// Test rollback without begin
	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

// TestUnitOfWork_CheckoutTransaction verifies the checkout write: a new order
// and its assignment row persisted atomically within one transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CheckoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createTestOrder()
	testAssignment := createTestAssignment(testOrder)

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	err = uow.AssignmentRepository().Add(ctx, testAssignment)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Verify both rows persist using a new unit of work
	newUow := suite.factory.Create()

	retrievedOrder, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrievedOrder.ID())
	suite.Equal(order.PendingDriverApproval, retrievedOrder.Status())

	retrievedAssignment, err := newUow.AssignmentRepository().GetByOrder(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(assignment.Unassigned, retrievedAssignment.Status())
}

// TestUnitOfWork_DriverAcceptWorkflow verifies the competitive accept write:
// assignment and order updated together within one transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_DriverAcceptWorkflow() {
	ctx := context.Background()

	// Seed an offered assignment outside the transaction
	testOrder := createTestOrder()
	testAssignment := createTestAssignment(testOrder)
	driverID := kernel.NewUUID()
	now := time.Now().UTC()

	seedUow := suite.factory.Create()
	suite.Require().NoError(seedUow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(testAssignment.Offer(driverID, 30*time.Second, now))
	suite.Require().NoError(seedUow.AssignmentRepository().Add(ctx, testAssignment))

	// Accept within a single transaction
	uow := suite.factory.Create()
	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	loadedAssignment, err := uow.AssignmentRepository().GetByOrder(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loadedAssignment.Accept(driverID, now, false))
	suite.Require().NoError(uow.AssignmentRepository().Update(ctx, loadedAssignment))

	loadedOrder, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loadedOrder.AcceptDriver())
	suite.Require().NoError(uow.OrderRepository().Update(ctx, loadedOrder))

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Verify the committed state
	newUow := suite.factory.Create()

	retrievedOrder, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.PendingStoreApproval, retrievedOrder.Status())
	suite.True(retrievedOrder.DriverAccepted())

	retrievedAssignment, err := newUow.AssignmentRepository().GetByOrder(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(assignment.Accepted, retrievedAssignment.Status())
	suite.Require().NotNil(retrievedAssignment.DriverID())
	suite.Equal(driverID, *retrievedAssignment.DriverID())
}

// TestUnitOfWork_TransactionRollback verifies rollback discards all changes
// made within the transaction across both repositories.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createTestOrder()
	testAssignment := createTestAssignment(testOrder)

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	err = uow.AssignmentRepository().Add(ctx, testAssignment)
	suite.Require().NoError(err)

	// Verify entities exist within transaction
	_, err = uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	_, err = uow.AssignmentRepository().GetByOrder(ctx, testOrder.ID())
	suite.Require().NoError(err)

	// Rollback transaction
	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	// Verify entities do not exist after rollback using new unit of work
	newUow := suite.factory.Create()

	_, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err, "Order should not exist after rollback")

	_, err = newUow.AssignmentRepository().GetByOrder(ctx, testOrder.ID())
	suite.Require().Error(err, "Assignment should not exist after rollback")
}

// TestUnitOfWork_RepositoryIsolation verifies that repositories obtained
// from different unit of work instances operate independently.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()

	// Create two unit of work instances
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	order1 := createTestOrder()
	order2 := createTestOrder()

	err := uow1.Begin(ctx)
	suite.Require().NoError(err)

	err = uow2.Begin(ctx)
	suite.Require().NoError(err)

	// Add different orders in each transaction
	err = uow1.OrderRepository().Add(ctx, order1)
	suite.Require().NoError(err)

	err = uow2.OrderRepository().Add(ctx, order2)
	suite.Require().NoError(err)

	// Each transaction should only see its own changes
	_, err = uow1.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "UOW1 should see order1")

	_, err = uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "UOW1 should not see order2")

	_, err = uow2.OrderRepository().Get(ctx, order2.ID())
	suite.Require().NoError(err, "UOW2 should see order2")

	_, err = uow2.OrderRepository().Get(ctx, order1.ID())
	suite.Require().Error(err, "UOW2 should not see order1")

	// Commit first transaction
	err = uow1.Commit(ctx)
	suite.Require().NoError(err)

	// Rollback second transaction
	err = uow2.Rollback(ctx)
	suite.Require().NoError(err)

	// Verify only order1 persisted
	newUow := suite.factory.Create()
	_, err = newUow.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "Order1 should persist after commit")

	_, err = newUow.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "Order2 should not persist after rollback")
}

// TestUnitOfWork_WithoutTransaction verifies that repositories work correctly
// without explicit transaction boundaries for immediate operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := createTestOrder()

	// Add order without beginning transaction (should auto-commit)
	err := uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	// Verify order persists immediately
	retrievedOrder, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrievedOrder.ID())

	// Verify with new unit of work instance
	newUow := suite.factory.Create()
	retrievedOrder, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrievedOrder.ID())
}

// TestUnitOfWork_StoreRejectionWorkflow tests a partial rejection followed by
// totals recomputation, persisted and reloaded through the unit of work.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_StoreRejectionWorkflow() {
	ctx := context.Background()
	now := time.Now().UTC()

	testOrder := createTestOrder()
	seedUow := suite.factory.Create()
	suite.Require().NoError(seedUow.OrderRepository().Add(ctx, testOrder))

	uow := suite.factory.Create()
	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	loaded, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.AcceptDriver())

	survivor := loaded.SubOrders()[0]
	rejected := loaded.SubOrders()[1]
	suite.Require().NoError(loaded.ApproveSubOrder(survivor.ID(), now))
	suite.Require().NoError(loaded.RejectSubOrder(rejected.ID(), "store closed", now))

	suite.Require().NoError(uow.OrderRepository().Update(ctx, loaded))
	suite.Require().NoError(uow.Commit(ctx))

	// Reloaded totals cover only the surviving sub-order
	newUow := suite.factory.Create()
	retrieved, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(survivor.Subtotal(), retrieved.Subtotal())
	suite.Equal(survivor.DeliveryFee(), retrieved.DeliveryFee())
	suite.Equal(survivor.Subtotal().Add(survivor.DeliveryFee()), retrieved.TotalAmount())
}

// createTestOrder creates a valid two-store order for testing purposes.
func createTestOrder() *order.Order {
	location, _ := kernel.NewGeoPoint(40.4168, -3.7038)

	firstItem, _ := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Whole Milk 1L", kernel.NewMoney(120), 3)
	secondItem, _ := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Ground Coffee 250g", kernel.NewMoney(549), 1)

	firstSub, _ := order.NewStoreSubOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewMoney(200), []order.Item{firstItem})
	secondSub, _ := order.NewStoreSubOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewMoney(250), []order.Item{secondItem})

	testOrder, _ := order.NewOrder(
		kernel.NewUUID(),
		"ORD-"+kernel.NewUUID().String()[:8],
		kernel.NewUUID(),
		"Plaza del Sol 3",
		location,
		order.PaymentMethodCard,
		[]*order.StoreSubOrder{firstSub, secondSub},
	)
	return testOrder
}

// createTestAssignment creates the assignment row for a test order.
func createTestAssignment(testOrder *order.Order) *assignment.Assignment {
	testAssignment, _ := assignment.NewAssignment(kernel.NewUUID(), testOrder.ID())
	return testAssignment
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
