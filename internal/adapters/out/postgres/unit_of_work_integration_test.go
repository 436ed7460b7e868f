package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "canteen/internal/adapters/out/postgres"
	"canteen/internal/core/application/stock"
	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/domain/model/product"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var t0 = time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

// UnitOfWorkIntegrationTestSuite runs the ledger's unit of work against a real
// PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30*time.Second)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE order_line_items, orders, products").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) seedProduct(count int) *product.Product {
	p, err := product.NewProduct(kernel.NewUUID(), "Dosa", "north", kernel.MustMoney("40.00"), true, count)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().ProductRepository().Add(context.Background(), p))
	return p
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(p *product.Product, quantity int) *order.Order {
	item, err := order.NewLineItem(p.ID(), p.Name(), quantity, p.Price())
	suite.Require().NoError(err)
	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.MustPhone("9876543210"), "Asha", "north", order.Cash, []order.LineItem{item}, t0,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(o.Apply(order.TriggerPlace, t0))
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "a second Begin is a no-op")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().Error(uow.Commit(ctx), "commit without a transaction")
	suite.Require().Error(uow.Rollback(ctx), "rollback without a transaction")

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitWritesOrderAndStockTogether() {
	ctx := context.Background()
	p := suite.seedProduct(5)
	o := suite.newOrder(p, 2)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	ok, _, err := stock.Adjust(ctx, uow.ProductRepository(), p.ID(), 2)
	suite.Require().NoError(err)
	suite.Require().True(ok)
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	stored, err := suite.factory.Create().ProductRepository().Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(3, stored.StockCount())
	suite.Equal(1, stored.Version())

	loaded, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Paid, loaded.Status())
	suite.Equal("80.00", loaded.Total().String())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackDiscardsEverything() {
	ctx := context.Background()
	p := suite.seedProduct(5)
	o := suite.newOrder(p, 1)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	_, _, err := stock.Adjust(ctx, uow.ProductRepository(), p.ID(), 1)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err = suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	stored, err := suite.factory.Create().ProductRepository().Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(5, stored.StockCount())
	suite.Empty(uow.DomainEvents())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestDomainEventsAfterCommit() {
	ctx := context.Background()
	p := suite.seedProduct(5)
	o := suite.newOrder(p, 1)
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, o))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	loaded, err := uow.OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Apply(order.TriggerAccept, t0.Add(time.Minute), order.WithEstimatedReadyMinutes(10)))
	suite.Require().NoError(uow.OrderRepository().Update(ctx, loaded))
	suite.Empty(uow.DomainEvents(), "events are handed out only after commit")
	suite.Require().NoError(uow.Commit(ctx))

	events := uow.DomainEvents()
	suite.Require().Len(events, 1)
	suite.Equal(o.ID(), events[0].OrderID)
	suite.Equal(order.InProgress, events[0].Status)
	suite.Empty(loaded.Events())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentStaleWriteIsRejected() {
	ctx := context.Background()
	p := suite.seedProduct(5)

	first := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	stale, err := first.ProductRepository().Get(ctx, p.ID())
	suite.Require().NoError(err)

	ok, _, err := stock.Adjust(ctx, suite.factory.Create().ProductRepository(), p.ID(), 1)
	suite.Require().NoError(err)
	suite.Require().True(ok)

	_, _, err = stale.Reserve(1)
	suite.Require().NoError(err)
	err = first.ProductRepository().Update(ctx, stale)
	suite.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
	suite.Require().NoError(first.Rollback(ctx))

	stored, err := suite.factory.Create().ProductRepository().Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(4, stored.StockCount())
}
