package productrepo_test

import (
	"context"
	"testing"
	"time"

	"canteen/internal/adapters/out/postgres/productrepo"
	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/product"
	"canteen/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type ProductRepositoryTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *productrepo.GormProductRepository
}

func TestProductRepositoryTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProductRepositoryTestSuite))
}

func (suite *ProductRepositoryTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&productrepo.ProductDTO{}))
	suite.repo = productrepo.NewGormProductRepository(db)
}

func (suite *ProductRepositoryTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ProductRepositoryTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE products").Error)
}

func (suite *ProductRepositoryTestSuite) add(name, facility, price string, managed bool, count int) *product.Product {
	p, err := product.NewProduct(kernel.NewUUID(), name, facility, kernel.MustMoney(price), managed, count)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(context.Background(), p))
	return p
}

func (suite *ProductRepositoryTestSuite) TestAddAndGet() {
	p := suite.add("Masala Dosa", "north", "45.50", true, 8)

	loaded, err := suite.repo.Get(context.Background(), p.ID())
	suite.Require().NoError(err)
	suite.Equal("Masala Dosa", loaded.Name())
	suite.Equal("45.50", loaded.Price().String())
	suite.True(loaded.IsAvailable())
	suite.Equal(8, loaded.StockCount())
	suite.Equal(8, loaded.StockCapacity())
	suite.Zero(loaded.Version())
}

func (suite *ProductRepositoryTestSuite) TestAddDuplicateIsConflict() {
	p := suite.add("Masala Dosa", "north", "45.50", true, 8)

	err := suite.repo.Add(context.Background(), p)
	suite.Require().ErrorIs(err, errs.ErrObjectExists)
}

func (suite *ProductRepositoryTestSuite) TestGetUnknown() {
	_, err := suite.repo.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ProductRepositoryTestSuite) TestUpdateAdvancesVersion() {
	ctx := context.Background()
	p := suite.add("Idli", "north", "30.00", true, 4)

	ok, _, err := p.Reserve(3)
	suite.Require().NoError(err)
	suite.Require().True(ok)
	suite.Require().NoError(suite.repo.Update(ctx, p))
	suite.Equal(1, p.Version())

	loaded, err := suite.repo.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(1, loaded.StockCount())
	suite.Equal(1, loaded.Version())
}

func (suite *ProductRepositoryTestSuite) TestStaleUpdateIsRejected() {
	ctx := context.Background()
	p := suite.add("Idli", "north", "30.00", true, 4)

	a, err := suite.repo.Get(ctx, p.ID())
	suite.Require().NoError(err)
	b, err := suite.repo.Get(ctx, p.ID())
	suite.Require().NoError(err)

	_, _, err = a.Reserve(1)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Update(ctx, a))

	_, _, err = b.Reserve(2)
	suite.Require().NoError(err)
	suite.Require().ErrorIs(suite.repo.Update(ctx, b), errs.ErrVersionIsInvalid)

	loaded, err := suite.repo.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(3, loaded.StockCount())
}

func (suite *ProductRepositoryTestSuite) TestUpdateUnknown() {
	p, err := product.NewProduct(kernel.NewUUID(), "Ghost", "north", kernel.MustMoney("1.00"), false, 0)
	suite.Require().NoError(err)
	suite.Require().ErrorIs(suite.repo.Update(context.Background(), p), errs.ErrObjectNotFound)
}

func (suite *ProductRepositoryTestSuite) TestGetManyKeepsRequestOrder() {
	ctx := context.Background()
	a := suite.add("A", "north", "1.00", false, 0)
	b := suite.add("B", "north", "2.00", false, 0)

	products, err := suite.repo.GetMany(ctx, []kernel.UUID{b.ID(), a.ID()})
	suite.Require().NoError(err)
	suite.Require().Len(products, 2)
	suite.Equal("B", products[0].Name())
	suite.Equal("A", products[1].Name())

	_, err = suite.repo.GetMany(ctx, []kernel.UUID{a.ID(), kernel.NewUUID()})
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ProductRepositoryTestSuite) TestListByFacility() {
	ctx := context.Background()
	suite.add("Vada", "north", "15.00", true, 2)
	suite.add("Coffee", "north", "12.00", false, 0)
	suite.add("Biryani", "south", "90.00", true, 10)

	menu, err := suite.repo.ListByFacility(ctx, "north")
	suite.Require().NoError(err)
	suite.Require().Len(menu, 2)
	suite.Equal("Coffee", menu[0].Name())
	suite.Equal("Vada", menu[1].Name())
}
