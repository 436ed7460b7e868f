package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type LimiterIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *redis.Client
}

func TestLimiterIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(LimiterIntegrationTestSuite))
}

func (suite *LimiterIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	endpoint, err := container.Endpoint(ctx, "")
	suite.Require().NoError(err)
	suite.client = redis.NewClient(&redis.Options{Addr: endpoint})
}

func (suite *LimiterIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.Require().NoError(suite.client.Close())
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *LimiterIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.client.FlushAll(context.Background()).Err())
}

func (suite *LimiterIntegrationTestSuite) TestWindowIsSharedAndExpires() {
	ctx := context.Background()
	limits := map[string]Limit{"checkout": {Max: 2, Window: 500 * time.Millisecond}}
	first := New(suite.client, Limit{Max: 1, Window: time.Second}, limits)
	second := New(suite.client, Limit{Max: 1, Window: time.Second}, limits)

	ok, _, err := first.Allow(ctx, "a", "checkout")
	suite.Require().NoError(err)
	suite.True(ok)
	ok, _, err = second.Allow(ctx, "a", "checkout")
	suite.Require().NoError(err)
	suite.True(ok)

	ok, retryAfter, err := first.Allow(ctx, "a", "checkout")
	suite.Require().NoError(err)
	suite.False(ok)
	suite.Positive(retryAfter)
	suite.LessOrEqual(retryAfter, 500*time.Millisecond)

	ok, _, err = first.Allow(ctx, "b", "checkout")
	suite.Require().NoError(err)
	suite.True(ok, "identities are counted separately")

	suite.Eventually(func() bool {
		ok, _, err := second.Allow(ctx, "a", "checkout")
		return err == nil && ok
	}, 3*time.Second, 100*time.Millisecond)
}
