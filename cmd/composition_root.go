package cmd

import (
	"log/slog"
	"time"

	httpin "canteen/internal/adapters/in/http"
	"canteen/internal/adapters/out/memory"
	"canteen/internal/adapters/out/memory/cartstore"
	"canteen/internal/adapters/out/memory/notificationqueue"
	memratelimit "canteen/internal/adapters/out/memory/ratelimit"
	"canteen/internal/adapters/out/postgres"
	redisratelimit "canteen/internal/adapters/out/redis/ratelimit"
	"canteen/internal/core/application/stock"
	"canteen/internal/core/application/usecases/commands"
	"canteen/internal/core/application/usecases/queries"
	"canteen/internal/core/ports"
	"canteen/internal/jobs"
	"canteen/internal/pkg/keylock"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot owns the adapters shared by every handler. Without a database the
// ledger lives in memory; without Redis rate limit counters do too.
type CompositionRoot struct {
	config Config
	logger *slog.Logger
	clock  ports.Clock

	ledger        ports.UnitOfWorkFactory
	stock         *stock.Manager
	carts         *cartstore.Store
	notifications *notificationqueue.Queue
	limiter       ports.RateLimiter
	sweeps        []commands.SweepFunc

	sessions *keylock.Locker
	orders   *keylock.Locker
}

type Option func(*CompositionRoot)

// WithClock replaces time.Now for every handler and job.
func WithClock(clock ports.Clock) Option {
	return func(c *CompositionRoot) {
		c.clock = clock
	}
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient redis.Cmdable,
	logger *slog.Logger,
	opts ...Option,
) (*CompositionRoot, error) {
	c := &CompositionRoot{
		config:   config,
		logger:   logger,
		clock:    time.Now,
		carts:    cartstore.New(),
		sessions: keylock.New(),
		orders:   keylock.New(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if gormDB != nil {
		c.ledger = postgres.NewGormUnitOfWorkFactory(gormDB)
	} else {
		c.ledger = memory.NewUnitOfWorkFactory(memory.NewStore())
	}

	manager, err := stock.NewManager(c.ledger)
	if err != nil {
		return nil, err
	}
	c.stock = manager

	c.notifications = notificationqueue.New(
		notificationqueue.WithTTL(config.NotificationTTL),
		notificationqueue.WithClock(c.clock),
	)

	fallback := redisratelimit.Limit{Max: config.StatusUpdateLimit, Window: config.RateLimitWindow}
	limits := map[string]redisratelimit.Limit{
		httpin.OperationCheckout:     {Max: config.CheckoutLimit, Window: config.RateLimitWindow},
		httpin.OperationStatusUpdate: {Max: config.StatusUpdateLimit, Window: config.RateLimitWindow},
	}
	if redisClient != nil {
		c.limiter = redisratelimit.New(redisClient, fallback, limits)
	} else {
		local := memratelimit.New(memratelimit.Limit(fallback), toMemoryLimits(limits), c.clock)
		c.limiter = local
		c.sweeps = append(c.sweeps, local.Sweep)
	}

	return c, nil
}

func toMemoryLimits(limits map[string]redisratelimit.Limit) map[string]memratelimit.Limit {
	converted := make(map[string]memratelimit.Limit, len(limits))
	for operation, limit := range limits {
		converted[operation] = memratelimit.Limit(limit)
	}
	return converted
}

func (c *CompositionRoot) uows() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.ledger.Create()
	})
}

func (c *CompositionRoot) productUoWs() commands.ProductUoWFactory {
	return FuncProductUoWFactory(func() commands.ProductUoW {
		return c.ledger.Create()
	})
}

func (c *CompositionRoot) component(name string) *slog.Logger {
	return c.logger.With("component", name)
}

func (c *CompositionRoot) CreateExpirePendingPaymentsCommandHandler() commands.ExpirePendingPaymentsCommandHandler {
	return commands.NewExpirePendingPaymentsCommandHandler(
		c.uows(), c.stock, c.orders, c.config.PaymentWindow, c.component("payment_timeout"),
	)
}

func (c *CompositionRoot) CreateHTTPServer() (*httpin.Server, error) {
	expirer := c.CreateExpirePendingPaymentsCommandHandler()

	handlers := httpin.Handlers{
		AddToCart:      commands.NewAddToCartCommandHandler(c.carts, c.stock, c.sessions, c.clock),
		DecreaseCart:   commands.NewDecreaseCartCommandHandler(c.carts, c.stock, c.sessions, c.clock),
		RemoveFromCart: commands.NewRemoveFromCartCommandHandler(c.carts, c.stock, c.sessions, c.clock),
		PlaceOrder: commands.NewPlaceOrderCommandHandler(
			c.uows(), c.carts, c.sessions, c.clock, c.component("checkout"),
		),
		ConfirmPayment: commands.NewConfirmPaymentCommandHandler(
			c.uows(), c.stock, c.orders, c.config.GatewaySecret, c.config.PaymentWindow, c.clock,
		),
		StaffTransition: commands.NewStaffTransitionCommandHandler(
			c.uows(), c.stock, c.orders, c.notifications, c.clock, c.component("fulfillment"),
		),
		CancelOrder:            commands.NewCancelOrderCommandHandler(c.uows(), c.stock, c.orders, c.clock),
		RetireOrder:            commands.NewRetireOrderCommandHandler(c.uows(), c.orders, c.clock),
		DismissNotification:    commands.NewDismissNotificationCommandHandler(c.notifications),
		CreateProduct:          commands.NewCreateProductCommandHandler(c.productUoWs()),
		ChangeProductPrice:     commands.NewChangeProductPriceCommandHandler(c.productUoWs(), c.stock),
		SetProductAvailability: commands.NewSetProductAvailabilityCommandHandler(c.productUoWs(), c.stock),

		GetMenu:           queries.NewGetMenuQueryHandler(c.ledger),
		GetCart:           queries.NewGetCartQueryHandler(c.carts, c.ledger),
		GetOrder:          queries.NewGetOrderQueryHandler(c.ledger, &expirer, c.config.PaymentWindow, c.clock),
		ListOrders:        queries.NewListOrdersQueryHandler(c.ledger, &expirer, c.config.PaymentWindow, c.clock),
		PollNotifications: queries.NewPollNotificationsQueryHandler(c.notifications),
	}

	return httpin.NewServer(handlers, c.limiter, c.logger)
}

func (c *CompositionRoot) CreateJobManager(schedules jobs.Schedules) *jobs.JobManager {
	handlers := jobs.Handlers{
		ExpirePendingPayments: c.CreateExpirePendingPaymentsCommandHandler(),
		ExpireCarts: commands.NewExpireCartsCommandHandler(
			c.carts, c.stock, c.sessions, c.config.CartTTL, c.component("cart_expiry"),
		),
		PurgeNotifications: commands.NewPurgeNotificationsCommandHandler(c.notifications, c.sweeps...),
	}
	return jobs.NewJobManager(handlers, schedules, c.clock, c.logger)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncProductUoWFactory func() commands.ProductUoW

func (f FuncProductUoWFactory) Create() commands.ProductUoW {
	return f()
}
