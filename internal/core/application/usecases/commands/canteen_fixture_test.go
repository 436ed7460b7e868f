package commands_test

import (
	"testing"
	"time"

	"canteen/internal/adapters/out/memory"
	"canteen/internal/adapters/out/memory/cartstore"
	"canteen/internal/adapters/out/memory/notificationqueue"
	"canteen/internal/core/application/stock"
	"canteen/internal/core/application/usecases/commands"
	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/domain/model/product"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/keylock"

	"github.com/stretchr/testify/require"
)

const (
	facility      = "north-block"
	paymentWindow = 10 * time.Minute
	cartTTL       = 30 * time.Minute
	gatewaySecret = "s3cret"
)

var customer = kernel.MustPhone("9876543210")

type uowFactory struct {
	inner ports.UnitOfWorkFactory
}

func (f uowFactory) Create() commands.UoW {
	return f.inner.Create()
}

type productUoWFactory struct {
	inner ports.UnitOfWorkFactory
}

func (f productUoWFactory) Create() commands.ProductUoW {
	return f.inner.Create()
}

// canteen wires every command handler to the in-memory adapters with a pinned clock.
type canteen struct {
	t   *testing.T
	now time.Time

	ledger   ports.UnitOfWorkFactory
	uows     uowFactory
	stock    *stock.Manager
	carts    *cartstore.Store
	queue    *notificationqueue.Queue
	sessions *keylock.Locker
	orders   *keylock.Locker
}

func newCanteen(t *testing.T) *canteen {
	t.Helper()

	ledger := memory.NewUnitOfWorkFactory(memory.NewStore())
	manager, err := stock.NewManager(ledger)
	require.NoError(t, err)

	c := &canteen{
		t:        t,
		now:      time.Now().UTC().Truncate(time.Second),
		ledger:   ledger,
		uows:     uowFactory{inner: ledger},
		stock:    manager,
		carts:    cartstore.New(),
		sessions: keylock.New(),
		orders:   keylock.New(),
	}
	c.queue = notificationqueue.New(notificationqueue.WithClock(c.clock))
	return c
}

func (c *canteen) clock() time.Time {
	return c.now
}

func (c *canteen) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func (c *canteen) seedProduct(name, price string, stockManaged bool, count int) kernel.UUID {
	c.t.Helper()

	cmd, err := commands.NewCreateProductCommand(
		kernel.NewUUID(), name, facility, kernel.MustMoney(price), stockManaged, count,
	)
	require.NoError(c.t, err)
	h := commands.NewCreateProductCommandHandler(productUoWFactory{inner: c.ledger})
	require.NoError(c.t, h.Handle(c.t.Context(), cmd))
	return cmd.ProductID()
}

func (c *canteen) addToCartHandler() commands.AddToCartCommandHandler {
	return commands.NewAddToCartCommandHandler(c.carts, c.stock, c.sessions, c.clock)
}

func (c *canteen) addToCart(session string, id kernel.UUID, times int) {
	c.t.Helper()

	h := c.addToCartHandler()
	for range times {
		cmd, err := commands.NewAddToCartCommand(session, id)
		require.NoError(c.t, err)
		require.NoError(c.t, h.Handle(c.t.Context(), cmd))
	}
}

func (c *canteen) placeOrderHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.uows, c.carts, c.sessions, c.clock, nil)
}

func (c *canteen) placeOrder(session string, method order.PaymentMethod) commands.PlacedOrder {
	c.t.Helper()

	cmd, err := commands.NewPlaceOrderCommand(kernel.NewUUID(), session, customer, "Asha", facility, method)
	require.NoError(c.t, err)
	h := c.placeOrderHandler()
	placed, err := h.Handle(c.t.Context(), cmd)
	require.NoError(c.t, err)
	return placed
}

func (c *canteen) confirmPaymentHandler() commands.ConfirmPaymentCommandHandler {
	return commands.NewConfirmPaymentCommandHandler(c.uows, c.stock, c.orders, gatewaySecret, paymentWindow, c.clock)
}

func (c *canteen) staffHandler() commands.StaffTransitionCommandHandler {
	return commands.NewStaffTransitionCommandHandler(c.uows, c.stock, c.orders, c.queue, c.clock, nil)
}

func (c *canteen) staff(id kernel.UUID, trigger order.Trigger, eta int) (commands.TransitionResult, error) {
	c.t.Helper()

	cmd, err := commands.NewStaffTransitionCommand(id, trigger, facility, "staff-1", eta)
	require.NoError(c.t, err)
	h := c.staffHandler()
	return h.Handle(c.t.Context(), cmd)
}

func (c *canteen) product(id kernel.UUID) *product.Product {
	c.t.Helper()

	p, err := c.ledger.Create().ProductRepository().Get(c.t.Context(), id)
	require.NoError(c.t, err)
	return p
}

func (c *canteen) order(id kernel.UUID) *order.Order {
	c.t.Helper()

	o, err := c.ledger.Create().OrderRepository().Get(c.t.Context(), id)
	require.NoError(c.t, err)
	return o
}
