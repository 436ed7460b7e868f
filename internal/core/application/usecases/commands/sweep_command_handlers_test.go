package commands_test

import (
	"testing"
	"time"

	"canteen/internal/core/application/usecases/commands"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExpirePendingPaymentsCommand_RequiresTime(t *testing.T) {
	_, err := commands.NewExpirePendingPaymentsCommand(time.Time{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestExpirePendingPaymentsCommandHandler(t *testing.T) {
	c := newCanteen(t)
	dosa := c.seedProduct("Dosa", "40.00", true, 5)

	c.addToCart("old", dosa, 2)
	stale := c.placeOrder("old", order.Online)
	c.advance(paymentWindow - time.Minute)
	c.addToCart("new", dosa, 1)
	fresh := c.placeOrder("new", order.Online)
	c.addToCart("cash", dosa, 1)
	cash := c.placeOrder("cash", order.Cash)
	require.Equal(t, 1, c.product(dosa).StockCount())

	c.advance(2 * time.Minute)
	h := commands.NewExpirePendingPaymentsCommandHandler(c.uows, c.stock, c.orders, paymentWindow, nil)
	cmd, err := commands.NewExpirePendingPaymentsCommand(c.now)
	require.NoError(t, err)

	expired, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	assert.Equal(t, order.Cancelled, c.order(stale.ID).Status())
	assert.Equal(t, order.PaymentFailed, c.order(stale.ID).PaymentStatus())
	assert.Equal(t, order.PaymentPending, c.order(fresh.ID).Status())
	assert.Equal(t, order.Paid, c.order(cash.ID).Status())
	assert.Equal(t, 3, c.product(dosa).StockCount())

	expired, err = h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Zero(t, expired)
}

func TestExpirePendingPaymentsCommandHandler_ExpireOrderRechecks(t *testing.T) {
	c := newCanteen(t)
	dosa := c.seedProduct("Dosa", "40.00", true, 5)
	c.addToCart("sess", dosa, 1)
	placed := c.placeOrder("sess", order.Online)
	h := commands.NewExpirePendingPaymentsCommandHandler(c.uows, c.stock, c.orders, paymentWindow, nil)

	ok, err := h.ExpireOrder(t.Context(), placed.ID, c.now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = confirmPayment(t, c, placed.ID, true, "40.00", true)
	require.NoError(t, err)

	ok, err = h.ExpireOrder(t.Context(), placed.ID, c.now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, order.Paid, c.order(placed.ID).Status())
}

func TestExpireCartsCommandHandler(t *testing.T) {
	c := newCanteen(t)
	dosa := c.seedProduct("Dosa", "40.00", true, 5)
	c.addToCart("idle", dosa, 2)
	c.advance(cartTTL)
	c.addToCart("busy", dosa, 1)
	c.advance(time.Minute)

	h := commands.NewExpireCartsCommandHandler(c.carts, c.stock, c.sessions, cartTTL, nil)
	cmd, err := commands.NewExpireCartsCommand(c.now)
	require.NoError(t, err)

	expired, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	_, err = c.carts.Get(t.Context(), "idle")
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	busy, err := c.carts.Get(t.Context(), "busy")
	require.NoError(t, err)
	assert.Equal(t, 1, busy.Quantity(dosa))
	assert.Equal(t, 4, c.product(dosa).StockCount())
}

func TestNotificationCommandHandlers(t *testing.T) {
	c := newCanteen(t)
	dosa := c.seedProduct("Dosa", "40.00", true, 5)
	c.addToCart("sess", dosa, 1)
	placed := c.placeOrder("sess", order.Cash)
	_, err := c.staff(placed.ID, order.TriggerAccept, 0)
	require.NoError(t, err)

	dismiss := commands.NewDismissNotificationCommandHandler(c.queue)
	cmd, err := commands.NewDismissNotificationCommand(customer, placed.ID)
	require.NoError(t, err)
	require.NoError(t, dismiss.Handle(t.Context(), cmd))
	require.NoError(t, dismiss.Handle(t.Context(), cmd))

	swept := 0
	purge := commands.NewPurgeNotificationsCommandHandler(c.queue, func(time.Time) int {
		swept++
		return 0
	})
	purgeCmd, err := commands.NewPurgeNotificationsCommand(c.now)
	require.NoError(t, err)
	removed, err := purge.Handle(t.Context(), purgeCmd)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, swept)

	events, err := c.queue.Poll(t.Context(), customer)
	require.NoError(t, err)
	assert.Empty(t, events)
}
