package services_test

import (
	"testing"
	"time"

	"canteen/internal/core/domain/model/cart"
	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/domain/model/product"
	"canteen/internal/core/domain/services"
	"canteen/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newProduct(t *testing.T, name, facility, price string) *product.Product {
	t.Helper()
	p, err := product.NewProduct(kernel.NewUUID(), name, facility, kernel.MustMoney(price), true, 10)
	require.NoError(t, err)
	return p
}

func checkout(method order.PaymentMethod) services.Checkout {
	return services.Checkout{
		OrderID:       kernel.NewUUID(),
		Customer:      kernel.MustPhone("9876543210"),
		CustomerName:  "Asha",
		Facility:      "north-block",
		PaymentMethod: method,
	}
}

func TestOrderMaterializer_Materialize(t *testing.T) {
	tea := newProduct(t, "Masala Tea", "north-block", "15.00")
	dosa := newProduct(t, "Plain Dosa", "north-block", "45.50")

	t.Run("snapshots prices in cart order and places the order", func(t *testing.T) {
		c, _ := cart.NewCart("sess", now)
		require.NoError(t, c.Add(dosa.ID(), now))
		require.NoError(t, c.Add(tea.ID(), now))
		require.NoError(t, c.Add(tea.ID(), now))

		o, err := services.NewOrderMaterializer().Materialize(c, []*product.Product{tea, dosa}, checkout(order.Online), now)

		require.NoError(t, err)
		assert.Equal(t, order.PaymentPending, o.Status())
		require.Len(t, o.Items(), 2)
		assert.Equal(t, "Plain Dosa", o.Items()[0].ProductName())
		assert.Equal(t, 2, o.Items()[1].Quantity())
		assert.Equal(t, "75.50", o.Total().String())
		assert.False(t, c.IsEmpty(), "the caller clears the cart after commit")

		require.NoError(t, tea.ChangePrice(kernel.MustMoney("20.00")))
		assert.Equal(t, "75.50", o.Total().String(), "later price changes do not touch the order")
	})

	t.Run("cash orders go straight to paid", func(t *testing.T) {
		c, _ := cart.NewCart("sess", now)
		require.NoError(t, c.Add(dosa.ID(), now))

		o, err := services.OrderMaterializer{}.Materialize(c, []*product.Product{dosa}, checkout(order.Cash), now)

		require.NoError(t, err)
		assert.Equal(t, order.Paid, o.Status())
	})

	t.Run("empty cart", func(t *testing.T) {
		c, _ := cart.NewCart("sess", now)

		o, err := services.OrderMaterializer{}.Materialize(c, nil, checkout(order.Cash), now)

		require.ErrorIs(t, err, cart.ErrEmptyCart)
		assert.Nil(t, o)
	})

	t.Run("unavailable product", func(t *testing.T) {
		vada := newProduct(t, "Vada", "north-block", "20.00")
		vada.SetAvailable(false)
		c, _ := cart.NewCart("sess", now)
		require.NoError(t, c.Add(vada.ID(), now))

		_, err := services.OrderMaterializer{}.Materialize(c, []*product.Product{vada}, checkout(order.Cash), now)

		var unavailable *product.UnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, "Vada", unavailable.Name)
	})

	t.Run("product missing from catalog", func(t *testing.T) {
		c, _ := cart.NewCart("sess", now)
		require.NoError(t, c.Add(kernel.NewUUID(), now))

		_, err := services.OrderMaterializer{}.Materialize(c, []*product.Product{tea}, checkout(order.Cash), now)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("product of another facility", func(t *testing.T) {
		samosa := newProduct(t, "Samosa", "south-block", "12.00")
		c, _ := cart.NewCart("sess", now)
		require.NoError(t, c.Add(samosa.ID(), now))

		_, err := services.OrderMaterializer{}.Materialize(c, []*product.Product{samosa}, checkout(order.Cash), now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
