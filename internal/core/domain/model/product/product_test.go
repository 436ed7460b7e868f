package product_test

import (
	"testing"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/product"
	"canteen/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newStocked(t *testing.T, stock int) *product.Product {
	t.Helper()
	p, err := product.NewProduct(kernel.NewUUID(), "Masala Dosa", "north-campus", kernel.MustMoney("60.00"), true, stock)
	require.NoError(t, err)
	return p
}

func TestNewProduct_Validation(t *testing.T) {
	_, err := product.NewProduct(kernel.UUID{}, "", " ", kernel.Money{}, true, -1)
	require.Error(t, err)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, kernel.ErrMoneyIsNotConstructed)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = product.NewProduct(kernel.NewUUID(), "Tea", "f", kernel.MustMoney("10"), false, 5)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestProduct_ZeroValueIsNotConstructed(t *testing.T) {
	var p *product.Product
	require.ErrorIs(t, p.Validate(), product.ErrProductIsNotConstructed)
	require.ErrorIs(t, (&product.Product{}).Validate(), product.ErrProductIsNotConstructed)
}

func TestProduct_Reserve(t *testing.T) {
	t.Run("takes and returns managed stock", func(t *testing.T) {
		p := newStocked(t, 2)

		ok, remaining, err := p.Reserve(1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, remaining)

		ok, remaining, err = p.Reserve(-1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 2, remaining)
	})

	t.Run("rejects overdraw without changing state", func(t *testing.T) {
		p := newStocked(t, 1)

		ok, remaining, err := p.Reserve(2)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 1, remaining)
		assert.Equal(t, 1, p.StockCount())
	})

	t.Run("rejects release beyond capacity", func(t *testing.T) {
		p := newStocked(t, 3)

		ok, _, err := p.Reserve(-1)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.False(t, ok)
		assert.Equal(t, 3, p.StockCount())
	})

	t.Run("zero delta is invalid", func(t *testing.T) {
		p := newStocked(t, 3)
		_, _, err := p.Reserve(0)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("unmanaged products always succeed", func(t *testing.T) {
		p, err := product.NewProduct(kernel.NewUUID(), "Water", "f", kernel.MustMoney("20"), false, 0)
		require.NoError(t, err)

		ok, remaining, err := p.Reserve(1000)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, product.Unmanaged, remaining)
	})

	t.Run("unavailable products cannot be reserved but accept releases", func(t *testing.T) {
		p := newStocked(t, 2)
		_, _, err := p.Reserve(1)
		require.NoError(t, err)
		p.SetAvailable(false)

		_, _, err = p.Reserve(1)
		require.ErrorIs(t, err, product.ErrProductUnavailable)

		ok, remaining, err := p.Reserve(-1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 2, remaining)
	})
}

func TestProduct_CanSupply(t *testing.T) {
	p := newStocked(t, 1)
	require.NoError(t, p.CanSupply(1))

	err := p.CanSupply(2)
	var stockErr *product.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Remaining)
	assert.Equal(t, "insufficient stock: Masala Dosa requested 2, 1 left", err.Error())

	p.SetAvailable(false)
	require.ErrorIs(t, p.CanSupply(1), product.ErrProductUnavailable)
}

func TestInsufficientStockError_NamesIDWithoutName(t *testing.T) {
	id := kernel.NewUUID()
	err := &product.InsufficientStockError{ProductID: id, Requested: 1, Remaining: 0}

	assert.Equal(t, "insufficient stock: "+id.String()+" requested 1, 0 left", err.Error())
}

func TestProduct_ChangePrice(t *testing.T) {
	p := newStocked(t, 1)
	require.NoError(t, p.ChangePrice(kernel.MustMoney("75")))
	assert.Equal(t, "75.00", p.Price().String())

	require.ErrorIs(t, p.ChangePrice(kernel.Money{}), kernel.ErrMoneyIsNotConstructed)
	assert.Equal(t, "75.00", p.Price().String())
}

func TestRestoreProduct_RejectsBrokenInvariants(t *testing.T) {
	_, err := product.RestoreProduct(kernel.NewUUID(), "Idli", "f", kernel.MustMoney("30"), true, true, 5, 3, 1)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	p, err := product.RestoreProduct(kernel.NewUUID(), "Idli", "f", kernel.MustMoney("30"), false, true, 2, 3, 7)
	require.NoError(t, err)
	assert.False(t, p.IsAvailable())
	assert.Equal(t, 7, p.Version())

	p.AdvanceVersion()
	assert.Equal(t, 8, p.Version())
}

func TestProduct_StockStaysWithinBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(0, 20).Draw(t, "capacity")
		p, err := product.NewProduct(kernel.NewUUID(), "Vada", "f", kernel.MustMoney("15"), true, capacity)
		if err != nil {
			t.Fatalf("constructing product: %v", err)
		}

		deltas := rapid.SliceOf(rapid.IntRange(-5, 5).Filter(func(d int) bool { return d != 0 })).Draw(t, "deltas")
		for _, d := range deltas {
			before := p.StockCount()
			ok, _, _ := p.Reserve(d)

			if !ok && p.StockCount() != before {
				t.Fatalf("rejected delta %d changed stock from %d to %d", d, before, p.StockCount())
			}
			if p.StockCount() < 0 || p.StockCount() > capacity {
				t.Fatalf("stock %d escaped [0, %d]", p.StockCount(), capacity)
			}
		}
	})
}
