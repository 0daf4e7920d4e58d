package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(name string, price int64, discounted *int64) ProductSnapshot {
	p := ProductSnapshot{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.NewFromInt(price),
		Stock: 10,
	}
	if discounted != nil {
		d := decimal.NewFromInt(*discounted)
		p.DiscountedPrice = &d
	}
	return p
}

func flavor(name string) *FlavorSnapshot {
	return &FlavorSnapshot{ID: uuid.New(), Name: name, Stock: 4}
}

func ptr[T any](v T) *T { return &v }

func TestCart_AddToCart(t *testing.T) {
	t.Run("same product twice merges into one line", func(t *testing.T) {
		c := New()
		a := product("Creatina", 90000, nil)
		require.NoError(t, c.AddToCart(a, 1, nil))
		require.NoError(t, c.AddToCart(a, 2, nil))

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 3, lines[0].Quantity)
	})

	t.Run("same product and flavor merges", func(t *testing.T) {
		c := New()
		a := product("Whey", 100000, nil)
		choc := flavor("Chocolate")
		require.NoError(t, c.AddToCart(a, 2, choc))
		require.NoError(t, c.AddToCart(a, 5, choc))

		require.Equal(t, 1, c.Len())
		assert.Equal(t, 7, c.Lines()[0].Quantity)
	})

	t.Run("different flavors are different lines", func(t *testing.T) {
		c := New()
		a := product("Whey", 100000, nil)
		require.NoError(t, c.AddToCart(a, 1, flavor("Chocolate")))
		require.NoError(t, c.AddToCart(a, 1, flavor("Vainilla")))
		require.NoError(t, c.AddToCart(a, 1, nil))
		assert.Equal(t, 3, c.Len())
	})

	t.Run("merging keeps the order of other lines", func(t *testing.T) {
		c := New()
		a := product("A", 10000, nil)
		b := product("B", 20000, nil)
		d := product("D", 30000, nil)
		require.NoError(t, c.AddToCart(a, 1, nil))
		require.NoError(t, c.AddToCart(b, 1, nil))
		require.NoError(t, c.AddToCart(d, 1, nil))
		require.NoError(t, c.AddToCart(a, 4, nil))

		lines := c.Lines()
		require.Len(t, lines, 3)
		assert.Equal(t, []string{"A", "B", "D"}, []string{lines[0].Product.Name, lines[1].Product.Name, lines[2].Product.Name})
		assert.Equal(t, 5, lines[0].Quantity)
	})

	t.Run("rejects quantity below one", func(t *testing.T) {
		c := New()
		err := c.AddToCart(product("A", 10000, nil), 0, nil)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		assert.True(t, c.IsEmpty())
	})
}

func TestCart_RemoveFromCart(t *testing.T) {
	t.Run("removes matching line", func(t *testing.T) {
		c := New()
		a := product("A", 10000, nil)
		choc := flavor("Chocolate")
		require.NoError(t, c.AddToCart(a, 1, choc))
		require.NoError(t, c.AddToCart(a, 1, nil))

		c.RemoveFromCart(a.ID, &choc.ID)
		require.Equal(t, 1, c.Len())
		assert.Nil(t, c.Lines()[0].Flavor)
	})

	t.Run("absent key is a no-op", func(t *testing.T) {
		c := New()
		a := product("A", 10000, nil)
		require.NoError(t, c.AddToCart(a, 2, nil))
		before := c.Lines()

		c.RemoveFromCart(uuid.New(), nil)
		c.RemoveFromCart(a.ID, ptr(uuid.New()))

		assert.Equal(t, before, c.Lines())
	})
}

func TestCart_UpdateQuantity(t *testing.T) {
	t.Run("overwrites quantity", func(t *testing.T) {
		c := New()
		a := product("A", 10000, nil)
		require.NoError(t, c.AddToCart(a, 2, nil))
		c.UpdateQuantity(a.ID, 9, nil)
		assert.Equal(t, 9, c.Lines()[0].Quantity)
	})

	t.Run("zero removes the line", func(t *testing.T) {
		c := New()
		a := product("A", 10000, nil)
		require.NoError(t, c.AddToCart(a, 2, nil))
		c.UpdateQuantity(a.ID, 0, nil)
		assert.True(t, c.IsEmpty())
	})

	t.Run("negative removes the line", func(t *testing.T) {
		c := New()
		a := product("A", 10000, nil)
		choc := flavor("Chocolate")
		require.NoError(t, c.AddToCart(a, 2, choc))
		c.UpdateQuantity(a.ID, -3, &choc.ID)
		assert.True(t, c.IsEmpty())
	})

	t.Run("absent key is a no-op", func(t *testing.T) {
		c := New()
		a := product("A", 10000, nil)
		require.NoError(t, c.AddToCart(a, 2, nil))
		c.UpdateQuantity(uuid.New(), 5, nil)
		assert.Equal(t, 2, c.Lines()[0].Quantity)
	})
}

func TestCart_Totals(t *testing.T) {
	t.Run("discounted whey scenario", func(t *testing.T) {
		c := New()
		require.NoError(t, c.AddToCart(product("Whey 1kg", 100000, ptr(int64(80000))), 2, nil))
		assert.Equal(t, 2, c.TotalItems())
		assert.Equal(t, int64(160000), c.Subtotal().Amount().IntPart())
	})

	t.Run("recomputed after every mutation", func(t *testing.T) {
		c := New()
		a := product("A", 10000, nil)
		b := product("B", 25000, ptr(int64(20000)))
		require.NoError(t, c.AddToCart(a, 3, nil))
		require.NoError(t, c.AddToCart(b, 1, nil))
		assert.Equal(t, int64(50000), c.Subtotal().Amount().IntPart())
		assert.Equal(t, 4, c.TotalItems())

		c.UpdateQuantity(a.ID, 1, nil)
		assert.Equal(t, int64(30000), c.Subtotal().Amount().IntPart())

		c.Clear()
		assert.True(t, c.Subtotal().IsZero())
		assert.Equal(t, 0, c.TotalItems())
	})

	t.Run("discounted price above base still applies to math", func(t *testing.T) {
		c := New()
		require.NoError(t, c.AddToCart(product("A", 10000, ptr(int64(12000))), 1, nil))
		assert.Equal(t, int64(12000), c.Subtotal().Amount().IntPart())
	})
}

func TestCart_LinesIsACopy(t *testing.T) {
	c := New()
	a := product("A", 10000, nil)
	require.NoError(t, c.AddToCart(a, 1, nil))

	lines := c.Lines()
	lines[0].Quantity = 99
	assert.Equal(t, 1, c.Lines()[0].Quantity)
}

func TestRestore(t *testing.T) {
	a := product("A", 10000, nil)

	t.Run("keeps order and quantities", func(t *testing.T) {
		b := product("B", 20000, nil)
		c, err := Restore([]Line{{Product: b, Quantity: 1}, {Product: a, Quantity: 4}})
		require.NoError(t, err)
		lines := c.Lines()
		assert.Equal(t, "B", lines[0].Product.Name)
		assert.Equal(t, 4, lines[1].Quantity)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := Restore([]Line{{Product: a, Quantity: 0}})
		assert.Error(t, err)
	})

	t.Run("rejects duplicate keys", func(t *testing.T) {
		_, err := Restore([]Line{{Product: a, Quantity: 1}, {Product: a, Quantity: 2}})
		assert.Error(t, err)
	})

	t.Run("rejects missing product", func(t *testing.T) {
		_, err := Restore([]Line{{Quantity: 1}})
		assert.Error(t, err)
	})
}

func TestLine_AvailableStock(t *testing.T) {
	p := product("Whey", 100000, nil)
	assert.Equal(t, 10, Line{Product: p, Quantity: 1}.AvailableStock())
	assert.Equal(t, 4, Line{Product: p, Flavor: flavor("Fresa"), Quantity: 1}.AvailableStock())
}
