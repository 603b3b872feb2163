package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMergesSameProduct(t *testing.T) {
	c := New("s1")

	_, err := c.Add(7, "Screen Protector", 500, 2)
	require.NoError(t, err)
	_, err = c.Add(7, "Screen Protector", 500, 3)
	require.NoError(t, err)

	require.Equal(t, 1, c.ItemCount())
	line := c.Lines[0]
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, int64(2500), line.LineTotal)
	assert.Equal(t, int64(2500), c.Total())
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	c := New("s1")

	_, err := c.Add(1, "Charger", 1500, 1)
	require.NoError(t, err)
	_, err = c.Add(2, "Battery", 3000, 1)
	require.NoError(t, err)
	_, err = c.Add(1, "Charger", 1500, 1)
	require.NoError(t, err)

	require.Equal(t, 2, c.ItemCount())
	assert.Equal(t, uint(1), c.Lines[0].ProductID)
	assert.Equal(t, uint(2), c.Lines[1].ProductID)
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestAddRejectsZeroQuantity(t *testing.T) {
	c := New("s1")

	_, err := c.Add(1, "Charger", 1500, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.True(t, c.IsEmpty())
}

func TestRemoveByStableLineID(t *testing.T) {
	c := New("s1")

	_, err := c.Add(1, "Charger", 1500, 1)
	require.NoError(t, err)
	second, err := c.Add(2, "Battery", 3000, 2)
	require.NoError(t, err)
	_, err = c.Add(3, "Cable", 700, 1)
	require.NoError(t, err)

	require.NoError(t, c.Remove(second.LineID))

	require.Equal(t, 2, c.ItemCount())
	assert.Equal(t, uint(1), c.Lines[0].ProductID)
	assert.Equal(t, uint(3), c.Lines[1].ProductID)
	assert.Equal(t, int64(2200), c.Total())
}

func TestRemoveUnknownLineLeavesCartUnmodified(t *testing.T) {
	c := New("s1")

	_, err := c.Add(1, "Charger", 1500, 1)
	require.NoError(t, err)

	err = c.Remove(999)
	assert.ErrorIs(t, err, ErrLineNotFound)
	assert.Equal(t, 1, c.ItemCount())
	assert.Equal(t, int64(1500), c.Total())
}

func TestRemoveLastLineEmptiesCart(t *testing.T) {
	c := New("s1")

	line, err := c.Add(1, "Charger", 1500, 1)
	require.NoError(t, err)

	require.NoError(t, c.Remove(line.LineID))
	assert.True(t, c.IsEmpty())
	assert.Equal(t, int64(0), c.Total())
}

func TestLineIDsNotReusedAfterRemove(t *testing.T) {
	c := New("s1")

	first, err := c.Add(1, "Charger", 1500, 1)
	require.NoError(t, err)
	require.NoError(t, c.Remove(first.LineID))

	second, err := c.Add(2, "Battery", 3000, 1)
	require.NoError(t, err)
	assert.Greater(t, second.LineID, first.LineID)
}

func TestClearAndReuse(t *testing.T) {
	c := New("s1")

	_, err := c.Add(1, "Charger", 1500, 2)
	require.NoError(t, err)
	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Equal(t, int64(0), c.Total())

	// A cart is reusable across checkouts.
	_, err = c.Add(2, "Battery", 3000, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), c.Total())
}

func TestTotalQuantity(t *testing.T) {
	c := New("s1")

	_, err := c.Add(1, "Charger", 1500, 2)
	require.NoError(t, err)
	_, err = c.Add(2, "Battery", 3000, 3)
	require.NoError(t, err)

	assert.Equal(t, 5, c.TotalQuantity())
	assert.Equal(t, 2, c.ItemCount())
}
