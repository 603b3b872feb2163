package sales

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saleAt(day string, saleNumber string, quantity int, total int64) Sale {
	t, _ := time.Parse("2006-01-02", day)
	return Sale{
		SaleNumber: saleNumber,
		Quantity:   quantity,
		TotalPrice: total,
		CreatedAt:  t,
	}
}

func TestSummarizeByDayGroupsPerCalendarDay(t *testing.T) {
	rows := []Sale{
		saleAt("2026-08-25", "POS-20260825-AAAA1111", 2, 3000),
		saleAt("2026-08-25", "POS-20260825-BBBB2222", 1, 1500),
		saleAt("2026-08-26", "POS-20260826-CCCC3333", 4, 2800),
	}

	summary := SummarizeByDay(rows)
	require.Len(t, summary, 2)

	// Newest day first.
	assert.Equal(t, "2026-08-26", summary[0].Day)
	assert.Equal(t, int64(2800), summary[0].TotalSales)
	assert.Equal(t, 4, summary[0].ItemsSold)
	assert.Equal(t, 1, summary[0].Transactions)

	assert.Equal(t, "2026-08-25", summary[1].Day)
	assert.Equal(t, int64(4500), summary[1].TotalSales)
	assert.Equal(t, 3, summary[1].ItemsSold)
	assert.Equal(t, 2, summary[1].Transactions)
}

func TestSummarizeByDayCountsMultiLineCheckoutOnce(t *testing.T) {
	rows := []Sale{
		saleAt("2026-08-25", "POS-20260825-AAAA1111", 1, 1000),
		saleAt("2026-08-25", "POS-20260825-AAAA1111", 2, 2000),
		saleAt("2026-08-25", "POS-20260825-AAAA1111", 3, 3000),
	}

	summary := SummarizeByDay(rows)
	require.Len(t, summary, 1)
	assert.Equal(t, 1, summary[0].Transactions)
	assert.Equal(t, 6, summary[0].ItemsSold)
	assert.Equal(t, int64(6000), summary[0].TotalSales)
}

func TestSummarizeByDayEmpty(t *testing.T) {
	summary := SummarizeByDay(nil)
	assert.Empty(t, summary)
}
