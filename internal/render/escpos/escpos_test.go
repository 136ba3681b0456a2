package escpos

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedLines(t *testing.T) {
	assert.Equal(t, []byte{0x1B, 'd', 5}, FeedLines(5))
}

func TestBeep(t *testing.T) {
	assert.Equal(t, []byte{0x1B, 'B', 2, 4}, Beep(2, 4))
}

func TestBuildReceipt(t *testing.T) {
	items := []Item{
		{Name: "Espresso", Price: 25.00},
		{Name: "Croissant", Price: 18.50},
	}
	receipt := BuildReceipt("Cafe Receipt", items, 43.50)

	require.NotEmpty(t, receipt)
	assert.True(t, bytes.HasPrefix(receipt, Init))
	assert.True(t, bytes.HasSuffix(receipt, FeedAndCut))

	assert.Contains(t, string(receipt), "Cafe Receipt")
	// Items are name(20, left) price(10, right, 2 decimals).
	assert.Contains(t, string(receipt), fmt.Sprintf("%-20s %10.2f\n", "Espresso", 25.00))
	assert.Contains(t, string(receipt), fmt.Sprintf("%-20s %10.2f\n", "Croissant", 18.50))
	assert.Contains(t, string(receipt), fmt.Sprintf("%-20s %10.2f\n", "TOTAL", 43.50))

	// Title styling: centered, double height, then back to normal.
	assert.Equal(t, 1, bytes.Count(receipt, AlignCenter))
	assert.Equal(t, 1, bytes.Count(receipt, DoubleHeight))
	assert.True(t, bytes.Contains(receipt, NormalSize))

	// Separator rule above and below the item lines.
	assert.Equal(t, 2, bytes.Count(receipt, []byte(separator)))

	// Total is bold.
	boldStart := bytes.Index(receipt, BoldOn)
	boldEnd := bytes.Index(receipt, BoldOff)
	require.GreaterOrEqual(t, boldStart, 0)
	require.Greater(t, boldEnd, boldStart)
	assert.Contains(t, string(receipt[boldStart:boldEnd]), "TOTAL")
}

func TestBuildReceiptEmpty(t *testing.T) {
	receipt := BuildReceipt("Empty", nil, 0)
	assert.True(t, bytes.HasPrefix(receipt, Init))
	assert.Contains(t, string(receipt), "TOTAL")
}
