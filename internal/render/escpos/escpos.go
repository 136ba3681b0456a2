// Package escpos builds command payloads for thermal receipt printers.
// The sequences can be embedded in templates or assembled directly.
package escpos

import (
	"bytes"
	"fmt"
)

var (
	// Init resets the printer (ESC @).
	Init = []byte{0x1B, '@'}

	AlignLeft   = []byte{0x1B, 'a', 0x00}
	AlignCenter = []byte{0x1B, 'a', 0x01}
	AlignRight  = []byte{0x1B, 'a', 0x02}

	BoldOn  = []byte{0x1B, 'E', 0x01}
	BoldOff = []byte{0x1B, 'E', 0x00}

	DoubleHeight = []byte{0x1B, '!', 0x10}
	DoubleWidth  = []byte{0x1B, '!', 0x20}
	NormalSize   = []byte{0x1B, '!', 0x00}

	CutPartial = []byte{0x1D, 'm'}
	CutFull    = []byte{0x1D, 'i'}

	// FeedAndCut feeds three lines and partial-cuts.
	FeedAndCut = []byte{0x1B, 'd', 0x03, 0x1D, 'm'}
)

// FeedLines feeds n lines (ESC d n).
func FeedLines(n byte) []byte {
	return []byte{0x1B, 'd', n}
}

// Beep sounds the buzzer (ESC B times duration).
func Beep(times, duration byte) []byte {
	return []byte{0x1B, 'B', times, duration}
}

// Item is one receipt line.
type Item struct {
	Name  string
	Price float64
}

const separator = "--------------------------------\n"

// BuildReceipt assembles a complete receipt: centered double-height
// title, one 20/10-column line per item, and a bold total, trailed by
// feed-and-cut.
func BuildReceipt(title string, items []Item, total float64) []byte {
	var b bytes.Buffer

	b.Write(Init)

	b.Write(AlignCenter)
	b.Write(DoubleHeight)
	b.WriteString(title)
	b.WriteByte('\n')
	b.Write(NormalSize)

	b.Write(AlignLeft)
	b.WriteString(separator)

	for _, item := range items {
		fmt.Fprintf(&b, "%-20s %10.2f\n", item.Name, item.Price)
	}

	b.WriteString(separator)

	b.Write(BoldOn)
	fmt.Fprintf(&b, "%-20s %10.2f\n", "TOTAL", total)
	b.Write(BoldOff)

	b.Write(FeedAndCut)

	return b.Bytes()
}
