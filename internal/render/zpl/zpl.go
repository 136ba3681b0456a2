// Package zpl builds label payloads in the ZPL command language.
package zpl

import (
	"fmt"
	"strings"
)

const (
	LabelStart = "^XA"
	LabelEnd   = "^XZ"
)

// LabelSize sets print width and label length in device dots.
func LabelSize(width, height int) string {
	return fmt.Sprintf("^PW%d^LL%d", width, height)
}

// FieldOrigin positions the next field at (x, y).
func FieldOrigin(x, y int) string {
	return fmt.Sprintf("^FO%d,%d", x, y)
}

// Font selects a font by name character with the given height and
// width in dots.
func Font(name byte, height, width int) string {
	return fmt.Sprintf("^A%c,%d,%d", name, height, width)
}

// FieldData emits field text with its terminator.
func FieldData(text string) string {
	return fmt.Sprintf("^FD%s^FS", text)
}

// Barcode128 emits a Code 128 barcode field.
func Barcode128(x, y, height int, data string) string {
	return fmt.Sprintf("^FO%d,%d^BY2^BCN,%d,Y,N,N^FD%s^FS", x, y, height, data)
}

// QRCode emits a QR code field at the given magnification.
func QRCode(x, y, magnification int, data string) string {
	return fmt.Sprintf("^FO%d,%d^BQN,2,%d^FDQA,%s^FS", x, y, magnification, data)
}

// BuildLabel assembles a 4x2in label at 203dpi (812x406 dots) with a
// product name, a Code 128 barcode, and a currency-formatted price.
func BuildLabel(productName, barcode string, price float64) string {
	var b strings.Builder

	b.WriteString(LabelStart)
	b.WriteByte('\n')

	b.WriteString(LabelSize(812, 406))
	b.WriteByte('\n')

	b.WriteString(FieldOrigin(50, 50))
	b.WriteString(Font('0', 40, 40))
	b.WriteString(FieldData(productName))
	b.WriteByte('\n')

	b.WriteString(Barcode128(50, 120, 80, barcode))
	b.WriteByte('\n')

	b.WriteString(FieldOrigin(50, 250))
	b.WriteString(Font('0', 60, 60))
	b.WriteString(FieldData(fmt.Sprintf("¥%.2f", price)))
	b.WriteByte('\n')

	b.WriteString(LabelEnd)

	return b.String()
}
