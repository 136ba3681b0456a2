package zpl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommands(t *testing.T) {
	assert.Equal(t, "^PW812^LL406", LabelSize(812, 406))
	assert.Equal(t, "^FO50,120", FieldOrigin(50, 120))
	assert.Equal(t, "^A0,40,40", Font('0', 40, 40))
	assert.Equal(t, "^FDhello^FS", FieldData("hello"))
	assert.Equal(t, "^FO50,120^BY2^BCN,80,Y,N,N^FD12345^FS", Barcode128(50, 120, 80, "12345"))
	assert.Equal(t, "^FO10,20^BQN,2,5^FDQA,https://example.com^FS", QRCode(10, 20, 5, "https://example.com"))
}

func TestBuildLabel(t *testing.T) {
	label := BuildLabel("Sample Product", "1234567890123", 99.99)

	assert.True(t, strings.HasPrefix(label, LabelStart))
	assert.True(t, strings.HasSuffix(label, LabelEnd))
	assert.Contains(t, label, "^PW812^LL406")
	assert.Contains(t, label, "Sample Product")
	assert.Contains(t, label, "1234567890123")
	assert.Contains(t, label, "¥99.99")
}
