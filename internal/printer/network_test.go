package printer

import (
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rprint/rprint/internal/model"
)

func testManager(printers []model.NetworkPrinter) *NetworkManager {
	return &NetworkManager{
		printers:     printers,
		dialTimeout:  time.Second,
		probeTimeout: 200 * time.Millisecond,
		logger:       slog.Default(),
	}
}

// fakePrinter listens like a JetDirect device and captures what the
// manager writes.
func fakePrinter(t *testing.T) (port int, received <-chan []byte) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	ch := make(chan []byte, 4)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			data, _ := io.ReadAll(conn)
			conn.Close()
			ch <- data
		}
	}()
	return ln.Addr().(*net.TCPAddr).Port, ch
}

func TestPrintRawWritesPayload(t *testing.T) {
	port, received := fakePrinter(t)
	m := testManager([]model.NetworkPrinter{
		{Name: "Kitchen", IP: "127.0.0.1", Port: port, Default: true},
	})

	payload := []byte("\x1B@receipt body\x1Bd\x03")
	require.NoError(t, m.PrintRaw("Kitchen", payload))

	select {
	case data := <-received:
		assert.Equal(t, payload, data)
	case <-time.After(2 * time.Second):
		t.Fatal("printer never received the payload")
	}
}

func TestPrintTextDelegatesToRaw(t *testing.T) {
	port, received := fakePrinter(t)
	m := testManager([]model.NetworkPrinter{
		{Name: "Kitchen", IP: "127.0.0.1", Port: port},
	})

	require.NoError(t, m.PrintText("Kitchen", "hello"))

	select {
	case data := <-received:
		assert.Equal(t, []byte("hello"), data)
	case <-time.After(2 * time.Second):
		t.Fatal("printer never received the payload")
	}
}

func TestPrintRawUnknownPrinter(t *testing.T) {
	m := testManager(nil)
	err := m.PrintRaw("Nope", []byte("x"))
	assert.ErrorContains(t, err, "unknown printer")
}

func TestListPrintersStatus(t *testing.T) {
	port, _ := fakePrinter(t)

	// Grab a port that nothing listens on.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	deadPort := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	m := testManager([]model.NetworkPrinter{
		{Name: "Kitchen", IP: "127.0.0.1", Port: port, Default: true},
		{Name: "Bar", IP: "127.0.0.1", Port: deadPort},
	})

	infos, err := m.ListPrinters()
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, model.PrinterInfo{Name: "Kitchen", IsDefault: true, Status: "ready"}, infos[0])
	assert.Equal(t, model.PrinterInfo{Name: "Bar", IsDefault: false, Status: "offline"}, infos[1])
}

func TestDefaultPrinter(t *testing.T) {
	m := testManager([]model.NetworkPrinter{
		{Name: "A"},
		{Name: "B", Default: true},
	})
	name, err := m.DefaultPrinter()
	require.NoError(t, err)
	assert.Equal(t, "B", name)

	m = testManager(nil)
	name, err = m.DefaultPrinter()
	require.NoError(t, err)
	assert.Empty(t, name)
}
