package services

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rprint/rprint/internal/model"
)

func newTestServer(t *testing.T, mgr *fakeManager) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(model.ServerConfig{}, "0.1.0", mgr, NewDispatcher(mgr, ""))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readFrame reads one frame and decodes it into a generic map.
func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	return got
}

func send(t *testing.T, conn *websocket.Conn, frame string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
}

func TestHealthEndpoint(t *testing.T) {
	_, ts := newTestServer(t, newFakeManager("Front"))

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestPingPong(t *testing.T) {
	_, ts := newTestServer(t, newFakeManager("Front"))
	conn := dialWS(t, ts)

	send(t, conn, `{"type":"ping"}`)
	assert.Equal(t, "pong", readFrame(t, conn)["type"])
}

func TestInvalidMessageKeepsConnection(t *testing.T) {
	_, ts := newTestServer(t, newFakeManager("Front"))
	conn := dialWS(t, ts)

	send(t, conn, `this is not json`)
	got := readFrame(t, conn)
	assert.Equal(t, "error", got["type"])
	assert.Equal(t, model.ErrorCodeInvalidMessage, got["code"])

	// The connection survives a bad frame.
	send(t, conn, `{"type":"ping"}`)
	assert.Equal(t, "pong", readFrame(t, conn)["type"])
}

func TestGetPrinters(t *testing.T) {
	_, ts := newTestServer(t, newFakeManager("Front"))
	conn := dialWS(t, ts)

	send(t, conn, `{"type":"get_printers"}`)
	got := readFrame(t, conn)
	assert.Equal(t, "printers", got["type"])

	printers, ok := got["printers"].([]any)
	require.True(t, ok)
	require.Len(t, printers, 1)
	first := printers[0].(map[string]any)
	assert.Equal(t, "Front", first["name"])
	assert.Equal(t, true, first["is_default"])
}

func TestPrintRoundTrip(t *testing.T) {
	mgr := newFakeManager("Front")
	_, ts := newTestServer(t, mgr)
	conn := dialWS(t, ts)

	send(t, conn, `{
		"type": "print",
		"id": "job-9",
		"template_type": "escpos",
		"template": "Ticket {{n}}\n",
		"data": {"n": "7"},
		"options": {"copies": 2}
	}`)
	got := readFrame(t, conn)
	assert.Equal(t, "print_result", got["type"])
	assert.Equal(t, "job-9", got["id"])
	assert.Equal(t, "success", got["status"])
	assert.Len(t, mgr.rawCalls, 2)
}

func TestPrintFailureReportsError(t *testing.T) {
	mgr := newFakeManager("") // no printer anywhere
	_, ts := newTestServer(t, mgr)
	conn := dialWS(t, ts)

	send(t, conn, `{
		"type": "print",
		"id": "job-10",
		"template_type": "escpos",
		"template": "x",
		"data": {}
	}`)
	got := readFrame(t, conn)
	assert.Equal(t, "print_result", got["type"])
	assert.Equal(t, "job-10", got["id"])
	assert.Equal(t, "error", got["status"])
	assert.Contains(t, got["message"], "no default printer")
}

func TestGetStatusCountsConnections(t *testing.T) {
	_, ts := newTestServer(t, newFakeManager("Front"))
	a := dialWS(t, ts)
	b := dialWS(t, ts)

	// A round trip on b guarantees its connection is registered
	// before a asks for the count. a drains the broadcast copy.
	send(t, b, `{"type":"ping"}`)
	require.Equal(t, "pong", readFrame(t, b)["type"])
	require.Equal(t, "pong", readFrame(t, a)["type"])

	send(t, a, `{"type":"get_status"}`)
	got := readFrame(t, a)
	assert.Equal(t, "status", got["type"])
	assert.Equal(t, "online", got["status"])
	assert.Equal(t, float64(2), got["connections"])
	assert.Equal(t, "0.1.0", got["version"])
}

// Every response is fanned out to all connections, not just the one
// that sent the request.
func TestBroadcastFanOut(t *testing.T) {
	_, ts := newTestServer(t, newFakeManager("Front"))
	a := dialWS(t, ts)
	// A round trip proves a's subscription is registered before
	// anything else is published.
	send(t, a, `{"type":"ping"}`)
	require.Equal(t, "pong", readFrame(t, a)["type"])

	b := dialWS(t, ts)
	send(t, b, `{"type":"get_status"}`)
	require.Equal(t, "status", readFrame(t, b)["type"])
	// a also sees b's status response.
	require.Equal(t, "status", readFrame(t, a)["type"])

	send(t, a, `{"type":"ping"}`)
	assert.Equal(t, "pong", readFrame(t, a)["type"])
	assert.Equal(t, "pong", readFrame(t, b)["type"])
}

func TestHubLaggingReceiver(t *testing.T) {
	h := newHub(2)
	sub := h.subscribe()
	defer h.unsubscribe(sub)

	// Three frames into a depth-2 buffer: the oldest is dropped and
	// no publish blocks.
	h.publish([]byte("one"))
	h.publish([]byte("two"))
	h.publish([]byte("three"))

	assert.Equal(t, []byte("two"), <-sub.ch)
	assert.Equal(t, []byte("three"), <-sub.ch)
	select {
	case frm := <-sub.ch:
		t.Fatalf("unexpected extra frame %q", frm)
	default:
	}
}

func TestHubUnsubscribeTwice(t *testing.T) {
	h := newHub(1)
	sub := h.subscribe()
	h.unsubscribe(sub)
	h.unsubscribe(sub)

	// Publishing after unsubscribe must not panic on a closed channel.
	h.publish([]byte("late"))
}

func TestConnCounterSaturates(t *testing.T) {
	var c connCounter
	assert.Equal(t, 0, c.dec())
	assert.Equal(t, 1, c.inc())
	assert.Equal(t, 2, c.inc())
	assert.Equal(t, 1, c.dec())
	assert.Equal(t, 0, c.dec())
	assert.Equal(t, 0, c.dec())
	assert.Equal(t, 0, c.count())
}
