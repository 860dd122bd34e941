package hudfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jg18/fs2open.github.com/internal/ai"
	"github.com/jg18/fs2open.github.com/internal/testutil"
)

type fakeSource struct {
	calls atomic.Int32
}

func (f *fakeSource) Snapshot() []ai.HUDView {
	f.calls.Add(1)
	return []ai.HUDView{{Ship: "alpha 1", Team: "friendly", Mode: "chase", Hull: 1}}
}

func startHub(t *testing.T, interval time.Duration) (*Hub, *fakeSource, string, context.CancelFunc) {
	t.Helper()
	src := &fakeSource{}
	hub := NewHub(src, interval)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- hub.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-errCh)
	})

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	t.Cleanup(srv.Close)
	return hub, src, "ws" + strings.TrimPrefix(srv.URL, "http"), cancel
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if resp != nil {
		resp.Body.Close()
	}
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHub_InitialAndPeriodicSnapshots(t *testing.T) {
	hub, _, url, _ := startHub(t, 20*time.Millisecond)
	conn := dial(t, url)

	first := readMessage(t, conn)
	assert.Equal(t, MsgTypeSnapshot, first.Type)
	require.Len(t, first.Data, 1)
	assert.Equal(t, "alpha 1", first.Data[0].Ship)
	assert.Equal(t, "chase", first.Data[0].Mode)
	assert.Equal(t, 1, hub.Clients())

	next := readMessage(t, conn)
	assert.Greater(t, next.Tick, first.Tick)
}

func TestHub_MultipleViewers(t *testing.T) {
	hub, src, url, _ := startHub(t, 10*time.Millisecond)
	a := dial(t, url)
	b := dial(t, url)

	readMessage(t, a)
	readMessage(t, b)
	testutil.WaitFor(t, func() bool { return hub.Clients() == 2 }, 5*time.Second)
	assert.Positive(t, src.calls.Load())

	require.NoError(t, a.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	a.Close()
	testutil.WaitFor(t, func() bool { return hub.Clients() == 1 }, 5*time.Second)

	readMessage(t, b)
}

func TestHub_ShutdownClosesViewers(t *testing.T) {
	hub, _, url, cancel := startHub(t, time.Hour)
	conn := dial(t, url)
	readMessage(t, conn)

	cancel()
	testutil.WaitFor(t, func() bool { return hub.Clients() == 0 }, 5*time.Second)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "viewer sees the connection close")
}
