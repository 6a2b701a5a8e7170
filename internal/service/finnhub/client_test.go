package finnhub

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldCast/internal/domain/models"
)

func TestApplyKeepsNewestTrade(t *testing.T) {
	c := New(Config{}, nil)
	n := c.apply([]byte(`{"type":"trade","data":[{"s":"OANDA:XAU_USD","p":2001.5,"v":3,"t":1700000001000},{"s":"OANDA:XAU_USD","p":2000,"v":1,"t":1700000000000}]}`))
	assert.Equal(t, 1, n)

	tick, err := c.GetCurrentPrice(context.Background(), "OANDA:XAU_USD")
	require.NoError(t, err)
	assert.Equal(t, 2001.5, tick.MainPrice())
	assert.Equal(t, 3.0, tick.Volume)

	assert.Zero(t, c.apply([]byte(`{"type":"ping"}`)))
	assert.Zero(t, c.apply([]byte(`not json`)))
}

func TestGetCurrentPriceErrors(t *testing.T) {
	c := New(Config{StaleAfter: time.Minute}, nil)
	_, err := c.GetCurrentPrice(context.Background(), "XAU")
	assert.ErrorIs(t, err, models.ErrFeedUnavailable)

	c.apply([]byte(`{"type":"trade","data":[{"s":"XAU","p":2000,"v":1,"t":1700000000000}]}`))
	c.now = func() time.Time { return time.UnixMilli(1700000000000).Add(2 * time.Minute) }
	_, err = c.GetCurrentPrice(context.Background(), "XAU")
	assert.ErrorIs(t, err, models.ErrFeedUnavailable)
}

func TestStreamSubscribesAndCaches(t *testing.T) {
	subscribed := make(chan string, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var sub map[string]string
		if err := conn.ReadJSON(&sub); err != nil {
			return
		}
		subscribed <- sub["symbol"]
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"trade","data":[{"s":"XAU","p":2010.25,"v":2,"t":1700000000000}]}`))
		_, _, _ = conn.ReadMessage() // hold until the client closes
	}))
	defer srv.Close()

	c := New(Config{
		APIKey:       "secret",
		WebsocketURL: "ws" + strings.TrimPrefix(srv.URL, "http"),
		Symbols:      []string{"XAU"},
	}, nil)
	require.NoError(t, c.EnsureConnection(context.Background()))
	defer c.Close()

	assert.Equal(t, "XAU", <-subscribed)
	assert.Eventually(t, func() bool {
		tick, err := c.GetCurrentPrice(context.Background(), "XAU")
		return err == nil && tick.Last == 2010.25
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, c.IsConnected())
	require.NoError(t, c.EnsureConnection(context.Background()), "already connected")
}

func TestGetCurrentPriceResolvesAlias(t *testing.T) {
	c := New(Config{Aliases: map[string]string{"XAUUSD": "OANDA:XAU_USD"}}, nil)
	c.apply([]byte(`{"type":"trade","data":[{"s":"OANDA:XAU_USD","p":2010.5,"v":1,"t":1700000000000}]}`))

	tick, err := c.GetCurrentPrice(context.Background(), "XAUUSD")
	require.NoError(t, err)
	assert.Equal(t, "XAUUSD", tick.Symbol)
	assert.Equal(t, 2010.5, tick.Last)
}

func TestReadsDoNotWaitForDial(t *testing.T) {
	// accepts TCP but never answers the websocket handshake
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	c := New(Config{WebsocketURL: "ws://" + ln.Addr().String(), Symbols: []string{"XAU"}}, nil)
	c.apply([]byte(`{"type":"trade","data":[{"s":"XAU","p":2000,"v":1,"t":1700000000000}]}`))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	dialed := make(chan error, 1)
	go func() { dialed <- c.EnsureConnection(ctx) }()

	var server net.Conn
	select {
	case server = <-accepted:
		defer server.Close()
	case <-time.After(time.Second):
		t.Fatal("dial never reached the listener")
	}

	start := time.Now()
	tick, err := c.GetCurrentPrice(context.Background(), "XAU")
	require.NoError(t, err)
	assert.Equal(t, 2000.0, tick.Last)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.False(t, c.IsConnected())

	cancel()
	assert.Error(t, <-dialed)
}
