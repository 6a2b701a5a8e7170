package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"GoldCast/internal/domain/models"
	drepo "GoldCast/internal/domain/repository"
	"GoldCast/pkg/logger"
)

// Config for the Finnhub trade stream.
type Config struct {
	APIKey       string
	WebsocketURL string
	Symbols      []string
	// Aliases maps an engine symbol to its stream symbol, e.g. XAUUSD -> OANDA:XAU_USD.
	Aliases        map[string]string
	ReconnectDelay time.Duration
	PingInterval   time.Duration
	// StaleAfter rejects a cached tick older than this; 0 disables the check.
	StaleAfter time.Duration
}

// Client keeps a websocket subscription open and caches the latest trade per symbol.
// It satisfies repository.PriceFeed.
type Client struct {
	cfg Config
	log *logger.Logger
	now func() time.Time

	// dialMu serializes dials; mu guards state and is never held across network I/O.
	dialMu    sync.Mutex
	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	latest    map[string]models.Tick
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

var _ drepo.PriceFeed = (*Client)(nil)

func New(cfg Config, l *logger.Logger) *Client {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 5 * time.Second
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	if l == nil {
		l = logger.Nop()
	}
	return &Client{cfg: cfg, log: l, now: time.Now, latest: make(map[string]models.Tick)}
}

// EnsureConnection dials and subscribes when the stream is down. The read loop
// outlives ctx; it stops on Close.
func (c *Client) EnsureConnection(ctx context.Context) error {
	if err := c.connect(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	start := c.cancel == nil
	var loopCtx context.Context
	if start {
		var cancel context.CancelFunc
		loopCtx, cancel = context.WithCancel(context.Background())
		c.cancel = cancel
		c.wg.Add(2)
	}
	c.mu.Unlock()
	if start {
		go c.readLoop(loopCtx)
		go c.pingLoop(loopCtx)
	}
	return nil
}

// connect installs a fresh subscription unless one is already up.
func (c *Client) connect(ctx context.Context) error {
	c.dialMu.Lock()
	defer c.dialMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.IsConnected() {
		return nil
	}
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
	c.log.Info("finnhub connected", logger.Strings("symbols", c.cfg.Symbols))
	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	u, err := url.Parse(c.cfg.WebsocketURL)
	if err != nil {
		return nil, fmt.Errorf("finnhub url: %w", err)
	}
	if c.cfg.APIKey != "" {
		q := u.Query()
		q.Set("token", c.cfg.APIKey)
		u.RawQuery = q.Encode()
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("finnhub connect: %w", err)
	}
	for _, s := range c.cfg.Symbols {
		if err := conn.WriteJSON(map[string]string{"type": "subscribe", "symbol": s}); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("subscribe %s: %w", s, err)
		}
	}
	return conn, nil
}

// GetCurrentPrice returns the cached tick; ErrFeedUnavailable when nothing arrived yet or it is stale.
func (c *Client) GetCurrentPrice(_ context.Context, symbol string) (models.Tick, error) {
	stream := symbol
	if alias, ok := c.cfg.Aliases[symbol]; ok {
		stream = alias
	}
	c.mu.RLock()
	t, ok := c.latest[stream]
	c.mu.RUnlock()
	if !ok {
		return models.Tick{}, fmt.Errorf("%w: no trade received for %s", models.ErrFeedUnavailable, symbol)
	}
	if c.cfg.StaleAfter > 0 && c.now().Sub(t.Time) > c.cfg.StaleAfter {
		return models.Tick{}, fmt.Errorf("%w: last %s trade at %s is stale", models.ErrFeedUnavailable, symbol, t.Time.Format(time.RFC3339))
	}
	t.Symbol = symbol
	return t, nil
}

type fhTrade struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	V float64 `json:"v"`
	T int64   `json:"t"` // ms
}

type fhMessage struct {
	Type string    `json:"type"`
	Data []fhTrade `json:"data"`
}

// apply folds one frame into the cache. Non-trade frames are ignored.
func (c *Client) apply(b []byte) int {
	var m fhMessage
	if err := json.Unmarshal(b, &m); err != nil || m.Type != "trade" {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range m.Data {
		if d.P <= 0 {
			continue
		}
		t := models.Tick{Symbol: d.S, Last: d.P, Volume: d.V, Time: time.UnixMilli(d.T).UTC()}
		if prev, ok := c.latest[d.S]; ok && prev.Time.After(t.Time) {
			continue
		}
		c.latest[d.S] = t
		n++
	}
	return n
}

func (c *Client) readLoop(ctx context.Context) {
	defer c.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}
		c.mu.RLock()
		conn := c.conn
		c.mu.RUnlock()
		if conn == nil {
			if !c.reconnect(ctx) {
				return
			}
			continue
		}
		_, b, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Warn("finnhub read failed, reconnecting", logger.Error(err))
			c.drop(conn)
			if !c.reconnect(ctx) {
				return
			}
			continue
		}
		c.apply(b)
	}
}

func (c *Client) drop(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.connected = false
	}
	c.mu.Unlock()
	_ = conn.Close()
}

// reconnect retries until connected or ctx is done.
func (c *Client) reconnect(ctx context.Context) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.cfg.ReconnectDelay):
		}
		err := c.connect(ctx)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		c.log.Warn("finnhub reconnect failed", logger.Error(err))
	}
}

func (c *Client) pingLoop(ctx context.Context) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.RLock()
			conn := c.conn
			c.mu.RUnlock()
			if conn != nil {
				_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			}
		}
	}
}

// Close stops the loops and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	// wait out a dial in flight so it cannot install a connection after us
	c.dialMu.Lock()
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.connected = false
	c.mu.Unlock()
	c.dialMu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}
	c.wg.Wait()
	return err
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}
