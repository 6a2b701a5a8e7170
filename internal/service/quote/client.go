package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"GoldCast/internal/domain/models"
	drepo "GoldCast/internal/domain/repository"
	"GoldCast/pkg/http"
	"GoldCast/pkg/logger"
)

// Config for the REST quote poller.
type Config struct {
	BaseURL string
	APIKey  string
	// Symbol overrides the engine symbol in the query when set.
	Symbol string
	// RequestsPerSecond and Burst shape the outbound rate.
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	MaxElapsed        time.Duration
}

// quoteResponse is the /quote payload: c=current, h/l/o=day high/low/open, pc=previous close, t=unix seconds.
type quoteResponse struct {
	C  float64 `json:"c"`
	H  float64 `json:"h"`
	L  float64 `json:"l"`
	O  float64 `json:"o"`
	PC float64 `json:"pc"`
	T  int64   `json:"t"`
	// Bid/Ask are optional; some providers add them.
	Bid float64 `json:"bid"`
	Ask float64 `json:"ask"`
}

// Client polls a quote endpoint on demand. It satisfies repository.PriceFeed.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

var _ drepo.PriceFeed = (*Client)(nil)

func New(cfg Config, l *logger.Logger) *Client {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxElapsed <= 0 {
		cfg.MaxElapsed = 8 * time.Second
	}
	if l == nil {
		l = logger.Nop()
	}
	return &Client{
		cfg:     cfg,
		http:    http.NewClient(http.WithTimeout(cfg.Timeout)),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		log:     l,
	}
}

func (c *Client) GetCurrentPrice(ctx context.Context, symbol string) (models.Tick, error) {
	query := symbol
	if c.cfg.Symbol != "" {
		query = c.cfg.Symbol
	}
	var q quoteResponse
	op := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		q = quoteResponse{}
		err := c.http.SendAndParse(ctx, &http.RequestOptions{
			Method: http.MethodGet,
			URL:    c.cfg.BaseURL,
			QueryParams: map[string][]string{
				"symbol": {query},
				"token":  {c.cfg.APIKey},
			},
		}, &q)
		var se *http.StatusError
		if errors.As(err, &se) && !se.Retryable() {
			return backoff.Permanent(err)
		}
		return err
	}
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.cfg.MaxElapsed
	notify := func(err error, d time.Duration) {
		c.log.Debug("quote retry", logger.String("symbol", symbol), logger.Duration("in", d), logger.Error(err))
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return models.Tick{}, fmt.Errorf("%w: quote %s: %v", models.ErrFeedUnavailable, symbol, err)
	}
	if q.C <= 0 {
		return models.Tick{}, fmt.Errorf("%w: quote %s: empty price", models.ErrFeedUnavailable, symbol)
	}

	ts := time.Now().UTC()
	if q.T > 0 {
		ts = time.Unix(q.T, 0).UTC()
	}
	return models.Tick{Symbol: symbol, Bid: q.Bid, Ask: q.Ask, Last: q.C, Time: ts}, nil
}

// EnsureConnection only checks configuration; the first poll proves reachability.
func (c *Client) EnsureConnection(context.Context) error {
	if c.cfg.BaseURL == "" {
		return errors.New("quote: base url is not configured")
	}
	return nil
}

func (c *Client) Close() error { return nil }
