package pumpfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"SolCharts/internal/domain/models"
	drepo "SolCharts/internal/domain/repository"
	applogger "SolCharts/pkg/logger"

	"github.com/gorilla/websocket"
)

// Client implements a TickStream backed by a PumpPortal-style WebSocket
// feed of Solana token trades.
type Client struct {
	websocketURL   string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	logger         *applogger.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	mints     map[string]struct{} // re-subscribed after reconnect
}

// New creates a new push-feed TickStream.
func New(websocketURL string, reconnectDelay, pingInterval time.Duration, l *applogger.Logger) drepo.TickStream {
	return &Client{
		websocketURL:   websocketURL,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		logger:         l,
		mints:          make(map[string]struct{}),
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.websocketURL, nil)
	if err != nil {
		return fmt.Errorf("pumpfeed connect: %w", err)
	}
	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
	c.logger.Info("pumpfeed: connected")
	return nil
}

// Subscribe subscribes to trade events for one mint.
func (c *Client) Subscribe(ctx context.Context, mint string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil || !c.connected {
		return fmt.Errorf("pumpfeed not connected")
	}
	msg := map[string]interface{}{"method": "subscribeTokenTrade", "keys": []string{mint}}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("subscribe %s: %w", mint, err)
	}
	c.mints[mint] = struct{}{}
	c.logger.Info("pumpfeed: subscribed", applogger.String("mint", mint))
	return nil
}

// Unsubscribe stops trade events for one mint.
func (c *Client) Unsubscribe(ctx context.Context, mint string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.mints, mint)
	if c.conn == nil || !c.connected {
		return nil
	}
	msg := map[string]interface{}{"method": "unsubscribeTokenTrade", "keys": []string{mint}}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("unsubscribe %s: %w", mint, err)
	}
	return nil
}

// pfTrade is the upstream trade payload. Optional-field heavy: some events
// carry a direct price, others only the swap amounts.
type pfTrade struct {
	Mint        string  `json:"mint"`
	TxType      string  `json:"txType"`
	Price       float64 `json:"price,omitempty"`
	SolAmount   float64 `json:"solAmount,omitempty"`
	TokenAmount float64 `json:"tokenAmount,omitempty"`
	Timestamp   int64   `json:"timestamp"` // ms
}

// Read streams normalized Tick events and errors until ctx is done or the
// connection fails. Payloads that do not normalize into a Tick are skipped.
func (c *Client) Read(ctx context.Context) (<-chan *models.Tick, <-chan error) {
	ticks := make(chan *models.Tick, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.mu.Lock()
				conn := c.conn
				c.mu.Unlock()
				if conn != nil {
					_ = conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(ticks)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				c.mu.Lock()
				conn := c.conn
				c.mu.Unlock()
				if conn == nil {
					errs <- fmt.Errorf("pumpfeed conn nil")
					return
				}
				_, b, err := conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("pumpfeed read: %w", err)
					return
				}
				var tr pfTrade
				if err := json.Unmarshal(b, &tr); err != nil {
					// ignore non-trade frames
					continue
				}
				t, ok := normalize(&tr)
				if !ok {
					continue
				}
				select {
				case ticks <- t:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return ticks, errs
}

// normalize maps the upstream shape into a canonical Tick. Events with no
// usable price or timestamp are rejected rather than propagated partially.
func normalize(tr *pfTrade) (*models.Tick, bool) {
	if tr.Mint == "" || tr.Timestamp <= 0 {
		return nil, false
	}
	price := tr.Price
	if price <= 0 && tr.TokenAmount > 0 {
		price = tr.SolAmount / tr.TokenAmount
	}
	if price <= 0 {
		return nil, false
	}
	side := models.TradeBuy
	if tr.TxType == "sell" {
		side = models.TradeSell
	}
	return &models.Tick{
		Mint:      tr.Mint,
		Price:     price,
		Timestamp: tr.Timestamp,
		TradeType: side,
	}, true
}

// Reconnect closes, reconnects, and restores subscriptions.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	mints := make([]string, 0, len(c.mints))
	for m := range c.mints {
		mints = append(mints, m)
	}
	c.mu.Unlock()
	for _, m := range mints {
		if err := c.Subscribe(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
