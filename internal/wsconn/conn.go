// Package wsconn is the websocket transport the game client talks through.
package wsconn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

var (
	ErrNotConnected  = errors.New("websocket not connected")
	ErrAlreadyDialed = errors.New("websocket already dialed")
)

// HeaderProvider supplies extra handshake headers.
type HeaderProvider func() map[string]string

// Handler receives connection events. Exactly one of OnClose or OnError is
// called per connection, after which nothing else is delivered.
type Handler struct {
	OnOpen    func()
	OnMessage func(data []byte)
	OnClose   func(clean bool, code int, reason string)
	OnError   func(err error)
}

type State int

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "idle"
	}
}

type Conn struct {
	url     string
	handler Handler

	conn   *websocket.Conn
	state  State
	stateM sync.RWMutex

	dialTimeout  time.Duration
	pingInterval time.Duration
	pingTimeout  time.Duration

	stopCh    chan struct{}
	stopOnce  sync.Once
	closeOnce sync.Once
	finishOne sync.Once
	wg        sync.WaitGroup

	rootCtx    context.Context
	rootCancel context.CancelFunc

	headerProvider HeaderProvider
	logger         *zap.Logger
}

type Option func(*Conn)

func WithLogger(l *zap.Logger) Option {
	return func(c *Conn) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithHeaderProvider(h HeaderProvider) Option {
	return func(c *Conn) { c.headerProvider = h }
}

// WithPingInterval sets the keepalive period. Zero disables pings.
func WithPingInterval(d time.Duration) Option {
	return func(c *Conn) { c.pingInterval = d }
}

// WithPingTimeout bounds the wait for each pong.
func WithPingTimeout(d time.Duration) Option {
	return func(c *Conn) {
		if d > 0 {
			c.pingTimeout = d
		}
	}
}

func WithDialTimeout(d time.Duration) Option {
	return func(c *Conn) {
		if d > 0 {
			c.dialTimeout = d
		}
	}
}

func New(url string, h Handler, opts ...Option) *Conn {
	c := &Conn{
		url:          url,
		handler:      h,
		state:        StateIdle,
		dialTimeout:  10 * time.Second,
		pingInterval: 30 * time.Second,
		pingTimeout:  3 * time.Second,
		stopCh:       make(chan struct{}),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial opens the connection and starts the read and keepalive loops.
// A Conn is dialed at most once; there is no reconnect.
func (c *Conn) Dial(ctx context.Context) error {
	c.stateM.Lock()
	if c.state != StateIdle {
		c.stateM.Unlock()
		return ErrAlreadyDialed
	}
	c.state = StateConnecting
	c.stateM.Unlock()

	dialCtx, cancel := context.WithTimeout(ctx, c.dialTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, c.url, &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
		HTTPHeader:      c.buildHeaders(),
	})
	if err != nil {
		c.setState(StateClosed)
		return fmt.Errorf("dial %s: %w", c.url, err)
	}

	c.conn = conn
	c.rootCtx, c.rootCancel = context.WithCancel(context.Background())
	c.setState(StateConnected)
	c.logger.Info("ws_connected", zap.String("url", c.url))
	if c.handler.OnOpen != nil {
		c.handler.OnOpen()
	}

	c.wg.Add(1)
	go c.listen()
	if c.pingInterval > 0 {
		c.wg.Add(1)
		go c.pingLoop()
	}
	return nil
}

func (c *Conn) State() State {
	c.stateM.RLock()
	defer c.stateM.RUnlock()
	return c.state
}

// Send writes v as one JSON text frame.
func (c *Conn) Send(ctx context.Context, v any) error {
	if c.State() != StateConnected {
		return ErrNotConnected
	}
	if err := wsjson.Write(ctx, c.conn, v); err != nil {
		return fmt.Errorf("ws write: %w", err)
	}
	return nil
}

func (c *Conn) listen() {
	defer c.wg.Done()
	for {
		typ, data, err := c.conn.Read(c.rootCtx)
		if err != nil {
			c.finishRead(err)
			return
		}
		if typ != websocket.MessageText {
			c.logger.Debug("ws_binary_frame_ignored", zap.Int("bytes", len(data)))
			continue
		}
		if c.handler.OnMessage != nil {
			c.handler.OnMessage(data)
		}
	}
}

func (c *Conn) finishRead(err error) {
	var ce websocket.CloseError
	switch {
	case errors.As(err, &ce):
		c.finish(true, int(ce.Code), ce.Reason, nil)
	case c.isStopping():
		c.finish(true, int(websocket.StatusNormalClosure), "closed by client", nil)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		c.finish(false, int(websocket.StatusAbnormalClosure), "", nil)
	default:
		c.finish(false, 0, "", err)
	}
}

// finish reports the end of the connection exactly once.
func (c *Conn) finish(clean bool, code int, reason string, err error) {
	c.finishOne.Do(func() {
		c.setState(StateClosed)
		c.stopOnce.Do(func() { close(c.stopCh) })
		if err != nil {
			c.logger.Warn("ws_error", zap.Error(err))
			if c.handler.OnError != nil {
				c.handler.OnError(err)
			}
			return
		}
		c.logger.Info("ws_closed", zap.Bool("clean", clean), zap.Int("code", code), zap.String("reason", reason))
		if c.handler.OnClose != nil {
			c.handler.OnClose(clean, code, reason)
		}
	})
}

func (c *Conn) pingLoop() {
	defer c.wg.Done()
	t := time.NewTicker(c.pingInterval)
	defer t.Stop()
	consecutivePingFailures := 0
	for {
		select {
		case <-c.stopCh:
			return
		case <-t.C:
			ctx, cancel := context.WithTimeout(c.rootCtx, c.pingTimeout)
			err := c.conn.Ping(ctx)
			cancel()
			if err == nil {
				consecutivePingFailures = 0
				continue
			}
			consecutivePingFailures++
			c.logger.Debug("ws_ping_failed", zap.Int("consecutive", consecutivePingFailures), zap.Error(err))
			if consecutivePingFailures >= 2 {
				if c.isStopping() {
					return
				}
				c.finish(false, int(websocket.StatusAbnormalClosure), "ping timeout", nil)
				c.rootCancel()
				return
			}
		}
	}
}

// Close starts a normal closure handshake and returns immediately. Use Wait
// to join the background goroutines.
func (c *Conn) Close() error {
	c.stopOnce.Do(func() { close(c.stopCh) })
	if c.conn == nil {
		return nil
	}
	c.closeOnce.Do(func() {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			if err := c.conn.Close(websocket.StatusNormalClosure, "game over"); err != nil {
				c.logger.Debug("ws_close", zap.Error(err))
			}
		}()
	})
	return nil
}

// Wait blocks until the read, keepalive and close goroutines exit or ctx ends.
func (c *Conn) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		if c.rootCancel != nil {
			c.rootCancel()
		}
		return nil
	}
}

func (c *Conn) setState(s State) {
	c.stateM.Lock()
	c.state = s
	c.stateM.Unlock()
}

func (c *Conn) isStopping() bool {
	select {
	case <-c.stopCh:
		return true
	default:
		return false
	}
}

func (c *Conn) buildHeaders() http.Header {
	hdr := http.Header{}
	if c.headerProvider == nil {
		return hdr
	}
	for k, v := range c.headerProvider() {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			continue
		}
		hdr.Set(k, v)
	}
	return hdr
}
