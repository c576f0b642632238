package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mkarlin/inkwell/internal/debug"
)

// ConnectionState is the client connection lifecycle state.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateBackoff
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateBackoff:
		return "backoff"
	default:
		return "unknown"
	}
}

// Reconnection and call defaults. Backoff starts at one second, doubles
// per failed attempt and is capped at thirty seconds; retries continue
// until Close. A calls waits at most CallTimeout for its response.
const (
	DefaultBackoffBase = time.Second
	DefaultBackoffMax  = 30 * time.Second
	DefaultCallTimeout = 30 * time.Second

	writeTimeout     = 10 * time.Second
	handshakeTimeout = 10 * time.Second
)

// Config holds relay client configuration.
type Config struct {
	ServerURL   string        // WebSocket URL, e.g. ws://localhost:8080/ws
	BackoffBase time.Duration // first reconnect delay (default 1s)
	BackoffMax  time.Duration // reconnect delay cap (default 30s)
	CallTimeout time.Duration // per-call response deadline (default 30s)
}

// pendingCall tracks one in-flight request until its response arrives,
// its deadline passes, or the connection carrying it dies.
type pendingCall struct {
	id        string
	req       *Request
	sent      bool // written to a live socket
	createdAt time.Time
	done      chan callResult // buffered, one shot
}

type callResult struct {
	result json.RawMessage
	err    error
}

// Client is a reconnecting relay client. It owns exactly one socket,
// correlates responses to requests by id and hides reconnection from
// callers. Calls made while disconnected are queued and flushed in
// order once the socket is up (queue-and-flush policy); calls already
// written to a socket that dies are rejected with a connection error.
type Client struct {
	cfg Config

	mu      sync.Mutex
	conn    *websocket.Conn
	state   ConnectionState
	pending map[string]*pendingCall
	queue   []*pendingCall
	started bool
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClient creates a relay client. Connect must be called before use.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("server_url is required")
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = DefaultBackoffBase
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = DefaultBackoffMax
	}
	if cfg.BackoffMax < cfg.BackoffBase {
		cfg.BackoffMax = cfg.BackoffBase
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	return &Client{
		cfg:     cfg,
		state:   StateDisconnected,
		pending: make(map[string]*pendingCall),
	}, nil
}

// State returns the current connection state.
func (c *Client) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// PendingCount returns the number of requests awaiting a response.
func (c *Client) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Connect establishes the socket and starts the read loop. It is a
// no-op if the client is already connected or connecting. The initial
// dial failure is not fatal: the read loop keeps retrying with backoff
// until Close, so callers may queue requests immediately.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Errorf(KindConnection, "client is closed")
	}
	if c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.state = StateConnecting
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	if err := c.dial(); err != nil {
		log.Printf("[Relay] Initial connection failed, retrying in background: %v", err)
		c.setState(StateBackoff)
	}

	c.wg.Add(1)
	go c.readLoop()
	return nil
}

// Close is terminal: it stops reconnection, closes the socket and
// rejects every pending and queued call with a connection error.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	cancel := c.cancel
	conn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}
	c.wg.Wait()
	c.failAll(Errorf(KindConnection, "client closed"))
	return nil
}

// Call sends a request and waits for the correlated response. params is
// marshalled to JSON. The wait ends on response, context cancellation
// or the configured call timeout.
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	var raw json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal params: %w", err)
		}
		raw = b
	}

	id := NewID()
	pc := &pendingCall{
		id:        string(id),
		req:       &Request{ID: id, Method: method, Params: raw},
		createdAt: time.Now(),
		done:      make(chan callResult, 1),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, Errorf(KindConnection, "client is closed")
	}
	c.pending[pc.id] = pc
	conn := c.conn
	if conn == nil {
		c.queue = append(c.queue, pc)
	}
	c.mu.Unlock()

	if conn != nil {
		if err := c.write(conn, pc); err != nil {
			// The read loop notices the dead socket and requeues nothing
			// for this call: a written request is rejected, not retried.
			c.remove(pc.id)
			return nil, Errorf(KindConnection, "send failed: %v", err)
		}
	}

	timer := time.NewTimer(c.cfg.CallTimeout)
	defer timer.Stop()

	select {
	case res := <-pc.done:
		return res.result, res.err
	case <-ctx.Done():
		c.remove(pc.id)
		return nil, ctx.Err()
	case <-timer.C:
		c.remove(pc.id)
		return nil, Errorf(KindTimeout, "no response to %s within %v", method, c.cfg.CallTimeout)
	}
}

// Search issues a search/web request and decodes the result set.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	raw, err := c.Call(ctx, MethodSearch, SearchParams{Query: query})
	if err != nil {
		return nil, err
	}
	var set SearchResultSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, Errorf(KindProtocol, "malformed search result: %v", err)
	}
	return set.Results, nil
}

// FetchURL issues a fetch/url request and decodes the result.
func (c *Client) FetchURL(ctx context.Context, url string) (FetchResult, error) {
	raw, err := c.Call(ctx, MethodFetchURL, FetchParams{URL: url})
	if err != nil {
		return FetchResult{}, err
	}
	var res FetchResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return FetchResult{}, Errorf(KindProtocol, "malformed fetch result: %v", err)
	}
	return res, nil
}

// dial establishes the socket and flushes the send queue.
func (c *Client) dial() error {
	c.setState(StateConnecting)
	debug.Log("Connecting to %s", c.cfg.ServerURL)

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, resp, err := dialer.DialContext(c.ctx, c.cfg.ServerURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	debug.Log("WebSocket connected, status: %s", resp.Status)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return Errorf(KindConnection, "client is closed")
	}
	c.conn = conn
	c.state = StateConnected
	queued := c.queue
	c.queue = nil
	c.mu.Unlock()

	// Flush calls queued while disconnected, preserving order.
	for _, pc := range queued {
		if err := c.write(conn, pc); err != nil {
			log.Printf("[Relay] Failed to flush queued request %s: %v", pc.req.Method, err)
			c.remove(pc.id)
			pc.done <- callResult{err: Errorf(KindConnection, "send failed: %v", err)}
		}
	}
	return nil
}

func (c *Client) write(conn *websocket.Conn, pc *pendingCall) error {
	c.mu.Lock()
	pc.sent = true
	c.mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(pc.req)
}

// readLoop handles incoming frames and drives reconnection.
func (c *Client) readLoop() {
	defer c.wg.Done()

	retryDelay := c.cfg.BackoffBase

	for {
		select {
		case <-c.ctx.Done():
			debug.Log("Context done, exiting readLoop")
			return
		default:
		}

		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()

		if conn == nil {
			c.reconnect(&retryDelay)
			continue
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.ctx.Done():
				return
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[Relay] Connection closed by server")
			} else {
				log.Printf("[Relay] Read error: %v", err)
			}

			c.mu.Lock()
			if c.conn != nil {
				c.conn.Close()
				c.conn = nil
			}
			c.state = StateBackoff
			c.mu.Unlock()

			// Requests already on the wire cannot be answered anymore.
			c.failSent(Errorf(KindConnection, "connection lost"))
			c.reconnect(&retryDelay)
			continue
		}

		// Reset retry delay on successful read.
		retryDelay = c.cfg.BackoffBase
		c.dispatch(message)
	}
}

// dispatch parses one frame and resolves the matching pending call.
// Unmatched and malformed frames are logged and discarded; the pending
// table is never touched by them.
func (c *Client) dispatch(message []byte) {
	var resp Response
	if err := json.Unmarshal(message, &resp); err != nil {
		log.Printf("[Relay] Discarding malformed frame: %v", err)
		return
	}
	if len(resp.ID) == 0 {
		log.Printf("[Relay] Discarding response without id")
		return
	}

	c.mu.Lock()
	pc, ok := c.pending[string(resp.ID)]
	if ok {
		delete(c.pending, string(resp.ID))
	}
	c.mu.Unlock()

	if !ok {
		log.Printf("[Relay] Discarding response for unknown id %s", resp.ID)
		return
	}

	if resp.Error != nil {
		pc.done <- callResult{err: ErrorFromPayload(resp.Error)}
		return
	}
	pc.done <- callResult{result: resp.Result}
}

// reconnect waits out the current backoff delay and redials. The delay
// doubles per failed attempt up to the cap and resets on success.
func (c *Client) reconnect(retryDelay *time.Duration) {
	c.setState(StateBackoff)
	log.Printf("[Relay] Reconnecting in %v...", *retryDelay)

	select {
	case <-c.ctx.Done():
		return
	case <-time.After(*retryDelay):
	}

	if err := c.dial(); err != nil {
		log.Printf("[Relay] Reconnection failed: %v", err)
		*retryDelay = nextBackoff(*retryDelay, c.cfg.BackoffMax)
		c.setState(StateBackoff)
		return
	}

	log.Printf("[Relay] Reconnected successfully")
	*retryDelay = c.cfg.BackoffBase
}

// nextBackoff doubles the retry delay up to max.
func nextBackoff(cur, max time.Duration) time.Duration {
	next := cur * 2
	if next > max {
		next = max
	}
	return next
}

func (c *Client) setState(s ConnectionState) {
	c.mu.Lock()
	if !c.closed {
		c.state = s
	}
	c.mu.Unlock()
}

func (c *Client) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
	for i, pc := range c.queue {
		if pc.id == id {
			c.queue = append(c.queue[:i], c.queue[i+1:]...)
			break
		}
	}
}

// failSent rejects calls that were written to the socket that just
// died. Queued-but-unsent calls stay queued for the next connection.
func (c *Client) failSent(err error) {
	c.mu.Lock()
	var victims []*pendingCall
	for id, pc := range c.pending {
		if pc.sent {
			victims = append(victims, pc)
			delete(c.pending, id)
		}
	}
	c.mu.Unlock()

	for _, pc := range victims {
		pc.done <- callResult{err: err}
	}
}

// failAll rejects every pending and queued call.
func (c *Client) failAll(err error) {
	c.mu.Lock()
	var victims []*pendingCall
	for id, pc := range c.pending {
		victims = append(victims, pc)
		delete(c.pending, id)
	}
	c.queue = nil
	c.mu.Unlock()

	for _, pc := range victims {
		pc.done <- callResult{err: err}
	}
}
