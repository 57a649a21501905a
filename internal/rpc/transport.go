package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/subscale/rest-gateway/internal/apierr"
	"github.com/subscale/rest-gateway/internal/constants"
)

// request is a JSON-RPC 2.0 request envelope, grounded on the
// RPCRequest/RPCResponse shape used by the websocket-based substrate
// client in this pack's other_examples/ reference.
type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// transport owns one WebSocket connection to a node and multiplexes
// concurrent calls over it, matching responses to callers by request
// id. Reconnection is bounded-exponential-backoff driven; in-flight
// calls at the moment of a disconnect fail with Upstream and are never
// retried here — the handler layer owns retry policy.
type transport struct {
	endpoint string
	logger   *zap.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	pending map[uint64]chan response
	nextID  uint64
	closed  atomic.Bool

	reconnectDelay time.Duration
}

func newTransport(endpoint string, logger *zap.Logger) *transport {
	return &transport{
		endpoint:       endpoint,
		logger:         logger,
		pending:        make(map[uint64]chan response),
		reconnectDelay: constants.InitialReconnectDelay,
	}
}

func (t *transport) dial(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, t.endpoint, nil)
	if err != nil {
		return apierr.Wrap(apierr.Upstream, "dial chain endpoint", err)
	}
	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()
	go t.readLoop(conn)
	return nil
}

func (t *transport) readLoop(conn *websocket.Conn) {
	for {
		var resp response
		if err := conn.ReadJSON(&resp); err != nil {
			t.handleDisconnect(conn, err)
			return
		}
		t.mu.Lock()
		ch, ok := t.pending[resp.ID]
		if ok {
			delete(t.pending, resp.ID)
		}
		t.mu.Unlock()
		if ok {
			ch <- resp
			close(ch)
		}
	}
}

func (t *transport) handleDisconnect(conn *websocket.Conn, err error) {
	t.mu.Lock()
	if t.conn == conn {
		t.conn = nil
	}
	pending := t.pending
	t.pending = make(map[uint64]chan response)
	t.mu.Unlock()

	for id, ch := range pending {
		ch <- response{ID: id, Error: &rpcError{Message: fmt.Sprintf("transport disconnected: %v", err)}}
		close(ch)
	}

	if t.closed.Load() {
		return
	}
	t.logger.Warn("chain rpc transport disconnected, reconnecting", zap.Error(err))
	go t.reconnectLoop()
}

func (t *transport) reconnectLoop() {
	delay := t.reconnectDelay
	for !t.closed.Load() {
		time.Sleep(delay)
		ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultRPCTimeout)
		err := t.dial(ctx)
		cancel()
		if err == nil {
			t.logger.Info("chain rpc transport reconnected")
			return
		}
		delay *= 2
		if delay > constants.MaxReconnectDelay {
			delay = constants.MaxReconnectDelay
		}
		t.logger.Warn("chain rpc reconnect attempt failed", zap.Error(err), zap.Duration("nextDelay", delay))
	}
}

func (t *transport) call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	t.mu.Lock()
	conn := t.conn
	if conn == nil {
		t.mu.Unlock()
		return nil, apierr.New(apierr.Upstream, "chain rpc transport not connected")
	}
	id := t.nextID
	t.nextID++
	ch := make(chan response, 1)
	t.pending[id] = ch
	t.mu.Unlock()

	req := request{JSONRPC: "2.0", ID: id, Method: method, Params: params}
	if err := conn.WriteJSON(req); err != nil {
		t.mu.Lock()
		delete(t.pending, id)
		t.mu.Unlock()
		return nil, apierr.Wrap(apierr.Upstream, "write chain rpc request", err)
	}

	select {
	case resp := <-ch:
		if resp.Error != nil {
			return nil, apierr.New(apierr.Upstream, fmt.Sprintf("remote error %d: %s", resp.Error.Code, resp.Error.Message)).WithValue(method)
		}
		return resp.Result, nil
	case <-ctx.Done():
		return nil, apierr.Wrap(apierr.Upstream, "chain rpc call timed out", ctx.Err()).WithValue(method)
	}
}

func (t *transport) close() error {
	t.closed.Store(true)
	t.mu.Lock()
	conn := t.conn
	t.conn = nil
	t.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}
