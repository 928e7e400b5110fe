// Package session keeps one authenticated websocket session alive. It owns
// the request id sequence, the pending-request table that correlates
// method-keyed responses, the keep-alive ping and the reconnect loop.
package session

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yanun0323/logs"

	"main/internal/codec"
	"main/internal/errors"
	"main/internal/wire"
)

// ErrNotConnected is returned by Send while no connection is established.
var ErrNotConnected = errors.New("session is not connected")

const (
	defaultBackoff          = 2 * time.Second
	defaultPingInterval     = 14 * time.Second
	defaultPendingExpiry    = 2 * time.Minute
	defaultHandshakeTimeout = 10 * time.Second

	pingWriteTimeout = 5 * time.Second
)

type Option struct {
	URL       string
	Host      string
	KeyID     string
	KeySecret string

	Backoff       time.Duration
	PingInterval  time.Duration
	PendingExpiry time.Duration

	Dialer   Dialer
	NewCodec func() codec.Codec
}

type pendingRequest struct {
	method string
	sentAt time.Time
}

type Session struct {
	opt Option

	onConnect func()
	onMessage func(*wire.Response)

	sendMu sync.Mutex // guards conn and all writes to it
	conn   Conn
	reqID  int64

	pendingMu sync.Mutex
	pending   map[int64]pendingRequest

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func New(opt Option) *Session {
	if opt.Backoff <= 0 {
		opt.Backoff = defaultBackoff
	}
	if opt.PingInterval <= 0 {
		opt.PingInterval = defaultPingInterval
	}
	if opt.PendingExpiry <= 0 {
		opt.PendingExpiry = defaultPendingExpiry
	}
	if opt.Dialer == nil {
		opt.Dialer = NewDialer(defaultHandshakeTimeout)
	}
	if opt.NewCodec == nil {
		opt.NewCodec = codec.JSON
	}

	return &Session{
		opt:     opt,
		pending: map[int64]pendingRequest{},
		done:    make(chan struct{}),
	}
}

// SetConnectHandler registers the callback invoked after each successful
// authentication, including re-authentication after a reconnect.
func (s *Session) SetConnectHandler(fn func()) {
	s.onConnect = fn
}

// SetMessageHandler registers the callback invoked for every inbound
// message, in arrival order, on the session's read goroutine.
func (s *Session) SetMessageHandler(fn func(*wire.Response)) {
	s.onMessage = fn
}

func (s *Session) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop shuts the session down. The current connection is closed to unblock
// the read loop; no reconnect follows.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)

		s.sendMu.Lock()
		if s.conn != nil {
			s.conn.Close()
		}
		s.sendMu.Unlock()
	})
}

// Wait blocks until the session and its goroutines have exited.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Send assigns the next request id, records method-keyed requests in the
// pending table and writes the frame. The id sequence survives reconnects
// and wraps to zero past the int64 maximum.
func (s *Session) Send(req wire.Request) (int64, error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if s.conn == nil {
		return -1, ErrNotConnected
	}

	s.reqID++
	id := s.reqID
	if id == math.MaxInt64 {
		s.reqID = -1
	}

	payload, err := wire.EncodeRequest(s.opt.NewCodec(), id, req)
	if err != nil {
		return -1, errors.Wrap(err, "encode request")
	}

	if method := req.MethodName(); len(method) != 0 {
		s.pendingMu.Lock()
		s.pending[id] = pendingRequest{method: method, sentAt: time.Now()}
		s.pendingMu.Unlock()
	}

	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		s.pendingMu.Lock()
		delete(s.pending, id)
		s.pendingMu.Unlock()
		return -1, errors.Wrap(err, "write request")
	}

	return id, nil
}

func (s *Session) run(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		default:
		}

		conn, err := s.opt.Dialer.Dial(ctx, s.opt.URL, s.opt.Host)
		if err != nil {
			logs.Errorf("dial %s failed, err: %+v", s.opt.URL, err)
			if !s.backoff(ctx) {
				return
			}
			continue
		}

		logs.Infof("connected to %s", s.opt.URL)

		s.sendMu.Lock()
		s.conn = conn
		s.sendMu.Unlock()

		if _, err := s.Send(&wire.AuthRequest{KeyID: s.opt.KeyID, KeySecret: s.opt.KeySecret}); err != nil {
			logs.Errorf("send auth request failed, err: %+v", err)
		}

		stopPing := make(chan struct{})
		s.wg.Add(1)
		go s.keepAlive(conn, stopPing)

		fatal := s.readLoop(conn)

		close(stopPing)
		conn.Close()

		s.sendMu.Lock()
		s.conn = nil
		s.sendMu.Unlock()

		if fatal {
			s.Stop()
			return
		}

		if !s.backoff(ctx) {
			return
		}
	}
}

// readLoop delivers every inbound message to the handlers in order. It
// returns true only for the unrecoverable case: the exchange rejected
// authentication.
func (s *Session) readLoop(conn Conn) (fatal bool) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-s.done:
			default:
				logs.Errorf("read message failed, err: %+v", err)
			}
			return false
		}

		res := wire.DecodeResponse(s.opt.NewCodec(), payload, s.resolveKind)

		if res.Kind == wire.KindAuth && res.OK {
			if res.Auth != nil {
				logs.Infof("authenticated as user %d", res.Auth.UserID)
			}
			if s.onConnect != nil {
				s.onConnect()
			}
		}

		if s.onMessage != nil {
			s.onMessage(res)
		}

		if res.Kind == wire.KindAuth && !res.OK {
			logs.Errorf("authentication rejected, code: %s", res.ErrorCode)
			return true
		}
	}
}

func (s *Session) keepAlive(conn Conn, stop <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.opt.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-s.done:
			return
		case now := <-ticker.C:
			s.sendMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, now.Add(pingWriteTimeout))
			s.sendMu.Unlock()
			if err != nil {
				logs.Warnf("write ping failed, err: %+v", err)
			}

			s.sweepPending(now)
		}
	}
}

// resolveKind consumes the pending entry for a method-keyed response. An id
// the table does not know, usually because the sweep already evicted it,
// resolves to the undefined kind.
func (s *Session) resolveKind(id int64) wire.Kind {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	p, ok := s.pending[id]
	if !ok {
		return wire.KindUndefined
	}
	delete(s.pending, id)

	switch p.method {
	case wire.MethodAuth:
		return wire.KindAuth
	case wire.MethodPlaceOrder:
		return wire.KindPlaceOrder
	default:
		return wire.KindUndefined
	}
}

func (s *Session) sweepPending(now time.Time) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()

	for id, p := range s.pending {
		if now.Sub(p.sentAt) >= s.opt.PendingExpiry {
			logs.Warnf("request %d (%s) got no response within %s, evicting", id, p.method, s.opt.PendingExpiry)
			delete(s.pending, id)
		}
	}
}

func (s *Session) backoff(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-s.done:
		return false
	case <-time.After(s.opt.Backoff):
		return true
	}
}
