package session

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is the part of *websocket.Conn the session drives. Tests substitute a
// scripted connection here.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Dialer opens one websocket connection.
type Dialer interface {
	Dial(ctx context.Context, url, host string) (Conn, error)
}

type wsDialer struct {
	handshakeTimeout time.Duration
}

func NewDialer(handshakeTimeout time.Duration) Dialer {
	return &wsDialer{handshakeTimeout: handshakeTimeout}
}

func (d *wsDialer) Dial(ctx context.Context, url, host string) (Conn, error) {
	dialer := &websocket.Dialer{
		HandshakeTimeout: d.handshakeTimeout,
	}

	var header http.Header
	if host != "" {
		dialer.TLSClientConfig = &tls.Config{ServerName: host}
		header = http.Header{"Host": []string{host}}
	}

	conn, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
