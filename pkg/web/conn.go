package web

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeTimeout = 10 * time.Second

type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// connWriter serialises writes to one websocket connection. gorilla/websocket
// allows a single concurrent writer; frames come from the read loop and from
// submit goroutines. After the first failed write the connection is closed and
// further frames are dropped.
type connWriter struct {
	mu     sync.Mutex
	conn   wsConn
	closed bool
	logger zerolog.Logger
}

func newConnWriter(conn wsConn, logger zerolog.Logger) *connWriter {
	return &connWriter{conn: conn, logger: logger}
}

func (cw *connWriter) Send(frame any) {
	data, err := json.Marshal(frame)
	if err != nil {
		cw.logger.Error().Err(err).Msg("ws frame marshal failed")
		return
	}

	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.closed {
		return
	}
	_ = cw.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := cw.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		cw.logger.Warn().Err(err).Msg("ws send failed, dropping connection")
		cw.closed = true
		_ = cw.conn.Close()
	}
}

func (cw *connWriter) Close() {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.closed {
		return
	}
	cw.closed = true
	_ = cw.conn.Close()
}

func (cw *connWriter) IsClosed() bool {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.closed
}
