package web

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type stubConn struct {
	mu     sync.Mutex
	writes [][]byte
	failAt int
	closed int
}

func (s *stubConn) WriteMessage(_ int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAt > 0 && len(s.writes)+1 == s.failAt {
		return errors.New("broken pipe")
	}
	s.writes = append(s.writes, data)
	return nil
}

func (s *stubConn) SetWriteDeadline(time.Time) error { return nil }

func (s *stubConn) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func TestConnWriter_DropsAfterFailedWrite(t *testing.T) {
	conn := &stubConn{failAt: 2}
	cw := newConnWriter(conn, zerolog.Nop())

	cw.Send(resetFrame{Type: frameReset})
	cw.Send(loadingFrame{Type: frameLoading, Loading: true})
	cw.Send(loadingFrame{Type: frameLoading, Loading: false})

	require.True(t, cw.IsClosed())
	require.Len(t, conn.writes, 1)
	require.JSONEq(t, `{"type":"reset"}`, string(conn.writes[0]))
	require.Equal(t, 1, conn.closed)

	cw.Close()
	require.Equal(t, 1, conn.closed)
}

func TestConnWriter_SerialisesConcurrentSends(t *testing.T) {
	conn := &stubConn{}
	cw := newConnWriter(conn, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cw.Send(loadingFrame{Type: frameLoading, Loading: true})
		}()
	}
	wg.Wait()

	require.Len(t, conn.writes, 20)
	require.False(t, cw.IsClosed())
}
