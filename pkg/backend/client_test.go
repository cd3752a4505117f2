package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *[]Request) {
	t.Helper()
	var seen []Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var req Request
		assert.NoError(t, json.Unmarshal(raw, &req))
		seen = append(seen, req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestClientAsk_Success(t *testing.T) {
	srv, seen := newTestServer(t, http.StatusOK, `{"status":"success","response":"hello"}`)
	c, err := NewClient(srv.URL, WithUserAgent("mrcool-test"))
	require.NoError(t, err)

	reply, err := c.Ask(context.Background(), "hi")
	require.NoError(t, err)
	require.Equal(t, "hello", reply)
	require.Equal(t, []Request{{Prompt: "hi"}}, *seen)
}

func TestClientAsk_StatusIsAdvisory(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"status":"partial","response":"still here"}`)
	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	reply, err := c.Ask(context.Background(), "hi")
	require.NoError(t, err)
	require.Equal(t, "still here", reply)
}

func TestClientAsk_ReplyVerbatim(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"response":"<script>alert(1)</script>"}`)
	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	reply, err := c.Ask(context.Background(), "hi")
	require.NoError(t, err)
	require.Equal(t, "<script>alert(1)</script>", reply)
}

func TestClientAsk_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "server error with detail",
			status: http.StatusInternalServerError,
			body:   `{"detail":"model overloaded"}`,
			check: func(t *testing.T, err error) {
				var httpErr *HTTPError
				require.True(t, errors.As(err, &httpErr))
				require.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
				require.Equal(t, "model overloaded", httpErr.Detail)
				require.Contains(t, err.Error(), "model overloaded")
			},
		},
		{
			name:   "server error without json",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
			check: func(t *testing.T, err error) {
				var httpErr *HTTPError
				require.True(t, errors.As(err, &httpErr))
				require.Empty(t, httpErr.Detail)
			},
		},
		{
			name:   "missing reply field",
			status: http.StatusOK,
			body:   `{}`,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrMissingReply)
			},
		},
		{
			name:   "null reply field",
			status: http.StatusOK,
			body:   `{"status":"success","response":null}`,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrMissingReply)
			},
		},
		{
			name:   "empty reply field",
			status: http.StatusOK,
			body:   `{"status":"success","response":""}`,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrMissingReply)
			},
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `not json`,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrMalformedBody)
			},
		},
		{
			name:   "reply of wrong type",
			status: http.StatusOK,
			body:   `{"response":42}`,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrMalformedBody)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tc.status, tc.body)
			c, err := NewClient(srv.URL)
			require.NoError(t, err)

			_, err = c.Ask(context.Background(), "hi")
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestClientAsk_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(url)
	require.NoError(t, err)
	_, err = c.Ask(context.Background(), "hi")
	require.Error(t, err)
}

func TestClientAsk_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(NewEchoHandler(EchoModeStrict, time.Second))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Ask(ctx, "hi")
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClient_RejectsBadEndpoints(t *testing.T) {
	for _, endpoint := range []string{"", "ftp://example.com/chat", "http://", "::::"} {
		_, err := NewClient(endpoint)
		require.Error(t, err, endpoint)
	}
}
