package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestEchoHandler_Modes(t *testing.T) {
	ask := func(t *testing.T, mode EchoMode) (string, error) {
		srv := httptest.NewServer(NewEchoHandler(mode, 0))
		t.Cleanup(srv.Close)
		c, err := NewClient(srv.URL)
		require.NoError(t, err)
		return c.Ask(context.Background(), "ping")
	}

	reply, err := ask(t, EchoModeStrict)
	require.NoError(t, err)
	require.Equal(t, "You said: ping", reply)

	reply, err = ask(t, EchoModeEcho)
	require.NoError(t, err)
	require.Equal(t, "You said: ping", reply)

	_, err = ask(t, EchoModeError)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	require.NotEmpty(t, httpErr.Detail)

	_, err = ask(t, EchoModeEmpty)
	require.ErrorIs(t, err, ErrMissingReply)
}

func TestEchoHandler_RejectsBadRequests(t *testing.T) {
	h := NewEchoHandler(EchoModeStrict, 0)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"prompt":"  "}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{`)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestParseEchoMode(t *testing.T) {
	m, err := ParseEchoMode("")
	require.NoError(t, err)
	require.Equal(t, EchoModeStrict, m)

	m, err = ParseEchoMode(" ERROR ")
	require.NoError(t, err)
	require.Equal(t, EchoModeError, m)

	_, err = ParseEchoMode("chaos")
	require.Error(t, err)
}
