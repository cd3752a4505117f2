package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrMalformedBody = errors.New("malformed response body")
	ErrMissingReply  = errors.New("response has no reply")
)

// HTTPError is returned for non-success statuses.
type HTTPError struct {
	StatusCode int
	Detail     string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{StatusCode: status}
	var decoded Response
	if err := json.Unmarshal(body, &decoded); err == nil {
		e.Detail = strings.TrimSpace(decoded.Detail)
	}
	return e
}
