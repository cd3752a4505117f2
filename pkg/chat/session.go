package chat

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/mrcool/pkg/conversation"
	"github.com/go-go-golems/mrcool/pkg/notice"
)

// Asker sends one prompt to the assistant backend and returns its reply.
type Asker interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// AskerFunc adapts a function into an Asker.
type AskerFunc func(ctx context.Context, prompt string) (string, error)

func (f AskerFunc) Ask(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// State is the request lifecycle state of a session.
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingResponse:
		return "awaiting-response"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is one UI session: it owns the conversation log and coordinates the
// lifecycle of outbound prompts. At most one request is in flight at a time.
type Session struct {
	ID        string
	StartedAt time.Time

	log       *conversation.Log
	asker     Asker
	presenter Presenter
	now       func() time.Time
	logger    zerolog.Logger

	mu    sync.Mutex
	state State
}

type Option func(*Session)

// WithClock overrides the clock used to timestamp messages.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession creates a session with an empty log. presenter may be nil.
func NewSession(asker Asker, presenter Presenter, opts ...Option) *Session {
	if presenter == nil {
		presenter = PresenterFuncs{}
	}
	s := &Session{
		ID:        uuid.NewString(),
		log:       conversation.NewLog(),
		asker:     asker,
		presenter: presenter,
		now:       time.Now,
		logger:    log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.StartedAt = s.now()
	s.logger = s.logger.With().Str("component", "chat").Str("session_id", s.ID).Logger()
	return s
}

// Submit sends rawPrompt to the backend and records the exchange.
//
// An empty prompt yields a *ValidationError and leaves the log alone. A failed
// request yields a *ServerError; the user message stays in the log and no
// assistant message is added. Either way the presenter already received a
// notice, so callers only need the returned error for diagnostics. ErrBusy is
// returned without any side effect when a request is in flight.
func (s *Session) Submit(ctx context.Context, rawPrompt string) error {
	if s.IsBusy() {
		return ErrBusy
	}

	prompt := strings.TrimSpace(rawPrompt)
	if prompt == "" {
		s.presenter.OnNotice(notice.Notice{Kind: notice.KindValidation, Text: emptyPromptText, ShownAt: s.now()})
		return &ValidationError{Reason: "prompt is empty"}
	}

	if !s.tryAcquire() {
		return ErrBusy
	}
	defer s.release()
	s.presenter.OnLoadingChanged(true)

	userMsg, err := conversation.NewMessage(conversation.RoleUser, prompt, s.now())
	if err != nil {
		return errors.Wrap(err, "create user message")
	}
	s.log.Append(userMsg)
	s.presenter.OnMessagesChanged(s.log.Snapshot())

	start := time.Now()
	reply, err := s.ask(ctx, prompt)
	if err == nil {
		var assistantMsg conversation.Message
		assistantMsg, err = conversation.NewMessage(conversation.RoleAssistant, reply, s.now())
		if err == nil {
			s.log.Append(assistantMsg)
			s.presenter.OnMessagesChanged(s.log.Snapshot())
			s.logger.Debug().
				Dur("elapsed", time.Since(start)).
				Int("reply_len", len(reply)).
				Msg("received reply")
			return nil
		}
	}

	s.logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("prompt failed")
	s.presenter.OnNotice(notice.Notice{Kind: notice.KindServer, Text: serverErrorText, ShownAt: s.now()})
	return &ServerError{Cause: err}
}

// ask calls the backend, turning a panic into an error so that a broken
// transport cannot take the whole UI down.
func (s *Session) ask(ctx context.Context, prompt string) (reply string, err error) {
	if s.asker == nil {
		return "", errors.New("no backend configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("backend panicked: %v", r)
		}
	}()
	return s.asker.Ask(ctx, prompt)
}

// ResetConversation clears the log and asks the presenter to restore its
// initial view. It is refused while a request is in flight and does nothing
// when the log is already empty.
func (s *Session) ResetConversation() error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.log.IsEmpty() {
		s.mu.Unlock()
		return nil
	}
	s.log.Clear()
	s.mu.Unlock()

	s.logger.Debug().Msg("conversation reset")
	s.presenter.OnMessagesChanged(s.log.Snapshot())
	s.presenter.OnConversationReset()
	return nil
}

func (s *Session) tryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return false
	}
	s.state = StateAwaitingResponse
	return true
}

// release runs on every exit path of Submit.
func (s *Session) release() {
	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()
	s.presenter.OnLoadingChanged(false)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) IsBusy() bool {
	return s.State() != StateIdle
}

func (s *Session) Snapshot() iter.Seq[conversation.Message] {
	return s.log.Snapshot()
}

func (s *Session) Messages() []conversation.Message {
	return s.log.Messages()
}

func (s *Session) Len() int {
	return s.log.Len()
}

// LastReply returns the most recent assistant message.
func (s *Session) LastReply() (conversation.Message, bool) {
	return s.log.LastByRole(conversation.RoleAssistant)
}
