package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/mrcool/pkg/chat"
	"github.com/go-go-golems/mrcool/pkg/notice"
)

type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordingSender) drain() []tea.Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.msgs
	r.msgs = nil
	return out
}

type testHarness struct {
	model   Model
	sender  *recordingSender
	session *chat.Session
	copied  []string
}

func newHarness(t *testing.T, asker chat.Asker) *testHarness {
	t.Helper()
	h := &testHarness{sender: &recordingSender{}}
	pp := NewProgramPresenter(0)
	pp.Attach(h.sender)
	t.Cleanup(pp.Close)

	h.session = chat.NewSession(asker, pp)
	h.model = NewModel(context.Background(), h.session, Options{
		AssistantName:    "Bot",
		MaxPromptLength:  20,
		SuggestedPrompts: []string{"one", "two"},
		Clipboard: func(text string) error {
			h.copied = append(h.copied, text)
			return nil
		},
	})
	return h
}

func (h *testHarness) update(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

// flush feeds everything the presenter forwarded back into the model.
func (h *testHarness) flush() {
	for _, msg := range h.sender.drain() {
		h.update(msg)
	}
}

func (h *testHarness) submit(t *testing.T, text string) error {
	t.Helper()
	h.model.input.SetValue(text)
	cmd := h.update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	done, ok := cmd().(submitDoneMsg)
	require.True(t, ok)
	h.flush()
	return done.err
}

func echo(_ context.Context, prompt string) (string, error) {
	return "echo: " + prompt, nil
}

func TestModel_SubmitRoundTrip(t *testing.T) {
	h := newHarness(t, chat.AskerFunc(echo))

	require.NoError(t, h.submit(t, "  hi  "))
	require.Empty(t, h.model.input.Value())
	require.Len(t, h.model.messages, 2)
	require.False(t, h.model.loading)
	require.Contains(t, h.model.View(), "echo: hi")
	require.NotContains(t, h.model.View(), "Try one of these")
}

func TestModel_EmptyPromptShowsValidationNotice(t *testing.T) {
	h := newHarness(t, chat.AskerFunc(echo))

	err := h.submit(t, "   ")
	require.True(t, chat.IsValidationError(err))
	require.Empty(t, h.model.messages)
	require.NotNil(t, h.model.notice)
	require.Equal(t, notice.KindValidation, h.model.notice.Kind)
	require.Contains(t, h.model.View(), "Please enter a question or prompt.")
}

func TestModel_ServerErrorKeepsUserMessage(t *testing.T) {
	h := newHarness(t, chat.AskerFunc(func(context.Context, string) (string, error) {
		return "", errors.New("boom")
	}))

	err := h.submit(t, "hi")
	require.True(t, chat.IsServerError(err))
	require.Len(t, h.model.messages, 1)
	require.False(t, h.model.loading)
	require.Contains(t, h.model.View(), "Unable to reach AI server. Please try again.")
}

func TestModel_InputBlockedWhileLoading(t *testing.T) {
	h := newHarness(t, chat.AskerFunc(echo))

	h.update(loadingMsg{loading: true})
	require.True(t, h.model.loading)
	require.False(t, h.model.input.Focused())

	h.model.input.SetValue("pending")
	require.Nil(t, h.update(tea.KeyMsg{Type: tea.KeyEnter}))
	h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	require.Equal(t, "pending", h.model.input.Value())
	require.Contains(t, h.model.View(), "Bot is thinking...")

	h.update(loadingMsg{loading: false})
	require.True(t, h.model.input.Focused())
}

func TestModel_AltEnterInsertsNewline(t *testing.T) {
	h := newHarness(t, chat.AskerFunc(echo))

	h.model.input.SetValue("a")
	h.update(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	require.Equal(t, "a\n", h.model.input.Value())
}

func TestModel_TabCyclesSuggestionsOnlyWhileEmpty(t *testing.T) {
	h := newHarness(t, chat.AskerFunc(echo))

	h.update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "one", h.model.input.Value())
	h.update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "two", h.model.input.Value())
	h.update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "one", h.model.input.Value())

	require.NoError(t, h.submit(t, "hi"))
	h.update(tea.KeyMsg{Type: tea.KeyTab})
	require.Empty(t, h.model.input.Value())
}

func TestModel_CounterFollowsInput(t *testing.T) {
	h := newHarness(t, chat.AskerFunc(echo))

	h.model.input.SetValue("hello")
	require.Contains(t, h.model.counterView(), "5 / 20")

	h.model.input.SetValue("this is far too long for the limit")
	require.Contains(t, h.model.counterView(), "20 / 20")
}

func TestModel_CopyLastReply(t *testing.T) {
	h := newHarness(t, chat.AskerFunc(echo))

	require.NotNil(t, h.update(tea.KeyMsg{Type: tea.KeyCtrlY}))
	require.Equal(t, "Nothing to copy yet.", h.model.status)
	require.Empty(t, h.copied)

	require.NoError(t, h.submit(t, "hi"))
	h.update(tea.KeyMsg{Type: tea.KeyCtrlY})
	require.Equal(t, []string{"echo: hi"}, h.copied)
	require.Equal(t, "Copied!", h.model.status)

	h.update(statusTimeoutMsg{seq: h.model.statusSeq - 1})
	require.Equal(t, "Copied!", h.model.status)
	h.update(statusTimeoutMsg{seq: h.model.statusSeq})
	require.Empty(t, h.model.status)
}

func TestModel_ClearAsksForConfirmation(t *testing.T) {
	h := newHarness(t, chat.AskerFunc(echo))

	h.update(tea.KeyMsg{Type: tea.KeyCtrlL})
	require.Nil(t, h.model.confirm, "nothing to clear")

	require.NoError(t, h.submit(t, "hi"))
	h.update(tea.KeyMsg{Type: tea.KeyCtrlL})
	require.NotNil(t, h.model.confirm)
	require.False(t, h.model.input.Focused())

	h.update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Nil(t, h.model.confirm)
	require.Len(t, h.model.messages, 2)
	require.Equal(t, 2, h.session.Len())

	h.update(tea.KeyMsg{Type: tea.KeyCtrlL})
	require.NotNil(t, h.model.confirm)
	next, cmd := h.model.confirmDone(true)
	h.model = next.(Model)
	require.NotNil(t, cmd)
	require.Nil(t, h.model.confirm)

	done, ok := h.model.resetCmd()().(resetDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	h.flush()

	require.Empty(t, h.model.messages)
	require.Equal(t, 0, h.session.Len())
	require.Contains(t, h.model.View(), "Try one of these")
}

func TestModel_NoticeHideIgnoresStaleNotice(t *testing.T) {
	h := newHarness(t, chat.AskerFunc(echo))

	now := time.Now()
	current := notice.Notice{Kind: notice.KindServer, Text: "current", ShownAt: now}
	stale := notice.Notice{Kind: notice.KindValidation, Text: "stale", ShownAt: now.Add(-time.Second)}

	h.update(noticeMsg{notice: current, visible: true})
	h.update(noticeMsg{notice: stale, visible: false})
	require.NotNil(t, h.model.notice)

	h.update(noticeMsg{notice: current, visible: false})
	require.Nil(t, h.model.notice)
}

func TestProgramPresenter(t *testing.T) {
	pp := NewProgramPresenter(20 * time.Millisecond)
	t.Cleanup(pp.Close)

	// nothing attached yet
	pp.OnLoadingChanged(false)

	rec := &recordingSender{}
	pp.Attach(rec)

	pp.OnNotice(notice.Notice{Kind: notice.KindServer, Text: "down"})
	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.msgs) == 2
	}, time.Second, 5*time.Millisecond)

	msgs := rec.drain()
	require.True(t, msgs[0].(noticeMsg).visible)
	require.False(t, msgs[1].(noticeMsg).visible)

	pp.OnNotice(notice.Notice{Kind: notice.KindValidation, Text: "empty"})
	pp.OnLoadingChanged(true)
	msgs = rec.drain()
	require.Len(t, msgs, 3)
	require.True(t, msgs[0].(noticeMsg).visible)
	require.False(t, msgs[1].(noticeMsg).visible)
	require.Equal(t, loadingMsg{loading: true}, msgs[2])

	pp.OnConversationReset()
	require.Equal(t, []tea.Msg{resetMsg{}}, rec.drain())
}
