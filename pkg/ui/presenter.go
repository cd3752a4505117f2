package ui

import (
	"iter"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/mrcool/pkg/chat"
	"github.com/go-go-golems/mrcool/pkg/conversation"
	"github.com/go-go-golems/mrcool/pkg/notice"
)

// Sender is the part of *tea.Program the presenter needs.
type Sender interface {
	Send(msg tea.Msg)
}

type messagesMsg struct {
	messages []conversation.Message
}

type loadingMsg struct {
	loading bool
}

type noticeMsg struct {
	notice  notice.Notice
	visible bool
}

type resetMsg struct{}

// ProgramPresenter forwards session callbacks into a running bubbletea program
// as messages. Callbacks that arrive before Attach are dropped.
//
// Session callbacks run on the goroutine that called Submit, which in the UI
// is a tea.Cmd goroutine, never the program's event loop. Sending from the
// event loop itself would block forever.
type ProgramPresenter struct {
	mu     sync.Mutex
	sender Sender
	board  *notice.Board
}

var _ chat.Presenter = (*ProgramPresenter)(nil)

func NewProgramPresenter(noticeDuration time.Duration) *ProgramPresenter {
	pp := &ProgramPresenter{}
	pp.board = notice.NewBoard(noticeDuration, func(n notice.Notice, visible bool) {
		pp.send(noticeMsg{notice: n, visible: visible})
	})
	return pp
}

// Attach sets the program that receives forwarded messages.
func (pp *ProgramPresenter) Attach(s Sender) {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	pp.sender = s
}

// Close stops a pending notice dismissal.
func (pp *ProgramPresenter) Close() {
	pp.board.Stop()
}

func (pp *ProgramPresenter) send(msg tea.Msg) {
	pp.mu.Lock()
	s := pp.sender
	pp.mu.Unlock()
	if s == nil {
		log.Debug().Type("msg", msg).Msg("ui: no program attached, dropping message")
		return
	}
	s.Send(msg)
}

func (pp *ProgramPresenter) OnMessagesChanged(snapshot iter.Seq[conversation.Message]) {
	pp.send(messagesMsg{messages: conversation.Collect(snapshot)})
}

func (pp *ProgramPresenter) OnLoadingChanged(loading bool) {
	if loading {
		pp.board.Dismiss()
	}
	pp.send(loadingMsg{loading: loading})
}

func (pp *ProgramPresenter) OnNotice(n notice.Notice) {
	pp.board.Show(n)
}

func (pp *ProgramPresenter) OnConversationReset() {
	pp.board.Dismiss()
	pp.send(resetMsg{})
}
