package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/mrcool/pkg/chat"
	"github.com/go-go-golems/mrcool/pkg/conversation"
	"github.com/go-go-golems/mrcool/pkg/notice"
	"github.com/go-go-golems/mrcool/pkg/render"
)

const (
	inputHeight   = 3
	statusTimeout = 2 * time.Second
	helpText      = "enter send • alt+enter newline • tab suggestion • ctrl+y copy • ctrl+l clear • esc quit"
)

type Options struct {
	AssistantName    string
	MaxPromptLength  int
	SuggestedPrompts []string
	// Clipboard defaults to the system clipboard.
	Clipboard func(text string) error
}

type submitDoneMsg struct {
	err error
}

type resetDoneMsg struct {
	err error
}

type statusTimeoutMsg struct {
	seq int
}

// Model is the terminal chat UI. All state changes of the conversation come
// from the session through ProgramPresenter; the model only keeps what it
// needs to draw.
type Model struct {
	ctx      context.Context
	session  *chat.Session
	renderer *render.TerminalRenderer
	opts     Options

	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	messages   []conversation.Message
	loading    bool
	notice     *notice.Notice
	status     string
	statusSeq  int
	suggestion int

	confirm      *huh.Form
	confirmClear *bool

	width  int
	height int
}

func NewModel(ctx context.Context, session *chat.Session, opts Options) Model {
	if opts.AssistantName == "" {
		opts.AssistantName = render.DefaultAssistantName
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	ta := textarea.New()
	ta.Placeholder = "Ask " + opts.AssistantName + " anything..."
	ta.CharLimit = opts.MaxPromptLength
	ta.ShowLineNumbers = false
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := Model{
		ctx:      ctx,
		session:  session,
		renderer: render.NewTerminalRenderer(opts.AssistantName, 0),
		opts:     opts,
		input:    ta,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		messages: session.Messages(),
	}
	m.resize(80, 24)
	return m
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.confirm != nil {
			return m.updateConfirm(msg)
		}
		return m, nil

	case messagesMsg:
		m.messages = msg.messages
		m.refreshHistory()
		return m, nil

	case loadingMsg:
		m.loading = msg.loading
		if m.loading {
			m.input.Blur()
			return m, m.spinner.Tick
		}
		if m.confirm != nil {
			return m, nil
		}
		return m, m.input.Focus()

	case noticeMsg:
		if msg.visible {
			n := msg.notice
			m.notice = &n
		} else if m.notice != nil && sameNotice(*m.notice, msg.notice) {
			m.notice = nil
		}
		return m, nil

	case resetMsg:
		m.messages = nil
		m.suggestion = 0
		m.notice = nil
		m.input.Reset()
		m.refreshHistory()
		return m, nil

	case submitDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, chat.ErrBusy) {
			log.Debug().Err(msg.err).Msg("ui: submit finished with error")
		}
		return m, nil

	case resetDoneMsg:
		if errors.Is(msg.err, chat.ErrBusy) {
			return m.setStatus("Wait for the reply before clearing.")
		}
		return m, nil

	case statusTimeoutMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.confirm != nil {
		return m.updateConfirm(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		if msg.Type == tea.KeyEsc {
			return m.confirmDone(false)
		}
		return m.updateConfirm(msg)
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "enter":
		if m.loading {
			return m, nil
		}
		prompt := m.input.Value()
		m.input.Reset()
		return m, m.submitCmd(prompt)

	case "tab":
		if m.loading || len(m.messages) > 0 || len(m.opts.SuggestedPrompts) == 0 {
			return m, nil
		}
		n := len(m.opts.SuggestedPrompts)
		m.input.SetValue(m.opts.SuggestedPrompts[m.suggestion%n])
		m.suggestion = (m.suggestion + 1) % n
		return m, nil

	case "ctrl+y":
		return m.copyLastReply()

	case "ctrl+l":
		if m.loading || len(m.messages) == 0 {
			return m, nil
		}
		return m.openConfirm()

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.loading {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitCmd(prompt string) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		return submitDoneMsg{err: session.Submit(ctx, prompt)}
	}
}

func (m Model) resetCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		return resetDoneMsg{err: session.ResetConversation()}
	}
}

func (m Model) copyLastReply() (tea.Model, tea.Cmd) {
	reply, ok := m.session.LastReply()
	if !ok {
		return m.setStatus("Nothing to copy yet.")
	}
	if err := m.opts.Clipboard(reply.Text); err != nil {
		log.Warn().Err(err).Msg("ui: clipboard write failed")
		return m.setStatus("Copy failed.")
	}
	return m.setStatus("Copied!")
}

func (m Model) setStatus(s string) (tea.Model, tea.Cmd) {
	m.status = s
	m.statusSeq++
	seq := m.statusSeq
	return m, tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return statusTimeoutMsg{seq: seq}
	})
}

func (m Model) openConfirm() (tea.Model, tea.Cmd) {
	m.confirmClear = new(bool)
	m.confirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Clear chat history?").
				Affirmative("Clear").
				Negative("Cancel").
				Value(m.confirmClear),
		),
	).WithShowHelp(false).WithWidth(m.width)
	m.input.Blur()
	return m, m.confirm.Init()
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	fm, cmd := m.confirm.Update(msg)
	if f, ok := fm.(*huh.Form); ok {
		m.confirm = f
	}
	switch m.confirm.State {
	case huh.StateCompleted:
		next, doneCmd := m.confirmDone(*m.confirmClear)
		return next, tea.Batch(cmd, doneCmd)
	case huh.StateAborted:
		next, doneCmd := m.confirmDone(false)
		return next, tea.Batch(cmd, doneCmd)
	}
	return m, cmd
}

func (m Model) confirmDone(accepted bool) (tea.Model, tea.Cmd) {
	m.confirm = nil
	m.confirmClear = nil
	focus := m.input.Focus()
	if !accepted {
		return m, focus
	}
	return m, tea.Batch(focus, m.resetCmd())
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.input.SetWidth(max(width-2, 10))
	m.renderer.Width = width

	// title, notice/spinner line, input, counter, help
	chrome := 1 + 1 + inputHeight + 1 + 1 + 2
	m.viewport.Width = width
	m.viewport.Height = max(height-chrome, 3)
	m.refreshHistory()
}

func (m *Model) refreshHistory() {
	m.viewport.SetContent(m.renderer.RenderHistory(slices.Values(m.messages)))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	var b strings.Builder

	header := titleStyle.Render(m.opts.AssistantName)
	if m.status != "" {
		header += statusStyle.Render(m.status)
	}
	b.WriteString(header + "\n")

	if len(m.messages) == 0 {
		b.WriteString(m.welcomeView())
	} else {
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " " + m.opts.AssistantName + " is thinking...")
	case m.notice != nil:
		b.WriteString(noticeStyle(m.notice.Kind).Render(m.notice.Text))
	}
	b.WriteString("\n")

	if m.confirm != nil {
		b.WriteString(m.confirm.View())
		return b.String()
	}

	b.WriteString(m.input.View() + "\n")
	b.WriteString(m.counterView() + "  " + helpStyle.Render(helpText))
	return b.String()
}

func (m Model) welcomeView() string {
	lines := []string{welcomeStyle.Render("Hi, I'm " + m.opts.AssistantName + ". Try one of these:")}
	for i, p := range m.opts.SuggestedPrompts {
		style := suggestionStyle
		if len(m.opts.SuggestedPrompts) > 0 && i == m.suggestion%len(m.opts.SuggestedPrompts) {
			style = selectedStyle
		}
		lines = append(lines, style.Render("• "+p))
	}
	return lipgloss.NewStyle().Height(m.viewport.Height).Render(strings.Join(lines, "\n"))
}

func (m Model) counterView() string {
	count := utf8.RuneCountInString(m.input.Value())
	limit := m.opts.MaxPromptLength
	if limit <= 0 {
		return counterStyles[render.CounterNormal].Render(fmt.Sprintf("%d", count))
	}
	return counterStyles[render.Level(count, limit)].Render(render.CounterText(count, limit))
}

func sameNotice(a, b notice.Notice) bool {
	return a.Kind == b.Kind && a.Text == b.Text && a.ShownAt.Equal(b.ShownAt)
}
