package repl

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tcnksm/go-input"

	"github.com/go-go-golems/mrcool/pkg/chat"
	"github.com/go-go-golems/mrcool/pkg/conversation"
	"github.com/go-go-golems/mrcool/pkg/notice"
	"github.com/go-go-golems/mrcool/pkg/render"
)

const helpText = `Type a prompt and press enter.
  /clear  clear the conversation
  /copy   copy the last reply to the clipboard
  /help   show this help
  /quit   exit`

type Options struct {
	AssistantName    string
	SuggestedPrompts []string
	// Width wraps replies when positive.
	Width int
	// Clipboard defaults to the system clipboard.
	Clipboard func(text string) error
}

// REPL is a line-oriented presenter: it prints new messages as they are
// appended and writes notices to the error writer.
type REPL struct {
	prompter Prompter
	out      io.Writer
	errOut   io.Writer
	renderer *render.TerminalRenderer
	opts     Options

	mu      sync.Mutex
	printed int
}

var _ chat.Presenter = (*REPL)(nil)

func New(prompter Prompter, out, errOut io.Writer, opts Options) *REPL {
	if opts.AssistantName == "" {
		opts.AssistantName = render.DefaultAssistantName
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	return &REPL{
		prompter: prompter,
		out:      out,
		errOut:   errOut,
		renderer: render.NewTerminalRenderer(opts.AssistantName, opts.Width),
		opts:     opts,
	}
}

// Run reads prompts until end of input, /quit or ctx cancellation. session
// must have been created with r as its presenter.
func (r *REPL) Run(ctx context.Context, session *chat.Session) error {
	r.printWelcome()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := await(ctx, r.prompter.ReadLine)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			return errors.Wrap(err, "read prompt")
		}

		switch strings.TrimSpace(line) {
		case "/quit", "/exit":
			return nil
		case "/help":
			r.println(r.out, helpText)
			continue
		case "/copy":
			r.copyLastReply(session)
			continue
		case "/clear":
			if err := r.clear(ctx, session); err != nil {
				if ctx.Err() != nil || errors.Is(err, input.ErrInterrupted) {
					return nil
				}
				return err
			}
			continue
		}

		if err := session.Submit(ctx, line); err != nil {
			log.Debug().Err(err).Msg("repl: submit failed")
		}
	}
}

func (r *REPL) clear(ctx context.Context, session *chat.Session) error {
	if session.Len() == 0 {
		r.println(r.errOut, "Nothing to clear.")
		return nil
	}
	ok, err := await(ctx, func() (bool, error) {
		return r.prompter.Confirm("Clear chat history?")
	})
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := session.ResetConversation(); err != nil {
		r.println(r.errOut, "Wait for the reply before clearing.")
	}
	return nil
}

func (r *REPL) copyLastReply(session *chat.Session) {
	reply, ok := session.LastReply()
	if !ok {
		r.println(r.errOut, "Nothing to copy yet.")
		return
	}
	if err := r.opts.Clipboard(reply.Text); err != nil {
		log.Warn().Err(err).Msg("repl: clipboard write failed")
		r.println(r.errOut, "Copy failed.")
		return
	}
	r.println(r.errOut, "Copied!")
}

func (r *REPL) printWelcome() {
	r.println(r.out, fmt.Sprintf("Hi, I'm %s. Type /help for commands.", r.opts.AssistantName))
	if len(r.opts.SuggestedPrompts) > 0 {
		r.println(r.out, "Try one of these:")
		for _, p := range r.opts.SuggestedPrompts {
			r.println(r.out, "  • "+p)
		}
	}
}

func (r *REPL) println(w io.Writer, s string) {
	if _, err := fmt.Fprintln(w, s); err != nil {
		log.Debug().Err(err).Msg("repl: write failed")
	}
}

func (r *REPL) OnMessagesChanged(snapshot iter.Seq[conversation.Message]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := 0
	for m := range snapshot {
		if i >= r.printed {
			r.println(r.out, r.renderer.RenderMessage(m)+"\n")
		}
		i++
	}
	r.printed = i
}

func (r *REPL) OnLoadingChanged(loading bool) {
	if loading {
		r.println(r.errOut, r.opts.AssistantName+" is thinking...")
	}
}

func (r *REPL) OnNotice(n notice.Notice) {
	r.println(r.errOut, "! "+n.Text)
}

func (r *REPL) OnConversationReset() {
	r.println(r.out, "Conversation cleared.")
	if len(r.opts.SuggestedPrompts) > 0 {
		r.printWelcome()
	}
}

// await runs read on its own goroutine so that cancelling ctx unblocks the
// caller while read is parked on input. An abandoned read keeps its goroutine
// until the input yields a line or is closed.
func await[T any](ctx context.Context, read func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := read()
		done <- result{v: v, err: err}
	}()

	select {
	case res := <-done:
		return res.v, res.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
