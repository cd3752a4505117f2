package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/tcnksm/go-input"
)

// Prompter reads user input for the REPL.
type Prompter interface {
	// ReadLine returns the next line without its line terminator, or io.EOF
	// once input is exhausted.
	ReadLine() (string, error)
	Confirm(query string) (bool, error)
}

// TerminalPrompter reads lines from in and asks yes/no questions with go-input.
// Both share one buffered reader so no typed-ahead input is lost between them.
type TerminalPrompter struct {
	in     *bufio.Reader
	out    io.Writer
	ui     *input.UI
	Prompt string
}

var _ Prompter = (*TerminalPrompter)(nil)

func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	br := bufio.NewReader(in)
	return &TerminalPrompter{
		in:  br,
		out: out,
		ui: &input.UI{
			Writer: out,
			Reader: br,
		},
		Prompt: "> ",
	}
}

func (p *TerminalPrompter) ReadLine() (string, error) {
	if p.Prompt != "" {
		_, _ = fmt.Fprint(p.out, p.Prompt)
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *TerminalPrompter) Confirm(query string) (bool, error) {
	answer, err := p.ui.Ask(query+" [y/N]", &input.Options{
		Default: "n",
		Loop:    true,
		ValidateFunc: func(answer string) error {
			switch strings.ToLower(strings.TrimSpace(answer)) {
			case "y", "yes", "n", "no", "":
				return nil
			default:
				return errors.Errorf("please enter 'y' or 'n'")
			}
		},
	})
	if err != nil {
		return false, errors.Wrap(err, "failed to get user input")
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
