package render

import (
	"iter"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/go-go-golems/mrcool/pkg/conversation"
)

// SanitizeTerminal makes untrusted text safe to print on a terminal: escape
// sequences are stripped, as are control characters other than newline and tab.
func SanitizeTerminal(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

var (
	userHeaderStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	timestampStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	userBodyStyle        = lipgloss.NewStyle().PaddingLeft(2)
	assistantBodyStyle   = lipgloss.NewStyle().
				PaddingLeft(1).
				BorderStyle(lipgloss.NormalBorder()).
				BorderLeft(true).
				BorderForeground(lipgloss.Color("170"))
)

// TerminalRenderer renders messages for terminal output.
type TerminalRenderer struct {
	AssistantName string
	// Width wraps message bodies when positive.
	Width int
}

func NewTerminalRenderer(assistantName string, width int) *TerminalRenderer {
	return &TerminalRenderer{AssistantName: assistantName, Width: width}
}

func (r *TerminalRenderer) RenderMessage(m conversation.Message) string {
	headerStyle := userHeaderStyle
	bodyStyle := userBodyStyle
	if m.IsAssistant() {
		headerStyle = assistantHeaderStyle
		bodyStyle = assistantBodyStyle
	}

	header := headerStyle.Render(Author(m.Role, r.AssistantName))
	if ts := Timestamp(m.CreatedAt); ts != "" {
		header += " " + timestampStyle.Render(ts)
	}

	if r.Width > 4 {
		bodyStyle = bodyStyle.Width(r.Width - 2)
	}
	return header + "\n" + bodyStyle.Render(SanitizeTerminal(m.Text))
}

func (r *TerminalRenderer) RenderHistory(snapshot iter.Seq[conversation.Message]) string {
	var parts []string
	for m := range snapshot {
		parts = append(parts, r.RenderMessage(m))
	}
	return strings.Join(parts, "\n\n")
}
