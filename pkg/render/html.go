package render

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"iter"

	"github.com/pkg/errors"

	"github.com/go-go-golems/mrcool/pkg/conversation"
)

//go:embed templates/*.tmpl.html
var templatesFS embed.FS

// HTMLRenderer renders the chat history as an HTML fragment. Message text goes
// through html/template's contextual escaping and is never interpreted as markup.
type HTMLRenderer struct {
	AssistantName string
	tmpl          *template.Template
}

func NewHTMLRenderer(assistantName string) (*HTMLRenderer, error) {
	if assistantName == "" {
		assistantName = DefaultAssistantName
	}
	tmpl, err := template.New("history").
		Funcs(template.FuncMap{"timestamp": Timestamp}).
		ParseFS(templatesFS, "templates/*.tmpl.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse history template")
	}
	return &HTMLRenderer{AssistantName: assistantName, tmpl: tmpl}, nil
}

type historyData struct {
	AssistantName string
	Messages      []conversation.Message
}

func (r *HTMLRenderer) RenderHistory(w io.Writer, snapshot iter.Seq[conversation.Message]) error {
	data := historyData{
		AssistantName: r.AssistantName,
		Messages:      conversation.Collect(snapshot),
	}
	if err := r.tmpl.ExecuteTemplate(w, "history", data); err != nil {
		return errors.Wrap(err, "render history")
	}
	return nil
}

func (r *HTMLRenderer) HistoryString(snapshot iter.Seq[conversation.Message]) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderHistory(&buf, snapshot); err != nil {
		return "", err
	}
	return buf.String(), nil
}
