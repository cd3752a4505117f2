package web

import (
	"iter"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-go-golems/mrcool/pkg/chat"
	"github.com/go-go-golems/mrcool/pkg/conversation"
	"github.com/go-go-golems/mrcool/pkg/notice"
	"github.com/go-go-golems/mrcool/pkg/render"
)

type frameSender interface {
	Send(frame any)
}

// connPresenter turns session callbacks into websocket frames. Notices are
// dismissed by the browser after dismissAfterMs, and on loading/reset frames.
type connPresenter struct {
	out            frameSender
	renderer       *render.HTMLRenderer
	noticeDuration time.Duration
	logger         zerolog.Logger
}

var _ chat.Presenter = (*connPresenter)(nil)

func (p *connPresenter) OnMessagesChanged(snapshot iter.Seq[conversation.Message]) {
	messages := conversation.Collect(snapshot)
	html, err := p.renderer.HistoryString(slices.Values(messages))
	if err != nil {
		p.logger.Error().Err(err).Msg("render history failed")
		return
	}
	p.out.Send(messagesFrame{Type: frameMessages, HTML: html, Count: len(messages)})
}

func (p *connPresenter) OnLoadingChanged(loading bool) {
	p.out.Send(loadingFrame{Type: frameLoading, Loading: loading})
}

func (p *connPresenter) OnNotice(n notice.Notice) {
	p.out.Send(noticeFrame{
		Type:           frameNotice,
		Kind:           n.Kind,
		Text:           n.Text,
		DismissAfterMs: p.noticeDuration.Milliseconds(),
	})
}

func (p *connPresenter) OnConversationReset() {
	p.out.Send(resetFrame{Type: frameReset})
}
