package chat

import (
	"iter"

	"github.com/go-go-golems/mrcool/pkg/conversation"
	"github.com/go-go-golems/mrcool/pkg/notice"
)

// Presenter is implemented by the presentation layer. The session calls it
// synchronously from the goroutine that called Submit or ResetConversation.
type Presenter interface {
	// OnMessagesChanged is called after every append to or clear of the log.
	OnMessagesChanged(snapshot iter.Seq[conversation.Message])
	// OnLoadingChanged is called when a request starts and when it ends.
	OnLoadingChanged(isLoading bool)
	// OnNotice asks the presenter to show a transient notice. Auto-dismiss is
	// the presenter's business.
	OnNotice(n notice.Notice)
	// OnConversationReset asks the presenter to restore its initial view.
	OnConversationReset()
}

// PresenterFuncs adapts plain functions into a Presenter. Nil fields are skipped.
type PresenterFuncs struct {
	MessagesChanged   func(snapshot iter.Seq[conversation.Message])
	LoadingChanged    func(isLoading bool)
	Notice            func(n notice.Notice)
	ConversationReset func()
}

var _ Presenter = PresenterFuncs{}

func (p PresenterFuncs) OnMessagesChanged(snapshot iter.Seq[conversation.Message]) {
	if p.MessagesChanged != nil {
		p.MessagesChanged(snapshot)
	}
}

func (p PresenterFuncs) OnLoadingChanged(isLoading bool) {
	if p.LoadingChanged != nil {
		p.LoadingChanged(isLoading)
	}
}

func (p PresenterFuncs) OnNotice(n notice.Notice) {
	if p.Notice != nil {
		p.Notice(n)
	}
}

func (p PresenterFuncs) OnConversationReset() {
	if p.ConversationReset != nil {
		p.ConversationReset()
	}
}
