package web

import (
	"github.com/go-go-golems/mrcool/pkg/notice"
)

const (
	frameSubmit = "submit"
	frameClear  = "clear"

	frameHello    = "hello"
	frameMessages = "messages"
	frameLoading  = "loading"
	frameNotice   = "notice"
	frameReset    = "reset"
	frameError    = "error"
)

// inboundFrame is what the widget sends over the websocket.
type inboundFrame struct {
	Type   string `json:"type"`
	Prompt string `json:"prompt,omitempty"`
}

type helloFrame struct {
	Type             string   `json:"type"`
	SessionID        string   `json:"sessionId"`
	AssistantName    string   `json:"assistantName"`
	MaxPromptLength  int      `json:"maxPromptLength"`
	SuggestedPrompts []string `json:"suggestedPrompts"`
}

// messagesFrame carries the full history, rendered and escaped on the server.
type messagesFrame struct {
	Type  string `json:"type"`
	HTML  string `json:"html"`
	Count int    `json:"count"`
}

type loadingFrame struct {
	Type    string `json:"type"`
	Loading bool   `json:"loading"`
}

type noticeFrame struct {
	Type           string      `json:"type"`
	Kind           notice.Kind `json:"kind"`
	Text           string      `json:"text"`
	DismissAfterMs int64       `json:"dismissAfterMs"`
}

type resetFrame struct {
	Type string `json:"type"`
}

// errorFrame reports a rejected client frame. Prompt carries a submitted
// prompt back when it was not accepted, so the widget can restore it.
type errorFrame struct {
	Type   string `json:"type"`
	Error  string `json:"error"`
	Prompt string `json:"prompt,omitempty"`
}
