package conversation

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

func (r Role) String() string { return string(r) }

// Message is a single entry of the conversation log. Messages are values and are
// never modified after creation; Text holds the raw, untrusted content exactly as
// it was typed by the user or returned by the server.
type Message struct {
	ID        string    `json:"id" yaml:"id"`
	Role      Role      `json:"role" yaml:"role"`
	Text      string    `json:"text" yaml:"text"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

var (
	ErrInvalidRole = errors.New("invalid message role")
	ErrEmptyText   = errors.New("message text is empty")
)

// NewMessage creates a message with a fresh ID.
func NewMessage(role Role, text string, createdAt time.Time) (Message, error) {
	if !role.Valid() {
		return Message{}, errors.Wrapf(ErrInvalidRole, "role %q", string(role))
	}
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyText
	}
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: createdAt,
	}, nil
}

func (m Message) IsUser() bool      { return m.Role == RoleUser }
func (m Message) IsAssistant() bool { return m.Role == RoleAssistant }
