package render

import (
	"fmt"
	"time"

	"github.com/go-go-golems/mrcool/pkg/conversation"
)

const DefaultAssistantName = "Mr.Cool"

// Timestamp formats t for display, in local time, hours and minutes only.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("15:04")
}

// Author returns the display label for a message role.
func Author(role conversation.Role, assistantName string) string {
	if role == conversation.RoleUser {
		return "You"
	}
	if assistantName == "" {
		return DefaultAssistantName
	}
	return assistantName
}

// CounterLevel grades how close a prompt is to the length limit.
type CounterLevel int

const (
	CounterNormal CounterLevel = iota
	CounterWarn
	CounterDanger
)

func (l CounterLevel) String() string {
	switch l {
	case CounterWarn:
		return "warn"
	case CounterDanger:
		return "danger"
	default:
		return "normal"
	}
}

// Level returns Warn above 70% of limit and Danger above 90%.
func Level(count, limit int) CounterLevel {
	if limit <= 0 {
		return CounterNormal
	}
	switch {
	case count*10 > limit*9:
		return CounterDanger
	case count*10 > limit*7:
		return CounterWarn
	default:
		return CounterNormal
	}
}

func CounterText(count, limit int) string {
	return fmt.Sprintf("%d / %d", count, limit)
}
