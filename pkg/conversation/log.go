package conversation

import (
	"iter"
	"slices"
	"sync"
)

// Log is the ordered, append-only record of a chat session. The only way to
// remove messages is Clear, which drops all of them at once.
//
// Rendering is not the log's concern: Append and Clear have no side effects, the
// caller decides when to notify its presentation layer.
type Log struct {
	mu       sync.RWMutex
	messages []Message
}

func NewLog() *Log {
	return &Log{messages: make([]Message, 0, 16)}
}

// Append adds m at the end of the log.
func (l *Log) Append(m Message) {
	l.mu.Lock()
	l.messages = append(l.messages, m)
	l.mu.Unlock()
}

// Clear empties the log. Clearing an empty log is a no-op.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.messages) == 0 {
		return
	}
	// a fresh backing array, so that snapshots taken before the clear stay intact
	l.messages = make([]Message, 0, 16)
}

// Snapshot returns the messages present at call time, in insertion order.
// The sequence iterates over a private copy: it can be ranged over any number of
// times and never observes later appends or clears.
func (l *Log) Snapshot() iter.Seq[Message] {
	copied := l.Messages()
	return slices.Values(copied)
}

// Messages returns a copy of the current messages.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.messages)
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

func (l *Log) IsEmpty() bool {
	return l.Len() == 0
}

// LastByRole returns the most recent message authored by role.
func (l *Log) LastByRole(role Role) (Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for i := len(l.messages) - 1; i >= 0; i-- {
		if l.messages[i].Role == role {
			return l.messages[i], true
		}
	}
	return Message{}, false
}

// Collect materializes a snapshot sequence. Presenters receive sequences, most of
// them want a slice to index into.
func Collect(seq iter.Seq[Message]) []Message {
	if seq == nil {
		return nil
	}
	return slices.Collect(seq)
}
