package notice

import (
	"sync"
	"time"
)

// Kind tells a presenter how to style a notice.
type Kind string

const (
	KindValidation Kind = "validation"
	KindServer     Kind = "server"
)

// DefaultDuration is how long a notice stays visible unless configured otherwise.
const DefaultDuration = 5 * time.Second

// Notice is a transient, user-visible message.
type Notice struct {
	Kind    Kind      `json:"kind"`
	Text    string    `json:"text"`
	ShownAt time.Time `json:"shownAt"`
}

// Board holds at most one active notice. Showing a notice replaces the current
// one and restarts the dismissal timer; the timer is independent of whatever
// caused the notice.
type Board struct {
	mu       sync.Mutex
	duration time.Duration
	current  *Notice
	timer    *time.Timer
	seq      uint64
	onChange func(n Notice, visible bool)
}

// NewBoard creates a board. onChange is called outside the board's lock, with
// visible=false when the active notice goes away. A non-positive duration keeps
// notices until they are replaced or dismissed.
func NewBoard(duration time.Duration, onChange func(n Notice, visible bool)) *Board {
	return &Board{
		duration: duration,
		onChange: onChange,
	}
}

func (b *Board) Duration() time.Duration {
	if b == nil {
		return 0
	}
	return b.duration
}

func (b *Board) Show(n Notice) {
	if b == nil {
		return
	}
	if n.ShownAt.IsZero() {
		n.ShownAt = time.Now()
	}
	b.mu.Lock()
	b.stopTimerLocked()
	b.seq++
	b.current = &n
	if b.duration > 0 {
		seq := b.seq
		b.timer = time.AfterFunc(b.duration, func() { b.expire(seq) })
	}
	cb := b.onChange
	b.mu.Unlock()

	if cb != nil {
		cb(n, true)
	}
}

// Dismiss hides the active notice, if any.
func (b *Board) Dismiss() {
	if b == nil {
		return
	}
	b.mu.Lock()
	if b.current == nil {
		b.mu.Unlock()
		return
	}
	n := *b.current
	b.current = nil
	b.seq++
	b.stopTimerLocked()
	cb := b.onChange
	b.mu.Unlock()

	if cb != nil {
		cb(n, false)
	}
}

func (b *Board) Current() (Notice, bool) {
	if b == nil {
		return Notice{}, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Notice{}, false
	}
	return *b.current, true
}

// Stop cancels a pending dismissal without notifying anyone.
func (b *Board) Stop() {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.stopTimerLocked()
	b.mu.Unlock()
}

func (b *Board) expire(seq uint64) {
	b.mu.Lock()
	// a newer notice (or a dismiss) won the race against this timer
	if seq != b.seq || b.current == nil {
		b.mu.Unlock()
		return
	}
	n := *b.current
	b.current = nil
	b.timer = nil
	cb := b.onChange
	b.mu.Unlock()

	if cb != nil {
		cb(n, false)
	}
}

func (b *Board) stopTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
