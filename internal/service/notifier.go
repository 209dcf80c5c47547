package service

import (
	"sync"
	"time"
)

// DefaultNotificationTTL is how long a banner stays up before self-clearing
const DefaultNotificationTTL = 3 * time.Second

// NotificationKind is the flavor of the banner
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is the single transient message shown to the operator
type Notification struct {
	Text      string           `json:"text"`
	Kind      NotificationKind `json:"kind"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// Notifier holds at most one active notification. A new Show replaces any
// pending message and restarts the expiry timer; there is no queue.
// Safe for concurrent use.
type Notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Notification
	timer   *time.Timer
}

// NewNotifier creates a Notifier with the given message lifetime. A
// non-positive ttl falls back to the default.
func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Notifier{ttl: ttl}
}

// Show replaces the current message and restarts the expiry timer
func (n *Notifier) Show(text string, kind NotificationKind) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}

	shown := &Notification{
		Text:      text,
		Kind:      kind,
		ExpiresAt: time.Now().Add(n.ttl),
	}
	n.current = shown
	n.timer = time.AfterFunc(n.ttl, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		// Only clear if no newer message replaced this one
		if n.current == shown {
			n.current = nil
		}
	})
}

// Success shows a success message
func (n *Notifier) Success(text string) {
	n.Show(text, NotificationSuccess)
}

// Error shows an error message
func (n *Notifier) Error(text string) {
	n.Show(text, NotificationError)
}

// Clear cancels the timer and empties the slot early
func (n *Notifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.current = nil
}

// Current returns the active notification, or nil when the slot is empty or
// the message has expired
func (n *Notifier) Current() *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current == nil || time.Now().After(n.current.ExpiresAt) {
		return nil
	}
	out := *n.current
	return &out
}
