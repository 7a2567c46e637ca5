package dashboard

import (
	"sync"
	"time"
)

// Notification kinds, mirroring the badge classes.
const (
	NotifyError   = "error"
	NotifySuccess = "success"
	NotifyInfo    = "info"
)

const notificationTTL = 5 * time.Second

type Notification struct {
	Kind    string
	Message string
	At      time.Time
}

// Notifier is the dismissible, auto-expiring message strip. Errors from
// the network, the backend and client-side validation all land here; none
// of them is fatal to the page.
type Notifier struct {
	mu     sync.Mutex
	active []Notification
	now    func() time.Time
}

func NewNotifier() *Notifier {
	return &Notifier{now: time.Now}
}

// Push adds a notification; it expires on its own after 5 seconds.
func (n *Notifier) Push(kind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expireLocked()
	n.active = append(n.active, Notification{Kind: kind, Message: message, At: n.now()})
}

// Dismiss removes the oldest matching notification.
func (n *Notifier) Dismiss(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, note := range n.active {
		if note.Message == message {
			n.active = append(n.active[:i], n.active[i+1:]...)
			return
		}
	}
}

// Active returns the not-yet-expired notifications, oldest first.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expireLocked()
	out := make([]Notification, len(n.active))
	copy(out, n.active)
	return out
}

func (n *Notifier) expireLocked() {
	cutoff := n.now().Add(-notificationTTL)
	kept := n.active[:0]
	for _, note := range n.active {
		if note.At.After(cutoff) {
			kept = append(kept, note)
		}
	}
	n.active = kept
}
