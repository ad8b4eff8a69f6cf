package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atriumhq/atrium/pkg/stream"
)

// Kind classifies a toast notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Toast is a single transient user-facing notification.
type Toast struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier is the side channel services use to surface messages to the user.
// Implementations must not block.
type Notifier interface {
	Notify(kind Kind, message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(Kind, string) {}

// DefaultTTL is how long a toast stays active before it is removed.
const DefaultTTL = 5 * time.Second

// Hub collects active toasts and broadcasts the list on every change.
type Hub struct {
	mu     sync.Mutex
	toasts []Toast
	feed   *stream.Feed[[]Toast]
	ttl    time.Duration
}

// NewHub creates a hub. Toasts expire after ttl; a non-positive ttl disables
// auto-expiry (useful in tests).
func NewHub(ttl time.Duration) *Hub {
	return &Hub{
		feed: stream.NewFeed[[]Toast](nil),
		ttl:  ttl,
	}
}

// Notify adds a toast and schedules its removal. Implements Notifier.
func (h *Hub) Notify(kind Kind, message string) {
	toast := Toast{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}

	h.mu.Lock()
	h.toasts = append(h.toasts, toast)
	h.publishLocked()
	h.mu.Unlock()

	if h.ttl > 0 {
		time.AfterFunc(h.ttl, func() { h.Remove(toast.ID) })
	}
}

// Remove deletes a toast by ID. Unknown IDs are ignored.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, toast := range h.toasts {
		if toast.ID == id {
			h.toasts = append(h.toasts[:i], h.toasts[i+1:]...)
			h.publishLocked()
			return
		}
	}
}

// Clear removes all active toasts.
func (h *Hub) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.toasts) == 0 {
		return
	}
	h.toasts = nil
	h.publishLocked()
}

// Active returns a copy of the currently active toasts.
func (h *Hub) Active() []Toast {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Toast, len(h.toasts))
	copy(out, h.toasts)
	return out
}

// Subscribe attaches fn to the toast list feed with replay-latest semantics.
func (h *Hub) Subscribe(fn func([]Toast)) (cancel func()) {
	return h.feed.Subscribe(fn)
}

func (h *Hub) publishLocked() {
	out := make([]Toast, len(h.toasts))
	copy(out, h.toasts)
	h.feed.Publish(out)
}
