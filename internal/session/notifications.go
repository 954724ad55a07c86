package session

import "sync"

// Notification is a transient user-visible message.
type Notification struct {
	Title       string
	Description string
	Destructive bool
}

// Notifier collects notifications until the next page render drains them.
type Notifier interface {
	Notify(n Notification)
	Drain() []Notification
}

// FlashQueue is an in-memory Notifier.
type FlashQueue struct {
	mu      sync.Mutex
	pending []Notification
}

// NewFlashQueue returns an empty queue.
func NewFlashQueue() *FlashQueue {
	return &FlashQueue{}
}

func (q *FlashQueue) Notify(n Notification) {
	q.mu.Lock()
	q.pending = append(q.pending, n)
	q.mu.Unlock()
}

func (q *FlashQueue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.pending
	q.pending = nil
	return out
}
