package auth

import "sync"

// Listener receives auth state changes. Session is nil for EventSignedOut.
type Listener func(event Event, session *Session)

// Subscription is a handle returned by OnAuthStateChange.
type Subscription interface {
	Unsubscribe()
}

// SubscriptionFunc adapts a plain function to Subscription.
type SubscriptionFunc func()

// Unsubscribe calls f.
func (f SubscriptionFunc) Unsubscribe() { f() }

type notification struct {
	event   Event
	session *Session
}

type subscriber struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []notification
	closed bool
	fn     Listener
}

func newSubscriber(fn Listener) *subscriber {
	s := &subscriber{fn: fn}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *subscriber) push(n notification) {
	s.mu.Lock()
	if !s.closed {
		s.queue = append(s.queue, n)
		s.cond.Signal()
	}
	s.mu.Unlock()
}

func (s *subscriber) close() {
	s.mu.Lock()
	s.closed = true
	s.queue = nil
	s.cond.Signal()
	s.mu.Unlock()
}

func (s *subscriber) run() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		n := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.fn(n.event, n.session)
	}
}

// Hub fans auth events out to listeners. Each listener runs on its own goroutine
// and sees events in emission order; Emit never blocks on a slow listener.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*subscriber
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]*subscriber)}
}

// Subscribe registers fn until the returned subscription is released.
func (h *Hub) Subscribe(fn Listener) Subscription {
	sub := newSubscriber(fn)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = sub
	h.mu.Unlock()

	go sub.run()

	var once sync.Once
	return SubscriptionFunc(func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			sub.close()
		})
	})
}

// Emit queues the event for every current listener.
func (h *Hub) Emit(event Event, session *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		sub.push(notification{event: event, session: session})
	}
}

// Len reports the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
