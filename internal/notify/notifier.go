// Package notify is the publish/subscribe primitive models use to announce mutations.
package notify

import "waypoint-cli/internal/model"

type Handler[T any] func(scope model.UpdateScope, payload T)

type subscription[T any] struct {
	id int
	fn Handler[T]
}

// Notifier calls its handlers synchronously, in registration order.
// The zero value is ready to use. It is not safe for concurrent use.
type Notifier[T any] struct {
	subs   []subscription[T]
	nextID int
}

// Subscribe registers h and returns a func that removes it again.
// Calling the returned func more than once is a no-op.
func (n *Notifier[T]) Subscribe(h Handler[T]) func() {
	if h == nil {
		return func() {}
	}
	n.nextID++
	id := n.nextID
	n.subs = append(n.subs, subscription[T]{id: id, fn: h})
	return func() { n.unsubscribe(id) }
}

func (n *Notifier[T]) unsubscribe(id int) {
	for i, s := range n.subs {
		if s.id == id {
			// Copy so an in-flight Notify keeps iterating its own snapshot.
			next := make([]subscription[T], 0, len(n.subs)-1)
			next = append(next, n.subs[:i]...)
			next = append(next, n.subs[i+1:]...)
			n.subs = next
			return
		}
	}
}

// Notify runs, in order, the handlers registered at the time of the call that are still
// registered when their turn comes. Handlers added during the call do not see this event.
func (n *Notifier[T]) Notify(scope model.UpdateScope, payload T) {
	subs := n.subs
	for _, s := range subs {
		if !n.active(s.id) {
			continue
		}
		s.fn(scope, payload)
	}
}

func (n *Notifier[T]) active(id int) bool {
	for _, s := range n.subs {
		if s.id == id {
			return true
		}
	}
	return false
}

func (n *Notifier[T]) Len() int { return len(n.subs) }
