package store

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// subscriptionBuffer bounds how many undelivered changes a listener may lag
// behind before further notifications are dropped for it.
const subscriptionBuffer = 64

// Subscription delivers change notifications for one listener. Receive from
// C; the channel is closed on Unsubscribe.
type Subscription struct {
	C  <-chan Key
	id int
	ch chan Key
}

// Notifier fans out mutated keys to subscribers. Store backends embed it.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*Subscription
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]*Subscription)}
}

// Subscribe registers a new listener.
func (n *Notifier) Subscribe() *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	ch := make(chan Key, subscriptionBuffer)
	sub := &Subscription{C: ch, id: n.nextID, ch: ch}
	n.subs[sub.id] = sub
	return sub
}

// Unsubscribe detaches a listener and closes its channel.
func (n *Notifier) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.subs[sub.id]; ok {
		delete(n.subs, sub.id)
		close(sub.ch)
	}
}

// Publish sends the key to every subscriber without blocking. A full
// listener buffer drops the notification; the listener still sees the
// latest state on its next read.
func (n *Notifier) Publish(key Key) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, sub := range n.subs {
		select {
		case sub.ch <- key:
		default:
			log.Debug().Str("key", key.String()).Msg("Dropping change notification for slow subscriber")
		}
	}
}

// CloseAll detaches every listener, closing their channels.
func (n *Notifier) CloseAll() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, sub := range n.subs {
		delete(n.subs, id)
		close(sub.ch)
	}
}
