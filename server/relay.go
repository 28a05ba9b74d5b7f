package server

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/entangled/event"
)

// subscriberBuffer is the per-connection backlog before a slow client is dropped
const subscriberBuffer = 128

// Message is the wire form of an outbound event
type Message struct {
	Type    string           `json:"type"`
	Sender  event.ListenerID `json:"sender,omitempty"`
	Payload any              `json:"payload,omitempty"`
}

// relay forwards outbound bus events to websocket subscribers
// OnEvent runs under the session lock and never blocks; a subscriber whose buffer is full is dropped
type relay struct {
	mu   sync.Mutex
	subs map[chan Message]struct{}
	log  zerolog.Logger
}

func newRelay(log zerolog.Logger) *relay {
	return &relay{subs: make(map[chan Message]struct{}), log: log}
}

func (r *relay) OnEvent(_ *event.Bus, ev event.Event) error {
	if ev.Type.IsCommand() {
		return nil
	}
	msg := Message{Type: ev.Type.String(), Sender: ev.Sender, Payload: ev.Payload}

	r.mu.Lock()
	defer r.mu.Unlock()
	for ch := range r.subs {
		select {
		case ch <- msg:
		default:
			delete(r.subs, ch)
			close(ch)
			r.log.Warn().Str("event", msg.Type).Msg("Dropped slow subscriber")
		}
	}
	return nil
}

// Teardown closes every subscriber
func (r *relay) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for ch := range r.subs {
		delete(r.subs, ch)
		close(ch)
	}
}

func (r *relay) subscribe() chan Message {
	ch := make(chan Message, subscriberBuffer)
	r.mu.Lock()
	r.subs[ch] = struct{}{}
	r.mu.Unlock()
	return ch
}

func (r *relay) unsubscribe(ch chan Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[ch]; ok {
		delete(r.subs, ch)
		close(ch)
	}
}

func (r *relay) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}
