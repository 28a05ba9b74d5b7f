package event

import (
	"errors"
	"fmt"
)

// ErrIDAssigned is returned when registering a listener that already holds an id
var ErrIDAssigned = errors.New("listener id already assigned")

// Listener receives events from the bus
// Implementations must be comparable (pointer receivers) so the bus can identify them
type Listener interface {
	// OnEvent handles a single event; a non-nil error aborts the remaining delivery
	OnEvent(bus *Bus, ev Event) error
}

// Teardowner is implemented by listeners that release resources on removal
type Teardowner interface {
	Teardown()
}

type entry struct {
	id       ListenerID
	tag      Tag
	listener Listener
}

// Bus dispatches events synchronously to registered listeners
//
// Delivery rules:
//   - Listeners are visited newest-registered first
//   - ByID stops after the first match; ByTag and Broadcast visit every match
//   - Dispatch walks a snapshot, so listeners may register or remove others mid-delivery;
//     a listener removed during dispatch receives nothing further
//
// Not safe for concurrent use; callers serialize access
type Bus struct {
	entries []entry
	live    map[ListenerID]struct{}
	nextID  ListenerID
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{live: make(map[ListenerID]struct{})}
}

// Register assigns the next id to l and subscribes it under tag
func (b *Bus) Register(l Listener, tag Tag) (ListenerID, error) {
	if l == nil {
		return 0, errors.New("nil listener")
	}
	if id, ok := b.ID(l); ok {
		return 0, fmt.Errorf("%w: %d", ErrIDAssigned, id)
	}

	b.nextID++
	b.entries = append(b.entries, entry{id: b.nextID, tag: tag, listener: l})
	b.live[b.nextID] = struct{}{}
	return b.nextID, nil
}

// Remove tears l down and unsubscribes it
// Returns false for nil or unregistered listeners
func (b *Bus) Remove(l Listener) bool {
	if l == nil {
		return false
	}
	for i := len(b.entries) - 1; i >= 0; i-- {
		if b.entries[i].listener != l {
			continue
		}
		if td, ok := l.(Teardowner); ok {
			td.Teardown()
		}
		delete(b.live, b.entries[i].id)
		b.entries = append(b.entries[:i], b.entries[i+1:]...)
		return true
	}
	return false
}

// ID returns the id assigned to l
func (b *Bus) ID(l Listener) (ListenerID, bool) {
	for _, e := range b.entries {
		if e.listener == l {
			return e.id, true
		}
	}
	return 0, false
}

// Len returns the number of registered listeners
func (b *Bus) Len() int {
	return len(b.entries)
}

// Send delivers ev according to its targeting
// Delivery stops at the first listener error, which is returned wrapped with the listener id
// Sending to an id or tag without listeners is a no-op
func (b *Bus) Send(ev Event) error {
	snapshot := make([]entry, len(b.entries))
	copy(snapshot, b.entries)

	for i := len(snapshot) - 1; i >= 0; i-- {
		e := snapshot[i]
		if _, ok := b.live[e.id]; !ok {
			continue
		}

		switch ev.Targeting {
		case ByID:
			if e.id != ev.TargetID {
				continue
			}
			return b.deliver(e, ev)
		case ByTag:
			if e.tag != ev.TargetTag {
				continue
			}
		}

		if err := b.deliver(e, ev); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bus) deliver(e entry, ev Event) error {
	if err := e.listener.OnEvent(b, ev); err != nil {
		return fmt.Errorf("listener %d handling %s: %w", e.id, ev.Type, err)
	}
	return nil
}
