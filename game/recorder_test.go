package game

import (
	"github.com/lixenwraith/entangled/event"
)

// recorder captures every event delivered to it
type recorder struct {
	Events []event.Event
}

func (r *recorder) OnEvent(_ *event.Bus, ev event.Event) error {
	r.Events = append(r.Events, ev)
	return nil
}

func (r *recorder) Types() []event.EventType {
	out := make([]event.EventType, len(r.Events))
	for i, ev := range r.Events {
		out[i] = ev.Type
	}
	return out
}

// IntPayloads returns the integer payloads of one type in order
func (r *recorder) IntPayloads(t event.EventType) []int {
	var out []int
	for _, ev := range r.Events {
		if ev.Type != t {
			continue
		}
		if v, ok := ev.IntPayload(); ok {
			out = append(out, v)
		}
	}
	return out
}

func (r *recorder) Reset() {
	r.Events = r.Events[:0]
}
