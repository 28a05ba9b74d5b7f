package server

import "github.com/lixenwraith/entangled/event"

func eventFor(name string) event.Event {
	t, _ := event.ParseType(name)
	return event.ToAll(t, 0, nil)
}
