package render

import (
	"fmt"

	"github.com/lixenwraith/entangled/event"
)

// EventLog keeps the most recent outbound events for the side panel
// Register it under the score tag to also see score increases
type EventLog struct {
	size    int
	entries []string
}

// NewEventLog creates a log holding at most size entries
func NewEventLog(size int) *EventLog {
	return &EventLog{size: size}
}

func (e *EventLog) OnEvent(_ *event.Bus, ev event.Event) error {
	if ev.Type.IsCommand() || ev.Type == event.EventScoreChanged {
		return nil
	}

	entry := ev.Type.String()
	if v, ok := ev.IntPayload(); ok {
		entry = fmt.Sprintf("%s %d", entry, v)
	}
	e.entries = append(e.entries, entry)
	if len(e.entries) > e.size {
		e.entries = e.entries[len(e.entries)-e.size:]
	}
	return nil
}

// Entries returns the log, oldest first
func (e *EventLog) Entries() []string {
	return e.entries
}
