package game

import (
	"github.com/rs/zerolog"

	"github.com/lixenwraith/entangled/event"
)

// ScoreBoard sums score increases and broadcasts the running total
// Registered under TagScore so targeted increase-score events reach it
type ScoreBoard struct {
	id    event.ListenerID
	total int
	log   zerolog.Logger
}

// NewScoreBoard registers a score board on bus
func NewScoreBoard(bus *event.Bus, log zerolog.Logger) (*ScoreBoard, error) {
	s := &ScoreBoard{log: log}
	id, err := bus.Register(s, TagScore)
	if err != nil {
		return nil, err
	}
	s.id = id
	return s, nil
}

// Total returns the current score
func (s *ScoreBoard) Total() int {
	return s.total
}

// OnEvent sums increase-score deltas and zeroes on game-reset, broadcasting the new total either way
func (s *ScoreBoard) OnEvent(bus *event.Bus, ev event.Event) error {
	switch ev.Type {
	case event.EventIncreaseScore:
		delta, ok := ev.IntPayload()
		if !ok {
			s.log.Warn().Interface("payload", ev.Payload).Msg("Score increase without integer payload")
			return nil
		}
		s.total += delta
	case event.EventGameReset:
		s.total = 0
	default:
		return nil
	}
	return bus.Send(event.ToAll(event.EventScoreChanged, s.id, s.total))
}

// FinishedDisplay tracks whether the finished banner is shown
type FinishedDisplay struct {
	visible bool
}

// NewFinishedDisplay registers a finished display on bus under TagFinished
func NewFinishedDisplay(bus *event.Bus) (*FinishedDisplay, error) {
	f := &FinishedDisplay{}
	if _, err := bus.Register(f, TagFinished); err != nil {
		return nil, err
	}
	return f, nil
}

// Visible reports whether the banner is shown
func (f *FinishedDisplay) Visible() bool {
	return f.visible
}

// OnEvent shows the banner on game-finished and hides it on game-reset
func (f *FinishedDisplay) OnEvent(_ *event.Bus, ev event.Event) error {
	switch ev.Type {
	case event.EventGameFinished:
		f.visible = true
	case event.EventGameReset:
		f.visible = false
	}
	return nil
}
