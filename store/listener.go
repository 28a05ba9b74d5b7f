package store

import (
	"context"
	"time"

	"github.com/lixenwraith/entangled/event"
)

// recordTimeout bounds a single insert issued from the event loop
const recordTimeout = 5 * time.Second

// FinishListener records a game once its finishing placement completes
// game-finished arrives mid-walk, before the remaining hop scores, so the row is written on the
// following hexagon-placed
type FinishListener struct {
	store   *Store
	session string
	result  func() Result
	pending bool
}

// NewFinishListener creates a listener for one session; result is read when the row is written
func NewFinishListener(s *Store, session string, result func() Result) *FinishListener {
	return &FinishListener{store: s, session: session, result: result}
}

func (f *FinishListener) OnEvent(_ *event.Bus, ev event.Event) error {
	switch ev.Type {
	case event.EventGameFinished:
		f.pending = true
	case event.EventGameReset:
		f.pending = false
	case event.EventHexagonPlaced:
		if !f.pending {
			return nil
		}
		f.pending = false

		r := f.result()
		r.Session = f.session
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := f.store.Record(ctx, r); err != nil {
			// Storage trouble must not break the game
			f.store.log.Error().Err(err).Str("session", f.session).Msg("Failed to record score")
		}
	}
	return nil
}
