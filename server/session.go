package server

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/entangled/config"
	"github.com/lixenwraith/entangled/event"
	"github.com/lixenwraith/entangled/game"
	"github.com/lixenwraith/entangled/store"
)

var (
	// ErrNoSession is returned for an unknown game id
	ErrNoSession = errors.New("no such game")
	// ErrRejected means the game ignores the command in its current state
	ErrRejected = errors.New("command not accepted")
)

// session is one game behind its own lock
type session struct {
	id      string
	created time.Time

	mu    sync.Mutex
	game  *game.Game
	relay *relay
}

func newSession(cfg config.Config, scores *store.Store, log zerolog.Logger) (*session, error) {
	id := uuid.NewString()
	log = log.With().Str("session", id).Logger()

	board, err := cfg.Board()
	if err != nil {
		return nil, err
	}
	opts := cfg.GameOptions(log)
	opts.AutoStart = true

	g, err := game.NewGame(board, opts)
	if err != nil {
		return nil, err
	}

	s := &session{id: id, created: time.Now(), game: g, relay: newRelay(log)}

	if scores != nil {
		fl := store.NewFinishListener(scores, id, func() store.Result {
			return store.Result{Score: g.Score.Total(), Placed: g.Logic.Board().PlacedCount()}
		})
		if _, err := g.Bus.Register(fl, ""); err != nil {
			return nil, err
		}
	}
	if _, err := g.Bus.Register(s.relay, game.TagScore); err != nil {
		return nil, err
	}

	if err := g.Start(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session) command(t event.EventType) (game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.game.Logic.Accepts(t) {
		return s.game.Snapshot(), fmt.Errorf("%w: %s in state %s", ErrRejected, t, s.game.Logic.State())
	}
	err := s.game.Command(t)
	return s.game.Snapshot(), err
}

func (s *session) snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

// close removes the relay first so subscribers see their channels closed
func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game.Bus.Remove(s.relay)
	s.game.Bus.Remove(s.game.Logic)
}

// registry maps ids to sessions
type registry struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*session)}
}

func (r *registry) add(s *session) {
	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()
}

func (r *registry) get(id string) (*session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

func (r *registry) remove(id string) (*session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	delete(r.sessions, id)
	return s, nil
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *registry) all() []*session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
