// Package server hosts independent game sessions over HTTP and relays their events over websockets
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/entangled/config"
	"github.com/lixenwraith/entangled/event"
	"github.com/lixenwraith/entangled/game"
	"github.com/lixenwraith/entangled/geometry"
	"github.com/lixenwraith/entangled/store"
)

const (
	requestTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Server bundles the router, session registry and optional score store
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	scores   *store.Store
	log      zerolog.Logger
	sessions *registry
	geometry *geometry.Hexagon
	upgrader websocket.Upgrader
}

// New builds a server; scores may be nil to run without persistence
func New(cfg config.Config, scores *store.Store, log zerolog.Logger) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		scores:   scores,
		log:      log.With().Str("component", "server").Logger(),
		sessions: newRegistry(),
		geometry: geometry.New(cfg.SideLength),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(requestLogger(s.log))

	// Websocket route stays outside the timeout group
	s.r.Get("/games/{id}/events", s.handleEvents)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))
		r.Use(jsonContentType)

		r.Get("/health", s.handleHealth)
		r.Get("/scores", s.handleScores)
		r.Post("/games", s.handleCreate)
		r.Get("/games/{id}", s.handleGet)
		r.Delete("/games/{id}", s.handleDelete)
		r.Post("/games/{id}/commands/{command}", s.handleCommand)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Handler exposes the router
func (s *Server) Handler() http.Handler {
	return s.r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("Listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, sess := range s.sessions.all() {
		sess.close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// --- middleware ---

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Str("request_id", chimw.GetReqID(r.Context())).
				Msg("Request")
		})
	}
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// layout gives pixel clients the measures needed to draw a snapshot
// Points are relative to a hexagon's origin before rotation; a line from a to b is drawn as a
// cubic curve with control points HelperPoints[a] and HelperPoints[b]
type layout struct {
	SideLength           float64                                       `json:"side_length"`
	DecorativeSideLength float64                                       `json:"decorative_side_length"`
	HexWidth             float64                                       `json:"hex_width"`
	HexHeight            float64                                       `json:"hex_height"`
	ConnectionPoints     [geometry.ConnectionPointCount]geometry.Point `json:"connection_points"`
	HelperPoints         [geometry.ConnectionPointCount]geometry.Point `json:"helper_points"`
}

type gameView struct {
	ID string `json:"id"`
	game.Snapshot
	Path   []geometry.Point `json:"path"`
	Layout layout           `json:"layout"`
}

func (s *Server) view(sess *session, snap game.Snapshot) gameView {
	sess.mu.Lock()
	path, err := sess.game.Logic.Path().Polyline(s.geometry)
	sess.mu.Unlock()
	if err != nil {
		s.log.Warn().Err(err).Str("session", sess.id).Msg("Path polyline unavailable")
	}
	if path == nil {
		path = []geometry.Point{}
	}
	return gameView{
		ID:       sess.id,
		Snapshot: snap,
		Path:     path,
		Layout: layout{
			SideLength:           s.cfg.SideLength,
			DecorativeSideLength: s.cfg.DecorativeSideLength,
			HexWidth:             s.geometry.RectWidth,
			HexHeight:            s.geometry.RectHeight,
			ConnectionPoints:     s.geometry.ConnectionPoints(),
			HelperPoints:         s.geometry.HelperPoints(),
		},
	}
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sess, err := s.sessions.get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return sess, true
}

// --- handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "games": s.sessions.len()})
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		writeJSON(w, http.StatusOK, []store.Result{})
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	top, err := s.scores.Top(r.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to read scores")
		writeError(w, http.StatusInternalServerError, "scores unavailable")
		return
	}
	writeJSON(w, http.StatusOK, top)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess, err := newSession(s.cfg, s.scores, s.log)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create game")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.sessions.add(sess)
	s.log.Info().Str("session", sess.id).Msg("Game created")
	writeJSON(w, http.StatusCreated, s.view(sess, sess.snapshot()))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.view(sess, sess.snapshot()))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.remove(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	sess.close()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	t, err := parseCommand(chi.URLParam(r, "command"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := sess.command(t)
	if errors.Is(err, ErrRejected) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("session", sess.id).Str("command", t.String()).Msg("Command failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.view(sess, snap))
}

var errUnknownCommand = errors.New("unknown command")

func parseCommand(name string) (event.EventType, error) {
	t, ok := event.ParseType(name)
	if !ok || !t.IsCommand() {
		return event.EventNone, errUnknownCommand
	}
	return t, nil
}
