package game

import (
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/entangled/chain"
	"github.com/lixenwraith/entangled/event"
	"github.com/lixenwraith/entangled/fsm"
	"github.com/lixenwraith/entangled/geometry"
	"github.com/lixenwraith/entangled/hexagon"
	"github.com/lixenwraith/entangled/tilemap"
)

// Listener tags
const (
	TagLogic    event.Tag = "game-logic"
	TagScore    event.Tag = "score-display"
	TagFinished event.Tag = "finished-display"
)

// State names of the game flow
const (
	StateLoading  = "loading"
	StateAwaiting = "awaiting"
	StateFinished = "finished"
)

// ErrInvalidOptions is returned by New for options or a board the game cannot run on
var ErrInvalidOptions = errors.New("invalid game options")

//go:embed states.toml
var statesTOML string

// Logic owns the game flow: active and spare hexagons, placements and the chain walk
// Commands arrive as bus events and are validated against the state machine; events
// the current state does not accept are ignored
// Not safe for concurrent use
type Logic struct {
	bus     *event.Bus
	id      event.ListenerID
	board   *tilemap.Map
	walker  *chain.Walker
	pool    *hexagon.NumberPool
	machine *fsm.Machine[*Logic]
	opts    Options
	log     zerolog.Logger

	initialized bool
	active      *hexagon.Hexagon
	spare       *hexagon.Hexagon
	entry       int
	preview     geometry.Cell
	hasPreview  bool
}

// New creates the logic listener and registers it on bus under TagLogic
func New(bus *event.Bus, board *tilemap.Map, opts Options) (*Logic, error) {
	if err := opts.validate(board); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	l := &Logic{
		bus:     bus,
		board:   board,
		walker:  chain.NewWalker(board),
		pool:    hexagon.NewSeededPool(opts.PoolSize, seed),
		machine: fsm.NewMachine[*Logic](),
		opts:    opts,
		log:     opts.Logger.With().Str("component", "game").Logger(),
		entry:   opts.StartEntry,
	}

	l.machine.RegisterGuard("initialized", func(l *Logic) bool { return l.initialized })
	l.machine.RegisterAction("init", (*Logic).onInit)
	l.machine.RegisterAction("start", (*Logic).onStart)
	l.machine.RegisterAction("rotate-left", (*Logic).onRotateLeft)
	l.machine.RegisterAction("rotate-right", (*Logic).onRotateRight)
	l.machine.RegisterAction("place", (*Logic).onPlace)
	l.machine.RegisterAction("switch", (*Logic).onSwitch)
	l.machine.RegisterAction("reset", (*Logic).onReset)
	l.machine.RegisterAction("finish", (*Logic).onFinish)

	if err := l.machine.LoadTOML(statesTOML); err != nil {
		return nil, fmt.Errorf("load game states: %w", err)
	}
	if err := l.machine.Init(l); err != nil {
		return nil, err
	}

	id, err := bus.Register(l, TagLogic)
	if err != nil {
		return nil, err
	}
	l.id = id
	return l, nil
}

// OnEvent routes an event through the state machine
func (l *Logic) OnEvent(_ *event.Bus, ev event.Event) error {
	fired, err := l.machine.Fire(l, ev)
	if err != nil {
		l.log.Error().Err(err).Str("event", ev.Type.String()).Str("state", l.machine.CurrentName()).Msg("Command failed")
		return err
	}
	if !fired && ev.Type.IsCommand() {
		l.log.Debug().Str("event", ev.Type.String()).Str("state", l.machine.CurrentName()).Msg("Command ignored")
	}
	return nil
}

// Teardown drops placements when the listener leaves the bus
func (l *Logic) Teardown() {
	l.board.ClearPlaced()
	l.active, l.spare = nil, nil
}

// Handle sends a command addressed to this listener
func (l *Logic) Handle(t event.EventType) error {
	return l.bus.Send(event.ToID(l.id, t, 0, nil))
}

// Accepts reports whether command t would take effect in the current state
func (l *Logic) Accepts(t event.EventType) bool {
	return l.machine.Accepts(l, t)
}

// ID returns the bus id of the listener
func (l *Logic) ID() event.ListenerID {
	return l.id
}

// State returns the name of the current flow state
func (l *Logic) State() string {
	return l.machine.CurrentName()
}

// Finished reports whether the path reached a finish marker
func (l *Logic) Finished() bool {
	return l.machine.Is(StateFinished)
}

// Board returns the map with its placements
func (l *Logic) Board() *tilemap.Map {
	return l.board
}

// Active returns the hexagon under player control, nil before start
func (l *Logic) Active() *hexagon.Hexagon {
	return l.active
}

// Spare returns the reserve hexagon, nil before start
func (l *Logic) Spare() *hexagon.Hexagon {
	return l.spare
}

// Entry returns the entry point of the active hexagon
func (l *Logic) Entry() int {
	return l.entry
}

// Preview returns the cell the previewed path stops at
func (l *Logic) Preview() (geometry.Cell, bool) {
	return l.preview, l.hasPreview
}

// Multiplier returns the score multiplier carried into the next dead end
func (l *Logic) Multiplier() int {
	return l.walker.Multiplier()
}

// Path returns the steps of the last placement
func (l *Logic) Path() *chain.Path {
	return l.walker.Path()
}

func (l *Logic) broadcast(t event.EventType, payload any) error {
	return l.bus.Send(event.ToAll(t, l.id, payload))
}

// --- Actions ---

func (l *Logic) onInit(ev event.Event) error {
	l.initialized = true
	l.log.Info().Str("start", l.opts.Start.String()).Int("entry", l.opts.StartEntry).Msg("Game initialized")

	if l.opts.AutoStart {
		return l.bus.Send(event.ToID(l.id, event.EventMapAnimated, l.id, nil))
	}
	return nil
}

func (l *Logic) onStart(ev event.Event) error {
	if err := l.spawnBoard(); err != nil {
		return err
	}
	return l.broadcast(event.EventMapReady, nil)
}

func (l *Logic) onRotateLeft(ev event.Event) error {
	l.active.RotateLeft()
	return l.afterRotate()
}

func (l *Logic) onRotateRight(ev event.Event) error {
	l.active.RotateRight()
	return l.afterRotate()
}

func (l *Logic) afterRotate() error {
	if err := l.refreshPreview(); err != nil {
		return err
	}
	return l.broadcast(event.EventHexagonRotated, nil)
}

func (l *Logic) onPlace(ev event.Event) error {
	// A dry run catches cycles and off-map paths before anything is committed
	if _, err := l.walker.Preview(l.active, l.entry); err != nil {
		return fmt.Errorf("place at %s: %w", l.active.Position(), err)
	}
	if err := l.active.SetConnection(l.entry, hexagon.Active); err != nil {
		return err
	}

	res, err := l.walker.Place(l.active, l.entry, sink{l})
	if err != nil {
		return fmt.Errorf("place at %s: %w", l.active.Position(), err)
	}
	l.log.Debug().Int("hops", res.Hops).Bool("finished", res.Finished).Str("end", res.End.String()).Msg("Hexagon placed")

	if !l.Finished() {
		if err := l.refreshPreview(); err != nil {
			return err
		}
	}
	return l.broadcast(event.EventHexagonPlaced, nil)
}

func (l *Logic) onSwitch(ev event.Event) error {
	active, spare := l.active, l.spare
	activeCell, spareCell := active.Position(), spare.Position()

	spare.SetPosition(activeCell)
	spare.SetColor(hexagon.ColorActive)
	active.SetPosition(spareCell)
	active.SetColor(hexagon.ColorSpare)
	active.ChangeLineState(hexagon.Preview, hexagon.Inactive)

	if err := l.board.Place(activeCell, spare); err != nil {
		return err
	}
	l.active, l.spare = spare, active

	if err := l.refreshPreview(); err != nil {
		return err
	}
	return l.broadcast(event.EventHexagonSwitched, nil)
}

func (l *Logic) onReset(ev event.Event) error {
	l.board.ClearPlaced()
	l.walker.Reset()
	l.entry = l.opts.StartEntry
	l.hasPreview = false

	if err := l.spawnBoard(); err != nil {
		return err
	}
	l.log.Info().Msg("New game")
	return l.broadcast(event.EventGameReset, nil)
}

func (l *Logic) onFinish(ev event.Event) error {
	l.hasPreview = false
	l.log.Info().Int("placed", l.board.PlacedCount()).Msg("Game finished")
	return nil
}

// --- Board helpers ---

// spawnBoard creates a fresh active hexagon at the start cell and a fresh spare, then previews
func (l *Logic) spawnBoard() error {
	if err := l.spawnActive(l.opts.Start, l.opts.StartEntry); err != nil {
		return err
	}

	spare, err := hexagon.Generate(l.pool)
	if err != nil {
		return err
	}
	spare.SetPosition(l.opts.Spare)
	spare.SetColor(hexagon.ColorSpare)
	l.spare = spare

	return l.refreshPreview()
}

// spawnActive stores a new active hexagon at cell with entry marked as preview
// The previous active hexagon, if any, becomes a regular placement
func (l *Logic) spawnActive(cell geometry.Cell, entry int) error {
	h, err := hexagon.Generate(l.pool)
	if err != nil {
		return err
	}
	h.SetPosition(cell)
	h.SetColor(hexagon.ColorActive)
	if err := h.SetConnection(entry, hexagon.Preview); err != nil {
		return err
	}
	if err := l.board.Place(cell, h); err != nil {
		return err
	}

	if l.active != nil {
		l.active.SetColor(hexagon.ColorPlaced)
	}
	l.active = h
	l.entry = entry
	return nil
}

// refreshPreview clears preview marks on the board and projects the path from the active hexagon
func (l *Logic) refreshPreview() error {
	l.board.EachPlaced(func(_ geometry.Cell, h *hexagon.Hexagon) {
		h.ChangeLineState(hexagon.Preview, hexagon.Inactive)
	})
	if err := l.active.SetConnection(l.entry, hexagon.Preview); err != nil {
		return err
	}

	cell, err := l.walker.Preview(l.active, l.entry)
	if err != nil {
		return fmt.Errorf("preview from %s: %w", l.active.Position(), err)
	}
	l.preview, l.hasPreview = cell, true
	return nil
}

// sink adapts Logic to the walker's side effects
type sink struct {
	l *Logic
}

func (s sink) IncreaseScore(delta int) error {
	return s.l.bus.Send(event.ToTag(TagScore, event.EventIncreaseScore, s.l.id, delta))
}

func (s sink) Finish() error {
	return s.l.broadcast(event.EventGameFinished, nil)
}

func (s sink) Spawn(cell geometry.Cell, entry int) error {
	return s.l.spawnActive(cell, entry)
}
