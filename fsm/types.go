package fsm

import "github.com/lixenwraith/entangled/event"

// StateID is a unique identifier for a state
type StateID int

// StateNone is the zero state; as a transition target it means "stay" (internal transition)
const StateNone StateID = 0

// Machine is a flat finite state machine driven by bus event types
// T is the context passed to guards and actions (e.g. *game.Logic)
// Not safe for concurrent use
type Machine[T any] struct {
	// Graph data, immutable after load
	states  map[StateID]*State[T]
	byName  map[string]StateID
	initial StateID

	// Runtime
	current     StateID
	initialized bool

	// Dependency injection
	guardReg  map[string]GuardFunc[T]
	actionReg map[string]ActionFunc[T]
}

// State is a node in the graph
type State[T any] struct {
	ID   StateID
	Name string

	OnEnter []Action[T]
	OnExit  []Action[T]

	// Evaluated in declaration order, first passing guard wins
	Transitions []Transition[T]
}

// Transition links a state to a target on a trigger event
type Transition[T any] struct {
	Trigger event.EventType
	Target  StateID      // StateNone = internal, actions run without exit/enter
	Guard   GuardFunc[T] // nil = always true
	Actions []Action[T]
}

// Action is a named side effect
type Action[T any] struct {
	Name string
	Func ActionFunc[T]
}

// GuardFunc returns true if the transition may fire
type GuardFunc[T any] func(ctx T) bool

// ActionFunc executes a side effect; an error aborts the remaining actions and the state change
type ActionFunc[T any] func(ctx T, ev event.Event) error
