package fsm

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/entangled/event"
)

var (
	ErrNotInitialized = errors.New("state machine not initialized")
	ErrUnknownState   = errors.New("unknown state")
)

// NewMachine creates an empty machine
func NewMachine[T any]() *Machine[T] {
	return &Machine[T]{
		states:    make(map[StateID]*State[T]),
		byName:    make(map[string]StateID),
		guardReg:  make(map[string]GuardFunc[T]),
		actionReg: make(map[string]ActionFunc[T]),
	}
}

// RegisterGuard adds a predicate to the registry
func (m *Machine[T]) RegisterGuard(name string, fn GuardFunc[T]) {
	m.guardReg[name] = fn
}

// RegisterAction adds a side effect to the registry
func (m *Machine[T]) RegisterAction(name string, fn ActionFunc[T]) {
	m.actionReg[name] = fn
}

// Init enters the initial state, running its OnEnter actions
func (m *Machine[T]) Init(ctx T) error {
	if _, ok := m.states[m.initial]; !ok {
		return fmt.Errorf("%w: initial state %d", ErrUnknownState, m.initial)
	}
	m.current = m.initial
	m.initialized = true
	return m.run(ctx, m.states[m.current].OnEnter, event.Event{})
}

// CurrentName returns the name of the active state
func (m *Machine[T]) CurrentName() string {
	if s, ok := m.states[m.current]; ok {
		return s.Name
	}
	return ""
}

// Is reports whether the active state has the given name
func (m *Machine[T]) Is(name string) bool {
	return m.CurrentName() == name
}

// Accepts reports whether ev would fire a transition from the active state
func (m *Machine[T]) Accepts(ctx T, et event.EventType) bool {
	_, ok := m.match(ctx, et)
	return ok
}

// Fire routes ev through the active state
// Returns false when no transition matched; the event is then ignored
// An action may move the machine re-entrantly by firing another event; that state is kept
func (m *Machine[T]) Fire(ctx T, ev event.Event) (bool, error) {
	if !m.initialized {
		return false, ErrNotInitialized
	}

	trans, ok := m.match(ctx, ev.Type)
	if !ok {
		return false, nil
	}

	source := m.current
	if err := m.run(ctx, trans.Actions, ev); err != nil {
		return true, err
	}

	// Internal transition, or an action already moved the machine elsewhere
	if trans.Target == StateNone || m.current != source {
		return true, nil
	}
	return true, m.transition(ctx, trans.Target, ev)
}

func (m *Machine[T]) match(ctx T, et event.EventType) (*Transition[T], bool) {
	state, ok := m.states[m.current]
	if !ok {
		return nil, false
	}
	for i := range state.Transitions {
		t := &state.Transitions[i]
		if t.Trigger != et {
			continue
		}
		if t.Guard == nil || t.Guard(ctx) {
			return t, true
		}
	}
	return nil, false
}

func (m *Machine[T]) transition(ctx T, target StateID, ev event.Event) error {
	next, ok := m.states[target]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownState, target)
	}
	if target == m.current {
		return nil
	}

	if err := m.run(ctx, m.states[m.current].OnExit, ev); err != nil {
		return err
	}
	m.current = target
	return m.run(ctx, next.OnEnter, ev)
}

func (m *Machine[T]) run(ctx T, actions []Action[T], ev event.Event) error {
	for _, a := range actions {
		if err := a.Func(ctx, ev); err != nil {
			return fmt.Errorf("action %s: %w", a.Name, err)
		}
	}
	return nil
}
