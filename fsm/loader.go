package fsm

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/entangled/event"
)

// LoadTOML decodes a machine definition and builds the graph
func (m *Machine[T]) LoadTOML(data string) error {
	var cfg RootConfig
	if _, err := toml.Decode(data, &cfg); err != nil {
		return fmt.Errorf("failed to decode FSM config: %w", err)
	}
	return m.Load(cfg)
}

// Load builds the graph from a decoded config
// Validates every reference (states, guards, actions, events); clears existing graph data first
func (m *Machine[T]) Load(cfg RootConfig) error {
	m.states = make(map[StateID]*State[T])
	m.byName = make(map[string]StateID)
	m.initial = StateNone
	m.current = StateNone
	m.initialized = false

	// Sort names for deterministic ids
	names := make([]string, 0, len(cfg.States))
	for name := range cfg.States {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m.AddState(name)
	}

	if !m.SetInitial(cfg.Initial) {
		return fmt.Errorf("%w: initial '%s'", ErrUnknownState, cfg.Initial)
	}

	for _, name := range names {
		sc := cfg.States[name]
		if sc == nil {
			continue
		}
		state := m.states[m.byName[name]]

		var err error
		if state.OnEnter, err = m.compileActions(sc.OnEnter); err != nil {
			return fmt.Errorf("state '%s' on_enter: %w", name, err)
		}
		if state.OnExit, err = m.compileActions(sc.OnExit); err != nil {
			return fmt.Errorf("state '%s' on_exit: %w", name, err)
		}

		for i, tc := range sc.Transitions {
			t, err := m.compileTransition(tc)
			if err != nil {
				return fmt.Errorf("state '%s' transition %d: %w", name, i, err)
			}
			m.AddTransition(state.ID, t)
		}
	}
	return nil
}

func (m *Machine[T]) compileTransition(tc TransitionConfig) (Transition[T], error) {
	var t Transition[T]

	et, ok := event.ParseType(tc.Trigger)
	if !ok {
		return t, fmt.Errorf("unknown trigger event '%s'", tc.Trigger)
	}
	t.Trigger = et

	if tc.Target != "" {
		id, ok := m.byName[tc.Target]
		if !ok {
			return t, fmt.Errorf("%w: target '%s'", ErrUnknownState, tc.Target)
		}
		t.Target = id
	}

	if tc.Guard != "" {
		g, ok := m.guardReg[tc.Guard]
		if !ok {
			return t, fmt.Errorf("unknown guard '%s'", tc.Guard)
		}
		t.Guard = g
	}

	actions, err := m.compileActions(tc.Actions)
	if err != nil {
		return t, err
	}
	t.Actions = actions
	return t, nil
}

func (m *Machine[T]) compileActions(names []string) ([]Action[T], error) {
	out := make([]Action[T], 0, len(names))
	for _, name := range names {
		fn, ok := m.actionReg[name]
		if !ok {
			return nil, fmt.Errorf("unknown action '%s'", name)
		}
		out = append(out, Action[T]{Name: name, Func: fn})
	}
	return out, nil
}
