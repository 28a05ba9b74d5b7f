package fsm

// AddState adds a named state and returns it for further configuration
// The first state added becomes the initial state unless SetInitial is called
func (m *Machine[T]) AddState(name string) *State[T] {
	if id, ok := m.byName[name]; ok {
		return m.states[id]
	}

	id := StateID(len(m.states) + 1)
	s := &State[T]{ID: id, Name: name}
	m.states[id] = s
	m.byName[name] = id
	if m.initial == StateNone {
		m.initial = id
	}
	return s
}

// SetInitial selects the state entered by Init
func (m *Machine[T]) SetInitial(name string) bool {
	id, ok := m.byName[name]
	if ok {
		m.initial = id
	}
	return ok
}

// AddTransition appends a transition to a state
func (m *Machine[T]) AddTransition(source StateID, t Transition[T]) {
	if s, ok := m.states[source]; ok {
		s.Transitions = append(s.Transitions, t)
	}
}
