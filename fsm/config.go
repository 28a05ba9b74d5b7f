package fsm

// RootConfig is the top-level TOML layout of a machine
type RootConfig struct {
	Initial string                  `toml:"initial"`
	States  map[string]*StateConfig `toml:"states"`
}

// StateConfig describes a single state
type StateConfig struct {
	OnEnter     []string           `toml:"on_enter"`
	OnExit      []string           `toml:"on_exit"`
	Transitions []TransitionConfig `toml:"transitions"`
}

// TransitionConfig describes one transition
type TransitionConfig struct {
	Trigger string   `toml:"trigger"` // Event wire name
	Target  string   `toml:"target"`  // Empty = internal transition
	Guard   string   `toml:"guard"`   // Registered guard name
	Actions []string `toml:"actions"` // Registered action names, run in order
}
