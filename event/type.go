package event

// EventType identifies a message on the bus
type EventType int

const (
	// EventNone is the zero value and never dispatched
	EventNone EventType = iota

	// --- Commands (inbound) ---

	// EventInit signals one-time startup
	// Trigger: host after wiring listeners | Consumer: game.Logic | Payload: nil
	EventInit

	// EventMapAnimated signals the background map is ready and the first hexagon may spawn
	// Trigger: renderer or host | Consumer: game.Logic | Payload: nil
	EventMapAnimated

	// EventRotateLeft turns the active hexagon counter-clockwise by 60°
	// Trigger: input | Consumer: game.Logic | Payload: nil
	EventRotateLeft

	// EventRotateRight turns the active hexagon clockwise by 60°
	// Trigger: input | Consumer: game.Logic | Payload: nil
	EventRotateRight

	// EventPlace commits the active hexagon and runs the chain walk
	// Trigger: input | Consumer: game.Logic | Payload: nil
	EventPlace

	// EventSwitch swaps the active and spare hexagons
	// Trigger: input | Consumer: game.Logic | Payload: nil
	EventSwitch

	// EventNewGame clears the board and restarts
	// Trigger: input | Consumer: game.Logic | Payload: nil
	EventNewGame

	// --- Notifications (outbound) ---

	// EventHexagonPlaced signals a committed placement
	// Trigger: game.Logic after place | Payload: nil
	EventHexagonPlaced

	// EventHexagonRotated signals the active hexagon turned
	// Trigger: game.Logic after rotate | Payload: nil
	EventHexagonRotated

	// EventHexagonSwitched signals active and spare swapped
	// Trigger: game.Logic after switch | Payload: nil
	EventHexagonSwitched

	// EventGameReset signals a new game started
	// Trigger: game.Logic after new-game | Payload: nil
	EventGameReset

	// EventGameFinished signals the path reached a finish marker
	// Trigger: chain walk | Payload: nil
	EventGameFinished

	// EventIncreaseScore adds a delta to the displayed score
	// Trigger: chain walk, one per hop plus one per dead end | Consumer: game.ScoreBoard | Payload: int
	EventIncreaseScore

	// EventScoreChanged carries the new total after an increase or reset
	// Trigger: game.ScoreBoard | Payload: int
	EventScoreChanged

	// EventMapReady signals the first active hexagon spawned and input is accepted
	// Trigger: game.Logic after map-animated | Payload: nil
	EventMapReady

	eventTypeCount
)

var typeNames = [eventTypeCount]string{
	EventNone:            "none",
	EventInit:            "init",
	EventMapAnimated:     "map-animated",
	EventRotateLeft:      "rotate-left",
	EventRotateRight:     "rotate-right",
	EventPlace:           "place",
	EventSwitch:          "switch",
	EventNewGame:         "new-game",
	EventHexagonPlaced:   "hexagon-placed",
	EventHexagonRotated:  "hexagon-rotated",
	EventHexagonSwitched: "hexagon-switched",
	EventGameReset:       "game-reset",
	EventGameFinished:    "game-finished",
	EventIncreaseScore:   "increase-score",
	EventScoreChanged:    "score-changed",
	EventMapReady:        "map-ready",
}

var nameToType = func() map[string]EventType {
	m := make(map[string]EventType, len(typeNames))
	for t, name := range typeNames {
		if EventType(t) == EventNone {
			continue
		}
		m[name] = EventType(t)
	}
	return m
}()

// String returns the wire name of the event type
func (t EventType) String() string {
	if t < 0 || t >= eventTypeCount {
		return "unknown"
	}
	return typeNames[t]
}

// ParseType returns the EventType for a wire name
func ParseType(name string) (EventType, bool) {
	t, ok := nameToType[name]
	return t, ok
}

// IsCommand reports whether the type is an inbound command
func (t EventType) IsCommand() bool {
	return t >= EventInit && t <= EventNewGame
}
