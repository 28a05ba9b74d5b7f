package event

// ListenerID is assigned on registration, starting at 1; 0 means unregistered or the host
type ListenerID int

// Tag groups listeners for ByTag delivery
type Tag string

// Targeting selects which listeners receive an event
type Targeting uint8

const (
	ByID      Targeting = iota // First listener with TargetID
	ByTag                      // Every listener registered under TargetTag
	Broadcast                  // Every listener
)

func (t Targeting) String() string {
	switch t {
	case ByID:
		return "id"
	case ByTag:
		return "tag"
	case Broadcast:
		return "all"
	default:
		return "unknown"
	}
}

// Event is a single message on the bus
type Event struct {
	Type      EventType
	Sender    ListenerID
	Targeting Targeting
	TargetID  ListenerID
	TargetTag Tag
	Payload   any
}

// ToID addresses a single listener
func ToID(target ListenerID, t EventType, sender ListenerID, payload any) Event {
	return Event{Type: t, Sender: sender, Targeting: ByID, TargetID: target, Payload: payload}
}

// ToTag addresses every listener carrying tag
func ToTag(tag Tag, t EventType, sender ListenerID, payload any) Event {
	return Event{Type: t, Sender: sender, Targeting: ByTag, TargetTag: tag, Payload: payload}
}

// ToAll addresses every listener
func ToAll(t EventType, sender ListenerID, payload any) Event {
	return Event{Type: t, Sender: sender, Targeting: Broadcast, Payload: payload}
}

// IntPayload extracts an integer payload
func (e Event) IntPayload() (int, bool) {
	v, ok := e.Payload.(int)
	return v, ok
}
