package event

// Recorder keeps every event it receives
type Recorder struct {
	Events []Event

	// Fail, when set, is returned from OnEvent for matching types
	Fail     error
	FailOn   EventType
	tornDown bool
}

func (r *Recorder) OnEvent(_ *Bus, ev Event) error {
	r.Events = append(r.Events, ev)
	if r.Fail != nil && ev.Type == r.FailOn {
		return r.Fail
	}
	return nil
}

func (r *Recorder) Teardown() {
	r.tornDown = true
}

func (r *Recorder) TornDown() bool {
	return r.tornDown
}
