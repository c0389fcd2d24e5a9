package orchestrator

// State is the process-wide mutable state, owned by the Orchestrator and
// only ever touched from the single event-loop goroutine.
type State struct {
	CurrentWorkspace  int
	PreviousWorkspace int

	// SavedWindows maps window address to original workspace id. Populated
	// only during startup migration and fully drained before the event
	// loop starts.
	SavedWindows map[string]int
}

func NewState() *State {
	return &State{
		SavedWindows: make(map[string]int),
	}
}
