package display

const (
	// LoadingText is shown until the fetch settles.
	LoadingText = "Loading..."
	// ErrorText replaces the message when the fetch fails for any reason.
	ErrorText = "Failed to connect to backend"
)

// Phase is the position of a Component in its fetch lifecycle.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseLoaded
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen from p.
func (p Phase) Terminal() bool {
	return p == PhaseLoaded || p == PhaseErrored
}

// State is the renderable snapshot of a Component.
//
// Error is non-empty only in PhaseErrored and takes precedence over Message.
type State struct {
	Phase   Phase
	Message string
	Error   string
}

// InitialState returns the state every Component starts in.
func InitialState() State {
	return State{Phase: PhaseLoading, Message: LoadingText}
}

// Failed reports whether the error text should be rendered instead of the message.
func (s State) Failed() bool {
	return s.Error != ""
}

func loadedState(message string) State {
	return State{Phase: PhaseLoaded, Message: message}
}

func erroredState() State {
	return State{Phase: PhaseErrored, Message: LoadingText, Error: ErrorText}
}
