package weather

// Phase tags which variant a ViewState holds.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ViewState is the result an orchestrator publishes. Only the fields of the
// current Phase are meaningful; constructors below zero everything else so a
// transition always replaces the whole value.
type ViewState struct {
	Phase    Phase
	CityName string
	Snapshot WeatherSnapshot
	Message  string
}

func Idle() ViewState    { return ViewState{Phase: PhaseIdle} }
func Loading() ViewState { return ViewState{Phase: PhaseLoading} }

func Loaded(cityName string, snapshot WeatherSnapshot) ViewState {
	return ViewState{Phase: PhaseLoaded, CityName: cityName, Snapshot: snapshot}
}

func Failed(message string) ViewState {
	return ViewState{Phase: PhaseFailed, Message: message}
}

// Equal compares two states. Loaded states are equal when their city names
// match; snapshot values are not compared.
func (s ViewState) Equal(other ViewState) bool {
	if s.Phase != other.Phase {
		return false
	}
	switch s.Phase {
	case PhaseLoaded:
		return s.CityName == other.CityName
	case PhaseFailed:
		return s.Message == other.Message
	default:
		return true
	}
}

func (s ViewState) IsLoading() bool { return s.Phase == PhaseLoading }
