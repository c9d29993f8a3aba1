package types

// RunStatus is the state of a merge run.
type RunStatus int

const (
	Idle RunStatus = iota
	Validating
	Converting
	Finalizing
	Succeeded
	Failed
)

func (s RunStatus) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Converting:
		return "converting"
	case Finalizing:
		return "finalizing"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Busy reports whether a run in this state is still executing.
func (s RunStatus) Busy() bool {
	return s == Validating || s == Converting || s == Finalizing
}

// MergeRun is a snapshot of the orchestrator state.
type MergeRun struct {
	Status      RunStatus
	CurrentFile int // index in the validated batch, -1 when not converting
	Percent     int
	Message     string
	Filename    string // set once Succeeded
	Err         string // set once Failed
}

// Artifact is a finalized output document.
type Artifact struct {
	Bytes    []byte
	Filename string
}
