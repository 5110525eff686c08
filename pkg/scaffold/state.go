package scaffold

// State tracks the forward-only progress of one run. Failure halts the run at
// its current state; completed steps are never rolled back.
type State int

const (
	StateStart State = iota
	StateCreated
	StateParsed
	StateAugmented
	StateHarnessWritten
	StateManifestWritten
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateCreated:
		return "created"
	case StateParsed:
		return "parsed"
	case StateAugmented:
		return "augmented"
	case StateHarnessWritten:
		return "harness-written"
	case StateManifestWritten:
		return "manifest-written"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}

	return "unknown"
}
