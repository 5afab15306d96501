package conversation

// Store is the durable conversation state and transcript store. The
// orchestrator is its only writer, always under the per-sender guard.
type Store interface {
	State(sender string) (State, bool, error)
	PutState(state State) error
	Append(sender string, entry Entry) error
	// History returns the most recent limit entries in order.
	History(sender string, limit int) ([]Entry, error)
	ClearTranscript(sender string) error
}
