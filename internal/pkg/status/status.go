package status

// Status represents transcription job status
type Status int

const (
	// Queued - job is created and waits for a worker
	Queued Status = iota + 1
	// Processing - job is owned by a worker
	Processing
	// Done - final state, outputs are available
	Done
	// Failed - final state, error message is available
	Failed
)

var (
	statusName = map[Status]string{Queued: "queued", Processing: "processing",
		Done: "done", Failed: "error"}
	nameStatus = map[string]Status{"queued": Queued, "processing": Processing,
		"done": Done, "error": Failed}
)

// Name returns status string used in job records and API responses
func Name(st Status) string {
	return statusName[st]
}

// From resolves status from its string value
func From(st string) Status {
	return nameStatus[st]
}

// Terminal returns true if no further transition is allowed from st
func Terminal(st Status) bool {
	return st == Done || st == Failed
}

// CanTransition returns true if a job may move from one status to another.
// Statuses only progress forward, terminal states never change.
func CanTransition(from, to Status) bool {
	if Terminal(from) {
		return false
	}
	switch from {
	case Queued:
		return to == Processing
	case Processing:
		return Terminal(to)
	}
	return false
}
