package scheduler

// Attributes is the schedule record of one task, addressed by vertex index.
type Attributes struct {
	Duration int // Task length
	ES       int // Earliest start
	EF       int // Earliest finish = ES + Duration
	LS       int // Latest start = LF - Duration
	LF       int // Latest finish that does not delay the project
	Slack    int // LF - EF
}

// Critical reports whether the task has no scheduling room.
func (a Attributes) Critical() bool {
	return a.Slack == 0
}

// state is the lifecycle of an analyzer.
type state int

const (
	stateConstructed state = iota // Attribute store allocated
	statePrimed                   // Durations set
	stateAnalyzed                 // Both passes done
	stateRejected                 // Graph has a cycle
)

func (s state) String() string {
	switch s {
	case stateConstructed:
		return "constructed"
	case statePrimed:
		return "primed"
	case stateAnalyzed:
		return "analyzed"
	case stateRejected:
		return "rejected"
	}
	return "unknown"
}
