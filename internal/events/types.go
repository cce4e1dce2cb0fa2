package events

import (
	"time"
)

// Event is the base interface for all events.
type Event interface {
	EventType() string
	CaseName() string
}

// Topic constants
const (
	TopicCase  = "case"
	TopicBatch = "batch"
)

// Event type constants
const (
	EventTypeCaseStarted   = "case.started"
	EventTypeCaseAnalyzed  = "case.analyzed"
	EventTypeCaseRejected  = "case.rejected"
	EventTypeCaseFailed    = "case.failed"
	EventTypeBatchProgress = "batch.progress"
)

// CaseStartedEvent is published before a case file is read.
type CaseStartedEvent struct {
	RunID     string
	Case      string
	Timestamp time.Time
}

func (e CaseStartedEvent) EventType() string { return EventTypeCaseStarted }
func (e CaseStartedEvent) CaseName() string  { return e.Case }

// CaseAnalyzedEvent is published when a case was a DAG and has a schedule.
type CaseAnalyzedEvent struct {
	RunID        string
	Case         string
	Vertices     int
	CriticalPath int
	NumCritical  int
	Duration     time.Duration
	Timestamp    time.Time
}

func (e CaseAnalyzedEvent) EventType() string { return EventTypeCaseAnalyzed }
func (e CaseAnalyzedEvent) CaseName() string  { return e.Case }

// CaseRejectedEvent is published when a case graph contains a cycle.
type CaseRejectedEvent struct {
	RunID     string
	Case      string
	Cycle     []int
	Duration  time.Duration
	Timestamp time.Time
}

func (e CaseRejectedEvent) EventType() string { return EventTypeCaseRejected }
func (e CaseRejectedEvent) CaseName() string  { return e.Case }

// CaseFailedEvent is published when a case could not be read or analysed.
type CaseFailedEvent struct {
	RunID     string
	Case      string
	Err       error
	Duration  time.Duration
	Timestamp time.Time
}

func (e CaseFailedEvent) EventType() string { return EventTypeCaseFailed }
func (e CaseFailedEvent) CaseName() string  { return e.Case }

// BatchProgressEvent is published after every finished case.
type BatchProgressEvent struct {
	RunID     string
	Total     int
	Done      int
	Analyzed  int
	Rejected  int
	Failed    int
	Timestamp time.Time
}

func (e BatchProgressEvent) EventType() string { return EventTypeBatchProgress }
func (e BatchProgressEvent) CaseName() string  { return "" }
