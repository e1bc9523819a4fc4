package pipeline

import (
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

type OutputStatus string

const (
	OutputCompleted OutputStatus = "completed"
	OutputError     OutputStatus = "error"
	OutputSample    OutputStatus = "sample"
)

// OutputRecord is the last result of a process. One per process id, overwritten on each run.
type OutputRecord struct {
	Content     string       `json:"content"`
	Status      OutputStatus `json:"status"`
	ProcessType string       `json:"processType"`
	ProcessID   string       `json:"processId"`
	Timestamp   string       `json:"timestamp"`
	Model       string       `json:"model,omitempty"`
}

// Timestamp formats t the way output records carry it (ISO-8601, UTC, millisecond precision).
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
