package history

import "time"

// Status classifies a recorded conversion outcome.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Record is one conversion outcome row.
type Record struct {
	ID          int64
	RunID       string
	InputPath   string
	OutputPath  string
	InputExt    string
	OutputExt   string
	Status      Status
	ErrorKind   string
	ErrorDetail string
	Duration    time.Duration
	CreatedAt   time.Time
}
