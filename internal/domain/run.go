package domain

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunRecord is the persisted summary of one batch run.
type RunRecord struct {
	ID          string
	SourceDir   string
	DestDir     string
	Settings    EncodeSettings
	LogPath     string
	Status      RunStatus
	Scanned     int
	Succeeded   int
	Skipped     int
	Failed      int
	InputBytes  int64
	OutputBytes int64
	Error       string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Finish copies the summary counters into the record and stamps it.
func (r *RunRecord) Finish(s Summary, at time.Time) {
	r.Scanned = s.Scanned
	r.Succeeded = s.Succeeded
	r.Skipped = s.Skipped
	r.Failed = s.Failed
	r.InputBytes = s.InputBytes
	r.OutputBytes = s.OutputBytes
	r.FinishedAt = at
	r.Status = RunStatusCompleted
	if s.Err != nil {
		r.Status = RunStatusFailed
		r.Error = s.Err.Error()
	}
}
