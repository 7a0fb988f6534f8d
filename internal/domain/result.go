package domain

import "time"

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// ProcessingResult is the outcome of a single file. It only lives for the
// duration of a run.
type ProcessingResult struct {
	Path        string
	RelPath     string
	DestPath    string
	Class       MediaClass
	Outcome     Outcome
	Reason      string
	InputBytes  int64
	OutputBytes int64
	Duration    time.Duration
}

// Summary aggregates the results of a run.
type Summary struct {
	RunID       string
	Scanned     int
	Succeeded   int
	Skipped     int
	Failed      int
	InputBytes  int64
	OutputBytes int64
	Elapsed     time.Duration
	LogPath     string
	Err         error
}

func (s *Summary) Add(r ProcessingResult) {
	switch r.Outcome {
	case OutcomeSuccess:
		s.Succeeded++
		s.InputBytes += r.InputBytes
		s.OutputBytes += r.OutputBytes
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
}

func (s Summary) Completed() int {
	return s.Succeeded + s.Skipped + s.Failed
}

// SavedBytes is the size reduction over successful files. It can be negative.
func (s Summary) SavedBytes() int64 {
	return s.InputBytes - s.OutputBytes
}

func (s Summary) SavedPercent() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.SavedBytes()) / float64(s.InputBytes) * 100
}
