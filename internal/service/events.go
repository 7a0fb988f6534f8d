package service

import "github.com/bnema/shrink/internal/domain"

type EventType string

const (
	EventLog         EventType = "log"
	EventScanned     EventType = "scanned"
	EventFileStarted EventType = "file_started"
	EventFileDone    EventType = "file_done"
	EventSummary     EventType = "summary"
)

// Event is the only channel between the batch worker and whatever displays
// progress. Every event carries the current counters; LogLine, Result and
// Summary are set only for their event types.
type Event struct {
	Type           EventType
	FilesScanned   int
	FilesCompleted int
	CurrentFile    string
	LogLine        string
	Result         *domain.ProcessingResult
	Summary        *domain.Summary
}

// eventSink is owned by the worker goroutine, which is the channel's only
// writer. Sends block until the consumer reads.
type eventSink struct {
	ch        chan<- Event
	scanned   int
	completed int
	current   string
}

func (s *eventSink) send(ev Event) {
	ev.FilesScanned = s.scanned
	ev.FilesCompleted = s.completed
	if ev.CurrentFile == "" {
		ev.CurrentFile = s.current
	}
	s.ch <- ev
}

func (s *eventSink) logLine(line string) {
	s.send(Event{Type: EventLog, LogLine: line})
}

func (s *eventSink) scannedFiles(n int) {
	s.scanned = n
	s.send(Event{Type: EventScanned})
}

func (s *eventSink) fileStarted(rel string) {
	s.current = rel
	s.send(Event{Type: EventFileStarted})
}

func (s *eventSink) fileDone(res domain.ProcessingResult) {
	s.completed++
	s.send(Event{Type: EventFileDone, Result: &res})
	s.current = ""
}

func (s *eventSink) summary(sum domain.Summary) {
	s.current = ""
	s.send(Event{Type: EventSummary, Summary: &sum})
}
