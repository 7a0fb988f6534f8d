package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const logFlags = log.Ldate | log.Ltime | log.LUTC

// Logger bundles one stdlib logger per level. A run builds its own Logger and
// hands it to every component it constructs.
type Logger struct {
	Info  *log.Logger
	Error *log.Logger
	Debug *log.Logger
	Warn  *log.Logger

	out     io.Writer
	verbose bool
}

// New returns a Logger writing to w. Debug output is discarded unless verbose.
func New(w io.Writer, verbose bool) *Logger {
	debugOut := io.Discard
	if verbose {
		debugOut = w
	}
	return &Logger{
		Info:    log.New(w, "INFO: ", logFlags),
		Error:   log.New(w, "ERROR: ", logFlags),
		Debug:   log.New(debugOut, "DEBUG: ", logFlags|log.Lshortfile),
		Warn:    log.New(w, "WARN: ", logFlags),
		out:     w,
		verbose: verbose,
	}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, false)
}

// Tee returns a Logger writing to both the receiver's output and w.
func (l *Logger) Tee(w io.Writer) *Logger {
	return New(io.MultiWriter(l.out, w), l.verbose)
}

// RunFileName is the log file name of run runID started at start. The first
// eight characters of the ID keep runs started in the same second apart.
func RunFileName(start time.Time, runID string) string {
	if len(runID) > 8 {
		runID = runID[:8]
	}
	return fmt.Sprintf("shrink_%s_%s.log", start.Format("2006-01-02_15-04-05"), runID)
}

// OpenRunFile creates dir if needed and creates the log file of a run. It
// never opens a file another run already wrote.
func OpenRunFile(dir string, start time.Time, runID string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	path := filepath.Join(dir, RunFileName(start, runID))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// LineWriter adapts fn into an io.Writer. Each log entry arrives as one Write
// call; fn receives it without the trailing newline.
func LineWriter(fn func(line string)) io.Writer {
	return lineWriter(fn)
}

type lineWriter func(string)

func (fn lineWriter) Write(p []byte) (int, error) {
	fn(strings.TrimRight(string(p), "\r\n"))
	return len(p), nil
}
