package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrToolUnavailable = errors.New("required tool unavailable")
	ErrInvalidSettings = errors.New("invalid encode settings")
	ErrNoCreationTime  = errors.New("no embedded creation time")
)

// ScanIOError reports a directory entry the scanner could not inspect.
type ScanIOError struct {
	Path string
	Err  error
}

func (e *ScanIOError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Path, e.Err)
}

func (e *ScanIOError) Unwrap() error { return e.Err }

// MetadataReadError reports a failed probe or EXIF read.
type MetadataReadError struct {
	Path string
	Err  error
}

func (e *MetadataReadError) Error() string {
	return fmt.Sprintf("read metadata of %s: %v", e.Path, e.Err)
}

func (e *MetadataReadError) Unwrap() error { return e.Err }

// TimestampWriteError reports a failure to set timestamps on an output file.
type TimestampWriteError struct {
	Path  string
	Field string
	Err   error
}

func (e *TimestampWriteError) Error() string {
	return fmt.Sprintf("set %s time on %s: %v", e.Field, e.Path, e.Err)
}

func (e *TimestampWriteError) Unwrap() error { return e.Err }

// EncodeError is returned when a transcode fails. Stderr holds whatever the
// encoder printed, if it is a subprocess.
type EncodeError struct {
	Path   string
	Stderr string
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
