package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimestampTriple is the created/modified/accessed instants of a file, in UTC.
type TimestampTriple struct {
	Created  time.Time
	Modified time.Time
	Accessed time.Time
}

func (t TimestampTriple) UTC() TimestampTriple {
	return TimestampTriple{
		Created:  t.Created.UTC(),
		Modified: t.Modified.UTC(),
		Accessed: t.Accessed.UTC(),
	}
}

// ResolveTimestamps applies the earliest-date policy. With useEarliest unset
// the filesystem triple is returned unchanged. Otherwise Created becomes the
// minimum of the three filesystem instants and the embedded one, if any.
// Modified and Accessed are never altered.
func ResolveTimestamps(fs TimestampTriple, embedded *time.Time, useEarliest bool) TimestampTriple {
	fs = fs.UTC()
	if !useEarliest {
		return fs
	}

	earliest := fs.Created
	for _, c := range []time.Time{fs.Modified, fs.Accessed} {
		if c.Before(earliest) {
			earliest = c
		}
	}
	if embedded != nil && !embedded.IsZero() && embedded.Before(earliest) {
		earliest = embedded.UTC()
	}

	fs.Created = earliest
	return fs
}

const ExifDateTimeLayout = "2006:01:02 15:04:05"

var containerTimeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// ParseContainerTime parses a container creation_time tag. Fractional seconds
// are dropped; a value without offset is taken as UTC.
func ParseContainerTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrNoCreationTime
	}
	s = stripFraction(s)
	for _, layout := range containerTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised creation_time %q", s)
}

// stripFraction removes ".123456" between the seconds and an optional zone suffix.
func stripFraction(s string) string {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s
	}
	end := dot + 1
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:dot] + s[end:]
}

// ParseExifDateTime parses an EXIF date string, which carries no zone, as
// wall-clock time in loc.
func ParseExifDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "\x00")
	if s == "" {
		return time.Time{}, ErrNoCreationTime
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(ExifDateTimeLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse exif date %q: %w", s, err)
	}
	return t.UTC(), nil
}
