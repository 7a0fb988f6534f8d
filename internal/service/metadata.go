package service

import (
	"context"
	"time"

	"github.com/bnema/shrink/internal/domain"
	"github.com/bnema/shrink/internal/infrastructure/logger"
	"github.com/bnema/shrink/internal/port"
)

// MetadataExtractor reads the creation instant recorded inside a media file:
// the container creation_time for videos, the EXIF date for images.
type MetadataExtractor struct {
	prober port.MediaProber
	exif   port.ExifReader
	loc    *time.Location
	log    *logger.Logger
}

// NewMetadataExtractor returns an extractor. EXIF dates carry no zone and are
// read as wall-clock time in loc (time.Local when nil).
func NewMetadataExtractor(prober port.MediaProber, exif port.ExifReader, loc *time.Location, log *logger.Logger) *MetadataExtractor {
	if loc == nil {
		loc = time.Local
	}
	return &MetadataExtractor{prober: prober, exif: exif, loc: loc, log: log}
}

// CreationInstant returns the embedded creation instant in UTC. Any failure
// is logged as a warning and reported as no value.
func (m *MetadataExtractor) CreationInstant(ctx context.Context, path string, class domain.MediaClass) (time.Time, bool) {
	t, err := m.creationInstant(ctx, path, class)
	if err != nil {
		m.log.Warn.Printf("Could not read embedded date: %v", err)
		return time.Time{}, false
	}
	return t, true
}

func (m *MetadataExtractor) creationInstant(ctx context.Context, path string, class domain.MediaClass) (time.Time, error) {
	safePath := logger.SanitizeForLog(path)

	switch class {
	case domain.ClassVideo:
		probe, err := m.prober.ProbeFormat(ctx, path)
		if err != nil {
			return time.Time{}, &domain.MetadataReadError{Path: safePath, Err: err}
		}
		t, err := probe.CreationTime()
		if err != nil {
			return time.Time{}, &domain.MetadataReadError{Path: safePath, Err: err}
		}
		return t, nil

	case domain.ClassImage:
		raw, err := m.exif.DateTaken(path)
		if err != nil {
			return time.Time{}, &domain.MetadataReadError{Path: safePath, Err: err}
		}
		t, err := domain.ParseExifDateTime(raw, m.loc)
		if err != nil {
			return time.Time{}, &domain.MetadataReadError{Path: safePath, Err: err}
		}
		return t, nil
	}

	return time.Time{}, &domain.MetadataReadError{Path: safePath, Err: domain.ErrNoCreationTime}
}
