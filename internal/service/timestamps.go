package service

import (
	"context"
	"time"

	"github.com/bnema/shrink/internal/domain"
	"github.com/bnema/shrink/internal/infrastructure/logger"
	"github.com/bnema/shrink/internal/port"
)

type embeddedDateSource interface {
	CreationInstant(ctx context.Context, path string, class domain.MediaClass) (time.Time, bool)
}

// TimestampResolver copies the source timestamps onto an output, optionally
// pulling the creation instant back to the earliest date known for the file.
type TimestampResolver struct {
	times    port.FileTimes
	creation port.CreationTimeSetter
	dates    embeddedDateSource
	log      *logger.Logger
}

func NewTimestampResolver(times port.FileTimes, creation port.CreationTimeSetter, dates embeddedDateSource, log *logger.Logger) *TimestampResolver {
	return &TimestampResolver{times: times, creation: creation, dates: dates, log: log}
}

// Apply never fails: every problem is downgraded to a warning and the
// remaining steps are skipped.
func (r *TimestampResolver) Apply(ctx context.Context, src domain.SourceFile, destPath string, settings domain.EncodeSettings) {
	safeDest := logger.SanitizeForLog(destPath)

	fsTimes, err := r.times.Read(src.AbsPath)
	if err != nil {
		r.log.Warn.Printf("Could not copy timestamps to %s: %v", safeDest, err)
		return
	}

	var embedded *time.Time
	if settings.UseEarliestDate {
		if t, ok := r.dates.CreationInstant(ctx, src.AbsPath, src.Class); ok {
			embedded = &t
		}
	}

	final := domain.ResolveTimestamps(fsTimes, embedded, settings.UseEarliestDate)
	if settings.UseEarliestDate {
		r.log.Info.Printf("Using earliest date found: %s", final.Created.Format(time.RFC3339))
	}

	if err := r.times.SetTimes(destPath, final.Accessed, final.Modified); err != nil {
		r.log.Warn.Printf("Could not copy timestamps to %s: %v", safeDest, err)
		return
	}
	if err := r.creation.SetCreationTime(destPath, final.Created); err != nil {
		r.log.Warn.Printf("Could not set creation time on %s: %v", safeDest, err)
		return
	}
	r.log.Debug.Printf("Copied timestamps to %s", safeDest)
}
