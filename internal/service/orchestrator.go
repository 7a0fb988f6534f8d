package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/shrink/internal/domain"
	"github.com/bnema/shrink/internal/infrastructure/logger"
	"github.com/bnema/shrink/internal/port"
)

// stderrTailLines bounds how much encoder output is copied into the log.
const stderrTailLines = 20

type timestampApplier interface {
	Apply(ctx context.Context, src domain.SourceFile, destPath string, settings domain.EncodeSettings)
}

// Orchestrator transcodes one file at a time into the destination tree.
type Orchestrator struct {
	destRoot string
	settings domain.EncodeSettings
	video    port.VideoTranscoder
	prober   port.MediaProber
	images   port.ImageTranscoder
	stamps   timestampApplier
	log      *logger.Logger
}

func NewOrchestrator(
	destRoot string,
	settings domain.EncodeSettings,
	video port.VideoTranscoder,
	prober port.MediaProber,
	images port.ImageTranscoder,
	stamps timestampApplier,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		destRoot: destRoot,
		settings: settings,
		video:    video,
		prober:   prober,
		images:   images,
		stamps:   stamps,
		log:      log,
	}
}

// ProcessOne transcodes sf and, on success, copies its timestamps onto the
// output. It never returns an error; failures are reported in the result.
func (o *Orchestrator) ProcessOne(ctx context.Context, sf domain.SourceFile) domain.ProcessingResult {
	start := time.Now()
	res := domain.ProcessingResult{
		Path:       sf.AbsPath,
		RelPath:    sf.RelPath,
		DestPath:   sf.DestinationPath(o.destRoot),
		Class:      sf.Class,
		InputBytes: sf.Size,
	}

	switch sf.Class {
	case domain.ClassVideo:
		o.log.Info.Printf("Processing video: %s", logger.SanitizeForLog(sf.RelPath))
		o.run(ctx, sf, &res, o.encodeVideo)
	case domain.ClassImage:
		o.log.Info.Printf("Processing image: %s", logger.SanitizeForLog(sf.RelPath))
		o.run(ctx, sf, &res, o.encodeImage)
	default:
		res.Outcome = domain.OutcomeSkipped
		res.Reason = "unsupported media class"
	}

	res.Duration = time.Since(start)
	return res
}

type encodeFunc func(ctx context.Context, sf domain.SourceFile, out string) error

func (o *Orchestrator) run(ctx context.Context, sf domain.SourceFile, res *domain.ProcessingResult, encode encodeFunc) {
	dest := res.DestPath
	safeDest := logger.SanitizeForLog(dest)

	// The destination may have appeared since the scan; it is never replaced.
	if exists(dest) {
		o.log.Warn.Printf("Destination %s already exists, skipping", safeDest)
		res.Outcome = domain.OutcomeSkipped
		res.Reason = "destination already exists"
		return
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		o.log.Error.Printf("Failed to create directory for %s: %v", safeDest, err)
		res.Outcome = domain.OutcomeFailed
		res.Reason = err.Error()
		return
	}

	partial := partialPath(dest)
	// A leftover from an interrupted run carries our own marker name.
	_ = os.Remove(partial)

	if err := encode(ctx, sf, partial); err != nil {
		o.log.Error.Printf("Failed to process %s %s: %v", sf.Class, logger.SanitizeForLog(sf.RelPath), err)
		var encErr *domain.EncodeError
		if errors.As(err, &encErr) {
			o.logStderr(encErr.Stderr)
		}
		if rmErr := os.Remove(partial); rmErr == nil {
			o.log.Info.Printf("Removed partial output %s", logger.SanitizeForLog(partial))
		}
		res.Outcome = domain.OutcomeFailed
		res.Reason = err.Error()
		return
	}

	if err := publish(partial, dest); err != nil {
		_ = os.Remove(partial)
		if errors.Is(err, fs.ErrExist) {
			o.log.Warn.Printf("Destination %s appeared during encoding, skipping", safeDest)
			res.Outcome = domain.OutcomeSkipped
			res.Reason = "destination already exists"
			return
		}
		o.log.Error.Printf("Failed to move output into place at %s: %v", safeDest, err)
		res.Outcome = domain.OutcomeFailed
		res.Reason = err.Error()
		return
	}

	if fi, err := os.Stat(dest); err == nil {
		res.OutputBytes = fi.Size()
	}
	o.stamps.Apply(ctx, sf, dest, o.settings)
	res.Outcome = domain.OutcomeSuccess
	o.log.Info.Printf("Done: %s (%s -> %s)", logger.SanitizeForLog(sf.RelPath),
		domain.FormatSize(res.InputBytes), domain.FormatSize(res.OutputBytes))
}

// partialPath is where an output is written before it is published. The
// extension is kept so ffmpeg still picks the right muxer.
func partialPath(dest string) string {
	dir, name := filepath.Split(dest)
	ext := filepath.Ext(name)
	return filepath.Join(dir, "."+strings.TrimSuffix(name, ext)+".shrink-partial"+ext)
}

// publish moves a finished output to dest without ever replacing a file that
// is already there. The hard link fails atomically when dest exists; on
// filesystems without links it falls back to check then rename.
func publish(partial, dest string) error {
	err := os.Link(partial, dest)
	if err == nil {
		_ = os.Remove(partial)
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		return err
	}
	if exists(dest) {
		return &fs.PathError{Op: "publish", Path: dest, Err: fs.ErrExist}
	}
	return os.Rename(partial, dest)
}

func (o *Orchestrator) encodeVideo(ctx context.Context, sf domain.SourceFile, dest string) error {
	job := domain.VideoJob{
		Input:  sf.AbsPath,
		Output: dest,
		CRF:    o.settings.VideoCRF,
	}

	if target := o.settings.TargetHeight; !target.IsOriginal() {
		height, err := o.prober.VideoHeight(ctx, sf.AbsPath)
		switch {
		case err != nil:
			o.log.Warn.Printf("Could not read height of %s, keeping original resolution: %v", logger.SanitizeForLog(sf.RelPath), err)
		case height > int(target):
			job.ScaleHeight = int(target)
			o.log.Info.Printf("Downscaling from %dp to %s.", height, target)
		}
	}

	return o.video.EncodeVideo(ctx, job)
}

func (o *Orchestrator) encodeImage(_ context.Context, sf domain.SourceFile, dest string) error {
	err := o.images.EncodeImage(domain.ImageJob{
		Input:        sf.AbsPath,
		Output:       dest,
		MaxDimension: o.settings.ImageMaxDimensionPx,
		Quality:      o.settings.JPEGQuality,
	})
	if err != nil {
		return fmt.Errorf("image encode: %w", err)
	}
	return nil
}

func (o *Orchestrator) logStderr(stderr string) {
	lines := strings.Split(strings.TrimRight(stderr, "\n"), "\n")
	if len(lines) > stderrTailLines {
		lines = lines[len(lines)-stderrTailLines:]
	}
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			o.log.Error.Printf("  ffmpeg: %s", logger.SanitizeForLog(line))
		}
	}
}
