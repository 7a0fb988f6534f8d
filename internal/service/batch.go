package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bnema/shrink/internal/domain"
	"github.com/bnema/shrink/internal/infrastructure/logger"
	"github.com/bnema/shrink/internal/port"
)

const eventBuffer = 64

// Dependencies are the collaborators a BatchDriver hands to the components it
// builds for each run. Recorder and Metrics are optional.
type Dependencies struct {
	Tools    port.ToolChecker
	Video    port.VideoTranscoder
	Prober   port.MediaProber
	Images   port.ImageTranscoder
	Exif     port.ExifReader
	Times    port.FileTimes
	Creation port.CreationTimeSetter
	Recorder port.RunRecorder
	Metrics  port.BatchMetrics
}

type DriverOptions struct {
	// LogDir receives one log file per run. Empty disables the file.
	LogDir  string
	Verbose bool
	// ExifLocation is the zone EXIF wall-clock dates are read in.
	ExifLocation *time.Location
}

type RunRequest struct {
	SourceDir string
	DestDir   string
	Settings  domain.EncodeSettings
}

// BatchDriver runs the scan-then-transcode pipeline on a dedicated goroutine.
type BatchDriver struct {
	deps Dependencies
	opts DriverOptions
}

func NewBatchDriver(deps Dependencies, opts DriverOptions) *BatchDriver {
	return &BatchDriver{deps: deps, opts: opts}
}

// Start launches a run and returns its event stream. The stream ends with an
// EventSummary and is then closed. The caller must drain it: the worker blocks
// while the buffer is full. Cancelling ctx stops the run before the next
// file; a file already being encoded always finishes.
func (d *BatchDriver) Start(ctx context.Context, req RunRequest) <-chan Event {
	events := make(chan Event, eventBuffer)
	go func() {
		defer close(events)
		d.run(ctx, req, &eventSink{ch: events})
	}()
	return events
}

// Run is the blocking form of Start. onEvent, if set, sees every event.
func (d *BatchDriver) Run(ctx context.Context, req RunRequest, onEvent func(Event)) domain.Summary {
	var summary domain.Summary
	for ev := range d.Start(ctx, req) {
		if onEvent != nil {
			onEvent(ev)
		}
		if ev.Type == EventSummary && ev.Summary != nil {
			summary = *ev.Summary
		}
	}
	return summary
}

func (d *BatchDriver) run(ctx context.Context, req RunRequest, sink *eventSink) {
	start := time.Now()
	summary := domain.Summary{RunID: uuid.NewString()}

	log := logger.New(logger.LineWriter(sink.logLine), d.opts.Verbose)
	if d.opts.LogDir != "" {
		f, err := logger.OpenRunFile(d.opts.LogDir, start, summary.RunID)
		if err != nil {
			log.Warn.Printf("Continuing without a log file: %v", err)
		} else {
			defer func() { _ = f.Close() }()
			log = log.Tee(f)
			summary.LogPath = f.Name()
		}
	}

	record := &domain.RunRecord{
		ID:        summary.RunID,
		SourceDir: req.SourceDir,
		DestDir:   req.DestDir,
		Settings:  req.Settings,
		LogPath:   summary.LogPath,
		Status:    domain.RunStatusRunning,
		StartedAt: start,
	}
	if d.deps.Recorder != nil {
		if err := d.deps.Recorder.StartRun(ctx, record); err != nil {
			log.Warn.Printf("Could not record run start: %v", err)
		}
	}

	d.execute(ctx, req, log, sink, &summary)
	summary.Elapsed = time.Since(start)
	logSummary(log, summary)

	if d.deps.Recorder != nil {
		record.Finish(summary, time.Now())
		if err := d.deps.Recorder.FinishRun(context.WithoutCancel(ctx), record); err != nil {
			log.Warn.Printf("Could not record run result: %v", err)
		}
	}
	if d.deps.Metrics != nil {
		d.deps.Metrics.ObserveRun(summary)
		if err := d.deps.Metrics.Flush(); err != nil {
			log.Warn.Printf("Could not write metrics: %v", err)
		}
	}

	sink.summary(summary)
}

func (d *BatchDriver) execute(ctx context.Context, req RunRequest, log *logger.Logger, sink *eventSink, summary *domain.Summary) {
	s := req.Settings
	log.Info.Printf("Run %s started", summary.RunID)
	log.Info.Printf("Source: %s", logger.SanitizeForLog(req.SourceDir))
	log.Info.Printf("Destination: %s", logger.SanitizeForLog(req.DestDir))
	log.Info.Printf("Video: CRF %d (%s), resolution %s", s.VideoCRF, domain.CRFDescription(s.VideoCRF), s.TargetHeight)
	if s.ProcessImages {
		log.Info.Printf("Images: larger than %s, max %dpx, JPEG quality %d",
			domain.FormatSize(s.ImageMinSizeBytes), s.ImageMaxDimensionPx, s.JPEGQuality)
	} else {
		log.Info.Printf("Images: disabled")
	}
	log.Info.Printf("Use earliest date: %t", s.UseEarliestDate)

	if err := s.Validate(); err != nil {
		log.Error.Printf("%v", err)
		summary.Err = err
		return
	}
	if err := d.deps.Tools.CheckTools(ctx); err != nil {
		log.Error.Printf("%v. Install ffmpeg and make sure ffmpeg and ffprobe are on PATH.", err)
		summary.Err = err
		return
	}

	files, err := NewScanner(log).Scan(req.SourceDir, req.DestDir, s)
	if err != nil {
		log.Error.Printf("Scan failed: %v", err)
		summary.Err = err
		return
	}
	summary.Scanned = len(files)
	sink.scannedFiles(len(files))

	if len(files) == 0 {
		log.Info.Printf("No new files found to process.")
		return
	}

	extractor := NewMetadataExtractor(d.deps.Prober, d.deps.Exif, d.opts.ExifLocation, log)
	resolver := NewTimestampResolver(d.deps.Times, d.deps.Creation, extractor, log)
	orchestrator := NewOrchestrator(req.DestDir, s, d.deps.Video, d.deps.Prober, d.deps.Images, resolver, log)

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			log.Warn.Printf("Run interrupted, %d file(s) left unprocessed", len(files)-i)
			summary.Err = err
			return
		}

		sink.fileStarted(f.RelPath)
		res := orchestrator.ProcessOne(ctx, f)
		summary.Add(res)
		if d.deps.Metrics != nil {
			d.deps.Metrics.ObserveFile(res)
		}
		sink.fileDone(res)
	}

	log.Info.Printf("Processing complete.")
}

func logSummary(log *logger.Logger, s domain.Summary) {
	log.Info.Printf("Succeeded: %d, skipped: %d, failed: %d of %d", s.Succeeded, s.Skipped, s.Failed, s.Scanned)
	if s.Succeeded > 0 {
		log.Info.Printf("Input %s, output %s, saved %s (%.1f%%)",
			domain.FormatSize(s.InputBytes), domain.FormatSize(s.OutputBytes),
			domain.FormatSize(s.SavedBytes()), s.SavedPercent())
	}
	log.Info.Printf("Elapsed: %s", domain.FormatDuration(s.Elapsed))
	if s.LogPath != "" {
		log.Info.Printf("Log written to %s", logger.SanitizeForLog(s.LogPath))
	}
}
