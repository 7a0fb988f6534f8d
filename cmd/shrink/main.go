package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/shrink/config"
	"github.com/bnema/shrink/internal/adapter/converter/ffmpeg"
	"github.com/bnema/shrink/internal/adapter/converter/imaging"
	"github.com/bnema/shrink/internal/adapter/filetime"
	"github.com/bnema/shrink/internal/adapter/metrics"
	sqlitestore "github.com/bnema/shrink/internal/adapter/storage/sqlite"
	"github.com/bnema/shrink/internal/domain"
	"github.com/bnema/shrink/internal/infrastructure/logger"
	"github.com/bnema/shrink/internal/service"
)

func main() {
	log := logger.New(os.Stderr, false)

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Error.Printf("failed to load config: %v", err)
		os.Exit(2)
	}

	var store *sqlitestore.Store
	if cfg.DataDir != "" {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			log.Warn.Printf("run history disabled, cannot create data directory: %v", err)
		} else if store, err = sqlitestore.NewStore(cfg.DataDir); err != nil {
			log.Warn.Printf("run history disabled: %v", err)
			store = nil
		}
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	if cfg.ListRuns {
		if store == nil {
			log.Error.Printf("run history is not available, set -data-dir")
			os.Exit(1)
		}
		if err := listRuns(store); err != nil {
			log.Error.Printf("failed to list runs: %v", err)
			os.Exit(1)
		}
		return
	}

	loc, _ := cfg.ExifLocation()
	converter := ffmpeg.NewConverter(cfg.FFmpegPath, cfg.FFprobePath)
	deps := service.Dependencies{
		Tools:    converter,
		Video:    converter,
		Prober:   converter,
		Images:   imaging.NewEncoder(),
		Exif:     imaging.NewExifReader(),
		Times:    filetime.New(),
		Creation: filetime.NewCreationSetter(),
		Metrics:  metrics.NewRecorder(cfg.MetricsFile),
	}
	if store != nil {
		deps.Recorder = store
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The file being encoded always finishes; the run stops before the next one.
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		log.Warn.Printf("received %s, stopping after the current file", sig)
		cancel()
	}()

	driver := service.NewBatchDriver(deps, service.DriverOptions{
		LogDir:       cfg.LogDir,
		Verbose:      cfg.Verbose,
		ExifLocation: loc,
	})
	summary := driver.Run(ctx, service.RunRequest{
		SourceDir: cfg.SourceDir,
		DestDir:   cfg.DestDir,
		Settings:  cfg.Settings(),
	}, printEvent)

	if summary.Err != nil || summary.Failed > 0 {
		os.Exit(1)
	}
}

func printEvent(ev service.Event) {
	switch ev.Type {
	case service.EventLog:
		fmt.Println(ev.LogLine)
	case service.EventFileStarted:
		fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", ev.FilesCompleted+1, ev.FilesScanned, logger.SanitizeForLog(ev.CurrentFile))
	}
}

func listRuns(store *sqlitestore.Store) error {
	runs, err := store.ListRuns(context.Background(), 20)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}
	for _, r := range runs {
		elapsed := "-"
		if !r.FinishedAt.IsZero() {
			elapsed = domain.FormatDuration(r.FinishedAt.Sub(r.StartedAt))
		}
		fmt.Printf("%s  %s  %-9s  %d ok, %d skipped, %d failed  saved %s  %s\n",
			r.StartedAt.Local().Format(time.DateTime), r.ID[:8], r.Status,
			r.Succeeded, r.Skipped, r.Failed,
			domain.FormatSize(r.InputBytes-r.OutputBytes), elapsed)
		fmt.Printf("    %s -> %s\n", r.SourceDir, r.DestDir)
		if r.Error != "" {
			fmt.Printf("    error: %s\n", r.Error)
		}
	}
	return nil
}
