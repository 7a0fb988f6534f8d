package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/bnema/shrink/internal/domain"
)

func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("shrink", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	var noImages bool
	fs.IntVar(&cfg.VideoCRF, "crf", cfg.VideoCRF, fmt.Sprintf("Video CRF, %d (best) to %d (smallest)", domain.MinCRF, domain.MaxCRF))
	fs.Var(&heightValue{&cfg.TargetHeight}, "resolution", "Maximum video height: original | 1080p | 720p | 480p")
	fs.BoolVar(&noImages, "no-images", false, "Do not process images")
	fs.IntVar(&cfg.ImageMaxDimensionPx, "image-max-px", cfg.ImageMaxDimensionPx, "Longest image side after resizing")
	fs.Float64Var(&cfg.ImageMinSizeMB, "image-min-mb", cfg.ImageMinSizeMB, "Only process images larger than this (MB)")
	fs.IntVar(&cfg.JPEGQuality, "quality", cfg.JPEGQuality, "JPEG quality 1-100")
	fs.BoolVar(&cfg.UseEarliestDate, "earliest-date", cfg.UseEarliestDate, "Set creation time to the earliest date known for the file")
	fs.StringVar(&cfg.ExifTimezone, "exif-tz", cfg.ExifTimezone, "Time zone EXIF dates were recorded in (IANA name, default local). -exif-tz UTC reads them as UTC")
	fs.StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "ffmpeg binary")
	fs.StringVar(&cfg.FFprobePath, "ffprobe", cfg.FFprobePath, "ffprobe binary")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Directory for per-run log files (empty disables)")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for the run history database (empty disables)")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this file after each run")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as -verbose")
	fs.BoolVar(&cfg.ListRuns, "runs", false, "List recent runs and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if noImages {
		cfg.ProcessImages = false
	}

	switch rest := fs.Args(); len(rest) {
	case 0:
	case 2:
		cfg.SourceDir, cfg.DestDir = rest[0], rest[1]
	default:
		return fmt.Errorf("expected SOURCE and DEST directories, got %d argument(s)", len(rest))
	}
	return nil
}

func printUsage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "Usage: shrink [options] SOURCE DEST")
	fmt.Fprintln(w, "       shrink -runs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Re-encodes new videos and images from SOURCE into DEST, keeping their timestamps.")
	fmt.Fprintln(w, "Every option can also be set with a SHRINK_* environment variable.")
	fmt.Fprintln(w)
	fs.PrintDefaults()
}

// heightValue implements flag.Value for domain.TargetHeight.
type heightValue struct{ p *domain.TargetHeight }

func (v *heightValue) String() string {
	if v.p == nil {
		return ""
	}
	return strings.ToLower(v.p.String())
}

func (v *heightValue) Set(s string) error {
	h, err := domain.ParseTargetHeight(s)
	if err != nil {
		return err
	}
	*v.p = h
	return nil
}
