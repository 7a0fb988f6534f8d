package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/shrink/internal/domain"
)

type Config struct {
	SourceDir string
	DestDir   string

	VideoCRF            int
	TargetHeight        domain.TargetHeight
	ProcessImages       bool
	ImageMaxDimensionPx int
	ImageMinSizeMB      float64
	JPEGQuality         int
	UseEarliestDate     bool

	// ExifTimezone names the zone EXIF dates are read in. Empty means local time.
	ExifTimezone string

	FFmpegPath  string
	FFprobePath string

	LogDir string
	// DataDir holds the run history database. Empty disables history.
	DataDir     string
	MetricsFile string
	Verbose     bool
	ListRuns    bool
}

// Load builds a Config from defaults, SHRINK_* environment variables and
// finally the command-line args (without the program name).
func Load(args []string) (*Config, error) {
	cfg := defaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.ListRuns {
		return cfg, nil
	}
	if err := cfg.ValidatePaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	s := domain.DefaultEncodeSettings()
	return &Config{
		VideoCRF:            s.VideoCRF,
		TargetHeight:        s.TargetHeight,
		ProcessImages:       s.ProcessImages,
		ImageMaxDimensionPx: s.ImageMaxDimensionPx,
		ImageMinSizeMB:      1.0,
		JPEGQuality:         s.JPEGQuality,
		UseEarliestDate:     s.UseEarliestDate,
		FFmpegPath:          "ffmpeg",
		FFprobePath:         "ffprobe",
		LogDir:              "logs",
		DataDir:             defaultDataDir(),
	}
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "shrink")
}

func (c *Config) applyEnv() error {
	var err error
	c.SourceDir = getEnv("SHRINK_SOURCE", c.SourceDir)
	c.DestDir = getEnv("SHRINK_DEST", c.DestDir)

	if c.VideoCRF, err = strconv.Atoi(getEnv("SHRINK_CRF", strconv.Itoa(c.VideoCRF))); err != nil {
		return fmt.Errorf("invalid SHRINK_CRF: %w", err)
	}
	if c.TargetHeight, err = domain.ParseTargetHeight(getEnv("SHRINK_RESOLUTION", c.TargetHeight.String())); err != nil {
		return fmt.Errorf("invalid SHRINK_RESOLUTION: %w", err)
	}
	if c.ProcessImages, err = strconv.ParseBool(getEnv("SHRINK_IMAGES", strconv.FormatBool(c.ProcessImages))); err != nil {
		return fmt.Errorf("invalid SHRINK_IMAGES: %w", err)
	}
	if c.ImageMaxDimensionPx, err = strconv.Atoi(getEnv("SHRINK_IMAGE_MAX_PX", strconv.Itoa(c.ImageMaxDimensionPx))); err != nil {
		return fmt.Errorf("invalid SHRINK_IMAGE_MAX_PX: %w", err)
	}
	if c.ImageMinSizeMB, err = strconv.ParseFloat(getEnv("SHRINK_IMAGE_MIN_MB", strconv.FormatFloat(c.ImageMinSizeMB, 'f', -1, 64)), 64); err != nil {
		return fmt.Errorf("invalid SHRINK_IMAGE_MIN_MB: %w", err)
	}
	if c.JPEGQuality, err = strconv.Atoi(getEnv("SHRINK_JPEG_QUALITY", strconv.Itoa(c.JPEGQuality))); err != nil {
		return fmt.Errorf("invalid SHRINK_JPEG_QUALITY: %w", err)
	}
	if c.UseEarliestDate, err = strconv.ParseBool(getEnv("SHRINK_EARLIEST_DATE", strconv.FormatBool(c.UseEarliestDate))); err != nil {
		return fmt.Errorf("invalid SHRINK_EARLIEST_DATE: %w", err)
	}

	c.ExifTimezone = getEnv("SHRINK_EXIF_TZ", c.ExifTimezone)
	c.FFmpegPath = getEnv("SHRINK_FFMPEG", c.FFmpegPath)
	c.FFprobePath = getEnv("SHRINK_FFPROBE", c.FFprobePath)
	c.LogDir = getEnv("SHRINK_LOG_DIR", c.LogDir)
	c.DataDir = getEnv("SHRINK_DATA_DIR", c.DataDir)
	c.MetricsFile = getEnv("SHRINK_METRICS_FILE", c.MetricsFile)
	return nil
}

// Settings returns the encode settings for a run.
func (c *Config) Settings() domain.EncodeSettings {
	return domain.EncodeSettings{
		VideoCRF:            c.VideoCRF,
		TargetHeight:        c.TargetHeight,
		ProcessImages:       c.ProcessImages,
		ImageMaxDimensionPx: c.ImageMaxDimensionPx,
		ImageMinSizeBytes:   domain.MegabytesToBytes(c.ImageMinSizeMB),
		JPEGQuality:         c.JPEGQuality,
		UseEarliestDate:     c.UseEarliestDate,
	}
}

// ExifLocation resolves ExifTimezone.
func (c *Config) ExifLocation() (*time.Location, error) {
	if c.ExifTimezone == "" || strings.EqualFold(c.ExifTimezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.ExifTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid exif timezone %q: %w", c.ExifTimezone, err)
	}
	return loc, nil
}

func (c *Config) Validate() error {
	if c.ImageMinSizeMB < 0 {
		return fmt.Errorf("%w: image min size must not be negative", domain.ErrInvalidSettings)
	}
	if err := c.Settings().Validate(); err != nil {
		return err
	}
	if _, err := c.ExifLocation(); err != nil {
		return err
	}
	return nil
}

// ValidatePaths checks the two directories of a run. The source must be an
// existing directory and the destination may be neither the source nor
// anywhere inside it.
func (c *Config) ValidatePaths() error {
	if c.SourceDir == "" || c.DestDir == "" {
		return errors.New("source and destination directories are required")
	}

	src, err := filepath.Abs(c.SourceDir)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}
	dst, err := filepath.Abs(c.DestDir)
	if err != nil {
		return fmt.Errorf("resolve destination: %w", err)
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %s is not a directory", c.SourceDir)
	}

	if src == dst {
		return errors.New("source and destination must be different directories")
	}
	if rel, err := filepath.Rel(src, dst); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.New("destination must not be inside the source directory")
	}

	c.SourceDir = src
	c.DestDir = dst
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
