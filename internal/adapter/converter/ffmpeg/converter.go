package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/bnema/shrink/internal/domain"
	"github.com/bnema/shrink/internal/port"
)

var (
	ErrEmptyPath   = errors.New("empty path")
	ErrInvalidPath = errors.New("path contains null byte")
)

const (
	videoCodec  = "libx264"
	videoPreset = "medium"
)

type runFunc func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

type Converter struct {
	ffmpegPath  string
	ffprobePath string
	run         runFunc
	lookPath    func(string) (string, error)
}

// NewConverter returns a Converter invoking the given binaries. Empty names
// fall back to "ffmpeg" and "ffprobe" on PATH.
func NewConverter(ffmpegPath, ffprobePath string) *Converter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Converter{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		run:         execRun,
		lookPath:    exec.LookPath,
	}
}

func execRun(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

func validatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	return nil
}

// CheckTools verifies both binaries resolve and answer -version.
func (c *Converter) CheckTools(ctx context.Context) error {
	for _, tool := range []string{c.ffmpegPath, c.ffprobePath} {
		if _, err := c.lookPath(tool); err != nil {
			return fmt.Errorf("%w: %s not found: %v", domain.ErrToolUnavailable, tool, err)
		}
		if _, stderr, err := c.run(ctx, tool, "-version"); err != nil {
			return fmt.Errorf("%w: %s -version failed: %v %s", domain.ErrToolUnavailable, tool, err, strings.TrimSpace(string(stderr)))
		}
	}
	return nil
}

// BuildVideoArgs returns the ffmpeg arguments for job. -n makes ffmpeg refuse
// to overwrite an existing output.
func BuildVideoArgs(job domain.VideoJob) []string {
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-n",
		"-i", job.Input,
		"-c:v", videoCodec,
		"-crf", strconv.Itoa(job.CRF),
		"-preset", videoPreset,
		"-map_metadata", "0",
		"-c:a", "copy",
	}
	if job.ScaleHeight > 0 {
		args = append(args, "-vf", fmt.Sprintf("scale=-2:%d", job.ScaleHeight))
	}
	return append(args, job.Output)
}

// EncodeVideo runs ffmpeg for job. Cancellation of ctx does not interrupt a
// running encode.
func (c *Converter) EncodeVideo(ctx context.Context, job domain.VideoJob) error {
	if err := validatePath(job.Input); err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}
	if err := validatePath(job.Output); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	_, stderr, err := c.run(context.WithoutCancel(ctx), c.ffmpegPath, BuildVideoArgs(job)...)
	if err != nil {
		return &domain.EncodeError{Path: job.Input, Stderr: string(stderr), Err: err}
	}
	return nil
}

// ProbeFormat runs ffprobe -show_format and returns the parsed container metadata.
func (c *Converter) ProbeFormat(ctx context.Context, path string) (*domain.ProbeResult, error) {
	if err := validatePath(path); err != nil {
		return nil, fmt.Errorf("invalid input path: %w", err)
	}
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	}
	out, _, err := c.run(ctx, c.ffprobePath, args...)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return ParseProbeJSON(out)
}

// VideoHeight returns the height of the first video stream.
func (c *Converter) VideoHeight(ctx context.Context, path string) (int, error) {
	if err := validatePath(path); err != nil {
		return 0, fmt.Errorf("invalid input path: %w", err)
	}
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=height",
		"-of", "json",
		path,
	}
	out, stderr, err := c.run(ctx, c.ffprobePath, args...)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w: %s", err, strings.TrimSpace(string(stderr)))
	}
	probe, err := ParseProbeJSON(out)
	if err != nil {
		return 0, err
	}
	vs := probe.VideoStream()
	if vs == nil || vs.Height <= 0 {
		return 0, fmt.Errorf("no video stream found")
	}
	return vs.Height, nil
}

// ParseProbeJSON decodes ffprobe JSON output.
func ParseProbeJSON(data []byte) (*domain.ProbeResult, error) {
	var probe domain.ProbeResult
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	probe.RawJSON = string(data)
	return &probe, nil
}

var (
	_ port.VideoTranscoder = (*Converter)(nil)
	_ port.MediaProber     = (*Converter)(nil)
	_ port.ToolChecker     = (*Converter)(nil)
)
