package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MinCRF = 18
	MaxCRF = 40

	DefaultCRF                 = 28
	DefaultImageMaxDimensionPx = 1200
	DefaultImageMinSizeBytes   = 1 * oneMegabyte
	DefaultJPEGQuality         = 90
)

// TargetHeight is the maximum output height for videos. The zero value keeps
// the original resolution.
type TargetHeight int

const OriginalHeight TargetHeight = 0

// StandardHeights are the target heights offered by the CLI help text.
var StandardHeights = []TargetHeight{1080, 720, 480}

func ParseTargetHeight(s string) (TargetHeight, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "original") {
		return OriginalHeight, nil
	}
	h, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(s), "p"))
	if err != nil || h <= 0 {
		return 0, fmt.Errorf("%w: target height %q is not Original or a positive integer", ErrInvalidSettings, s)
	}
	return TargetHeight(h), nil
}

func (h TargetHeight) String() string {
	if h == OriginalHeight {
		return "Original"
	}
	return strconv.Itoa(int(h)) + "p"
}

func (h TargetHeight) IsOriginal() bool {
	return h == OriginalHeight
}

// EncodeSettings holds every knob of a run. It is built once, validated,
// then passed by value.
type EncodeSettings struct {
	VideoCRF            int          `json:"video_crf"`
	TargetHeight        TargetHeight `json:"target_height"`
	ProcessImages       bool         `json:"process_images"`
	ImageMaxDimensionPx int          `json:"image_max_dimension_px"`
	ImageMinSizeBytes   int64        `json:"image_min_size_bytes"`
	JPEGQuality         int          `json:"jpeg_quality"`
	UseEarliestDate     bool         `json:"use_earliest_date"`
}

func DefaultEncodeSettings() EncodeSettings {
	return EncodeSettings{
		VideoCRF:            DefaultCRF,
		TargetHeight:        OriginalHeight,
		ProcessImages:       true,
		ImageMaxDimensionPx: DefaultImageMaxDimensionPx,
		ImageMinSizeBytes:   DefaultImageMinSizeBytes,
		JPEGQuality:         DefaultJPEGQuality,
	}
}

func (s EncodeSettings) Validate() error {
	if s.VideoCRF < MinCRF || s.VideoCRF > MaxCRF {
		return fmt.Errorf("%w: crf %d outside %d-%d", ErrInvalidSettings, s.VideoCRF, MinCRF, MaxCRF)
	}
	if s.TargetHeight < 0 {
		return fmt.Errorf("%w: negative target height %d", ErrInvalidSettings, s.TargetHeight)
	}
	if s.ImageMaxDimensionPx <= 0 {
		return fmt.Errorf("%w: image max dimension must be positive, got %d", ErrInvalidSettings, s.ImageMaxDimensionPx)
	}
	if s.ImageMinSizeBytes < 0 {
		return fmt.Errorf("%w: image min size must not be negative, got %d", ErrInvalidSettings, s.ImageMinSizeBytes)
	}
	if s.JPEGQuality < 1 || s.JPEGQuality > 100 {
		return fmt.Errorf("%w: jpeg quality %d outside 1-100", ErrInvalidSettings, s.JPEGQuality)
	}
	return nil
}

// CRFDescription is the human label for a CRF value.
func CRFDescription(crf int) string {
	switch {
	case crf <= 22:
		return "High Quality, large file"
	case crf <= 28:
		return "Good Compromise"
	default:
		return "High Compression, small file"
	}
}

// MegabytesToBytes converts a fractional megabyte threshold (1 MB = 1024*1024 bytes).
func MegabytesToBytes(mb float64) int64 {
	return int64(mb * oneMegabyte)
}
