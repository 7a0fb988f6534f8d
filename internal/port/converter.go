package port

import (
	"context"

	"github.com/bnema/shrink/internal/domain"
)

type VideoTranscoder interface {
	// EncodeVideo runs the job to completion. A failure is a *domain.EncodeError.
	EncodeVideo(ctx context.Context, job domain.VideoJob) error
}

type MediaProber interface {
	ProbeFormat(ctx context.Context, path string) (*domain.ProbeResult, error)
	VideoHeight(ctx context.Context, path string) (int, error)
}

type ToolChecker interface {
	CheckTools(ctx context.Context) error
}

type ImageTranscoder interface {
	EncodeImage(job domain.ImageJob) error
}

// ExifReader returns the raw EXIF date string of an image, preferring
// DateTimeOriginal over DateTime.
type ExifReader interface {
	DateTaken(path string) (string, error)
}
