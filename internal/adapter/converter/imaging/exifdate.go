package imaging

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/bnema/shrink/internal/domain"
	"github.com/bnema/shrink/internal/port"
)

type ExifReader struct{}

func NewExifReader() *ExifReader {
	return &ExifReader{}
}

// DateTaken returns DateTimeOriginal, falling back to DateTime.
func (r *ExifReader) DateTaken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	raw := data
	if block := ReadExifBlock(data); len(block) > 0 {
		raw = block
	}

	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return "", fmt.Errorf("decode exif: %w", err)
	}

	for _, field := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTime} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		s, err := tag.StringVal()
		if err != nil {
			continue
		}
		if s = strings.TrimRight(strings.TrimSpace(s), "\x00"); s != "" {
			return s, nil
		}
	}
	return "", domain.ErrNoCreationTime
}

var _ port.ExifReader = (*ExifReader)(nil)
