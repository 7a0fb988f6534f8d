package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"

	// Registered decoders for every image extension the scanner accepts.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/bnema/shrink/internal/domain"
	"github.com/bnema/shrink/internal/port"
)

var ErrEmptyPath = errors.New("empty path")

type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// EncodeImage decodes job.Input, flattens it to opaque RGB, shrinks it to fit
// job.MaxDimension and writes a JPEG carrying the source EXIF block. The
// output only appears once fully written.
func (e *Encoder) EncodeImage(job domain.ImageJob) error {
	if job.Input == "" || job.Output == "" {
		return ErrEmptyPath
	}

	data, err := os.ReadFile(job.Input)
	if err != nil {
		return &domain.EncodeError{Path: job.Input, Err: err}
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return &domain.EncodeError{Path: job.Input, Err: fmt.Errorf("decode image: %w", err)}
	}

	var exifBlock []byte
	if format == "jpeg" || format == "png" {
		exifBlock = ReadExifBlock(data)
	}

	img := Fit(Flatten(src), job.MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: job.Quality}); err != nil {
		return &domain.EncodeError{Path: job.Input, Err: fmt.Errorf("encode jpeg: %w", err)}
	}

	if err := writeFileAtomic(job.Output, InsertExif(buf.Bytes(), exifBlock)); err != nil {
		return &domain.EncodeError{Path: job.Input, Err: err}
	}
	return nil
}

// Flatten drops the alpha channel and expands palettes. Opaque colour models
// JPEG can store directly are returned untouched.
func Flatten(src image.Image) image.Image {
	switch src.(type) {
	case *image.YCbCr, *image.Gray, *image.CMYK, *image.RGBA:
		if isOpaque(src) {
			return src
		}
	}

	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF})
		}
	}
	return dst
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// FitDimensions returns the largest size within maxDim x maxDim that keeps the
// aspect ratio of w x h. Images already inside the box are not enlarged.
func FitDimensions(w, h, maxDim int) (int, int) {
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return w, h
	}
	if w >= h {
		return maxDim, clampMin(int(math.Round(float64(h)*float64(maxDim)/float64(w))), 1)
	}
	return clampMin(int(math.Round(float64(w)*float64(maxDim)/float64(h))), 1), maxDim
}

func clampMin(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}

// Fit downsamples src with Catmull-Rom so neither side exceeds maxDim.
func Fit(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := FitDimensions(b.Dx(), b.Dy(), maxDim)
	if w == b.Dx() && h == b.Dy() {
		return src
	}

	rect := image.Rect(0, 0, w, h)
	var dst xdraw.Image
	if _, gray := src.(*image.Gray); gray {
		dst = image.NewGray(rect)
	} else {
		dst = image.NewRGBA(rect)
	}
	xdraw.CatmullRom.Scale(dst, rect, src, b, xdraw.Src, nil)
	return dst
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

var _ port.ImageTranscoder = (*Encoder)(nil)
