package imaging

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildExifTIFF returns a little-endian TIFF block holding DateTime in IFD0
// and DateTimeOriginal in the Exif sub-IFD. Empty values are left out.
func buildExifTIFF(dateTimeOriginal, dateTime string) []byte {
	le := binary.LittleEndian
	asciiZ := func(s string) []byte {
		if s == "" {
			return nil
		}
		return append([]byte(s), 0)
	}
	entry := func(b []byte, tag, typ uint16, count, value uint32) []byte {
		b = le.AppendUint16(b, tag)
		b = le.AppendUint16(b, typ)
		b = le.AppendUint32(b, count)
		return le.AppendUint32(b, value)
	}

	n0 := 0
	if dateTime != "" {
		n0++
	}
	if dateTimeOriginal != "" {
		n0++
	}
	dt := asciiZ(dateTime)
	ifd0End := 8 + 2 + 12*n0 + 4
	exifOff := ifd0End + len(dt)

	b := []byte{'I', 'I', 0x2A, 0x00}
	b = le.AppendUint32(b, 8)
	b = le.AppendUint16(b, uint16(n0))
	if dateTime != "" {
		b = entry(b, 0x0132, 2, uint32(len(dt)), uint32(ifd0End))
	}
	if dateTimeOriginal != "" {
		b = entry(b, 0x8769, 4, 1, uint32(exifOff))
	}
	b = le.AppendUint32(b, 0)
	b = append(b, dt...)

	if dateTimeOriginal != "" {
		dto := asciiZ(dateTimeOriginal)
		b = le.AppendUint16(b, 1)
		b = entry(b, 0x9003, 2, uint32(len(dto)), uint32(exifOff+18))
		b = le.AppendUint32(b, 0)
		b = append(b, dto...)
	}
	return b
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func jpegBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}))
	return buf.Bytes()
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// withPNGExif inserts an eXIf chunk right after IHDR.
func withPNGExif(pngData, block []byte) []byte {
	ihdrEnd := len(pngSignature) + 8 + 13 + 4
	chunk := binary.BigEndian.AppendUint32(nil, uint32(len(block)))
	body := append([]byte("eXIf"), block...)
	chunk = append(chunk, body...)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(body))

	out := append([]byte{}, pngData[:ihdrEnd]...)
	out = append(out, chunk...)
	return append(out, pngData[ihdrEnd:]...)
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}
