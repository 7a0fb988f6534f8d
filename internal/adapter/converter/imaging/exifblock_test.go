package imaging

import (
	"bytes"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadExifBlock(t *testing.T) {
	block := buildExifTIFF("2019:07:04 10:30:00", "")
	plainJPEG := jpegBytes(t, gradient(16, 16))
	plainPNG := pngBytes(t, gradient(16, 16))

	tests := []struct {
		name string
		data []byte
		want []byte
	}{
		{"jpeg with exif", InsertExif(plainJPEG, block), block},
		{"jpeg without exif", plainJPEG, nil},
		{"png with exif", withPNGExif(plainPNG, block), block},
		{"png without exif", plainPNG, nil},
		{"not an image", []byte("hello world"), nil},
		{"truncated jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE1, 0x10}, nil},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReadExifBlock(tt.data))
		})
	}
}

func TestInsertExif(t *testing.T) {
	plain := jpegBytes(t, gradient(8, 8))
	block := buildExifTIFF("2019:07:04 10:30:00", "2020:01:01 00:00:00")

	out := InsertExif(plain, block)

	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xE1}, out[:4])
	assert.Equal(t, block, ReadExifBlock(out))

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err, "spliced file must still decode")
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestInsertExif_DropsOversizedBlock(t *testing.T) {
	plain := jpegBytes(t, gradient(8, 8))

	assert.Equal(t, 65527, maxExifPayload)
	assert.Equal(t, plain, InsertExif(plain, make([]byte, maxExifPayload+1)))
	assert.Equal(t, plain, InsertExif(plain, nil))
}

func TestInsertExif_LargestBlockFillsSegment(t *testing.T) {
	plain := jpegBytes(t, gradient(8, 8))
	block := make([]byte, maxExifPayload)
	copy(block, buildExifTIFF("2019:07:04 10:30:00", ""))

	out := InsertExif(plain, block)

	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xE1, 0xFF, 0xFF}, out[:6])
	assert.Equal(t, block, ReadExifBlock(out))
	_, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
}
