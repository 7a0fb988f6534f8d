package imaging

import (
	"bytes"
	"encoding/binary"
)

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP1 = 0xE1

	exifHeader = "Exif\x00\x00"

	// APP1 length field covers itself and the Exif header.
	maxExifPayload = 0xFFFF - 2 - len(exifHeader)
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// ReadExifBlock returns the raw TIFF-structured EXIF block embedded in a JPEG
// APP1 segment or a PNG eXIf chunk. It returns nil when there is none or the
// container is not one of those two.
func ReadExifBlock(data []byte) []byte {
	switch {
	case len(data) > 2 && data[0] == 0xFF && data[1] == markerSOI:
		return jpegExif(data)
	case bytes.HasPrefix(data, pngSignature):
		return pngExif(data)
	}
	return nil
}

func jpegExif(data []byte) []byte {
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			return nil
		}
		marker := data[i+1]
		if marker == 0xFF {
			i++
			continue
		}
		if marker == markerSOS || marker == markerEOI {
			return nil
		}
		if marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7) {
			i += 2
			continue
		}
		length := int(binary.BigEndian.Uint16(data[i+2 : i+4]))
		end := i + 2 + length
		if length < 2 || end > len(data) {
			return nil
		}
		payload := data[i+4 : end]
		if marker == markerAPP1 && bytes.HasPrefix(payload, []byte(exifHeader)) {
			return payload[len(exifHeader):]
		}
		i = end
	}
	return nil
}

func pngExif(data []byte) []byte {
	i := len(pngSignature)
	for i+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[i : i+4]))
		kind := string(data[i+4 : i+8])
		start := i + 8
		end := start + length
		if length < 0 || end+4 > len(data) {
			return nil
		}
		switch kind {
		case "eXIf":
			return data[start:end]
		case "IDAT", "IEND":
			// eXIf must precede the image data
			return nil
		}
		i = end + 4
	}
	return nil
}

// InsertExif splices block into jpegData as an APP1 segment right after SOI.
// Blocks that do not fit in a single segment are dropped.
func InsertExif(jpegData, block []byte) []byte {
	if len(block) == 0 || len(block) > maxExifPayload || len(jpegData) < 2 {
		return jpegData
	}
	out := make([]byte, 0, len(jpegData)+len(block)+4+len(exifHeader))
	out = append(out, jpegData[:2]...)
	out = append(out, 0xFF, markerAPP1)
	out = binary.BigEndian.AppendUint16(out, uint16(2+len(exifHeader)+len(block)))
	out = append(out, exifHeader...)
	out = append(out, block...)
	return append(out, jpegData[2:]...)
}
