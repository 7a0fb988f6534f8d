package domain

import (
	"path/filepath"
	"strings"
)

type MediaClass string

const (
	ClassVideo       MediaClass = "video"
	ClassImage       MediaClass = "image"
	ClassUnsupported MediaClass = "unsupported"
)

var videoExts = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".mpeg": true,
	".mpg":  true,
	".m4v":  true,
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
}

// ImageOutputExt is the extension every re-encoded image is written with.
const ImageOutputExt = ".jpg"

// ClassifyPath maps a file name to its media class by extension, case-insensitively.
func ClassifyPath(filename string) MediaClass {
	ext := strings.ToLower(filepath.Ext(filename))
	if videoExts[ext] {
		return ClassVideo
	}
	if imageExts[ext] {
		return ClassImage
	}
	return ClassUnsupported
}

// SourceFile is a media file selected for processing during a scan.
type SourceFile struct {
	AbsPath string
	RelPath string
	Class   MediaClass
	Size    int64
}

// MirrorPath returns destRoot joined with the file's path relative to the
// source root, extension untouched.
func (f SourceFile) MirrorPath(destRoot string) string {
	return filepath.Join(destRoot, f.RelPath)
}

// DestinationPath returns where the re-encoded output of f is written.
// Videos keep their relative path; images get a .jpg extension.
func (f SourceFile) DestinationPath(destRoot string) string {
	mirrored := f.MirrorPath(destRoot)
	if f.Class == ClassImage {
		return JPEGSibling(mirrored)
	}
	return mirrored
}

// JPEGSibling replaces the extension of path with .jpg.
func JPEGSibling(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ImageOutputExt
}
