package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bnema/shrink/internal/domain"
	"github.com/bnema/shrink/internal/infrastructure/logger"
)

type Scanner struct {
	log *logger.Logger
}

func NewScanner(log *logger.Logger) *Scanner {
	return &Scanner{log: log}
}

// Scan walks sourceRoot in lexical order and returns the media files that
// have no counterpart under destRoot yet. A file is skipped when its mirrored
// path exists or, for images, when the .jpg translation of that path exists.
// Videos are always selected; images only when enabled and strictly larger
// than the size threshold.
func (s *Scanner) Scan(sourceRoot, destRoot string, settings domain.EncodeSettings) ([]domain.SourceFile, error) {
	info, err := os.Stat(sourceRoot)
	if err != nil {
		return nil, &domain.ScanIOError{Path: sourceRoot, Err: err}
	}
	if !info.IsDir() {
		return nil, &domain.ScanIOError{Path: sourceRoot, Err: errors.New("not a directory")}
	}

	var files []domain.SourceFile
	err = filepath.WalkDir(sourceRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == sourceRoot {
				return &domain.ScanIOError{Path: path, Err: walkErr}
			}
			s.log.Warn.Printf("Skipping unreadable entry %s: %v", logger.SanitizeForLog(path), walkErr)
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		class := domain.ClassifyPath(d.Name())
		if class == domain.ClassUnsupported {
			return nil
		}
		if class == domain.ClassImage && !settings.ProcessImages {
			return nil
		}

		rel, err := filepath.Rel(sourceRoot, path)
		if err != nil {
			return fmt.Errorf("relative path of %s: %w", path, err)
		}
		sf := domain.SourceFile{AbsPath: path, RelPath: rel, Class: class}

		if exists(sf.MirrorPath(destRoot)) {
			return nil
		}
		if class == domain.ClassImage && exists(sf.DestinationPath(destRoot)) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			s.log.Warn.Printf("Skipping unreadable entry %s: %v", logger.SanitizeForLog(path), err)
			return nil
		}
		sf.Size = fi.Size()

		if class == domain.ClassImage && sf.Size <= settings.ImageMinSizeBytes {
			return nil
		}

		files = append(files, sf)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info.Printf("%d new file(s) found to process.", len(files))
	return files, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
