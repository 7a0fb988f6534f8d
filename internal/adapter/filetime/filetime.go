// Package filetime reads and writes file timestamps. Reading the creation
// instant and writing it back are platform specific; see the build-tagged
// files in this package.
package filetime

import (
	"os"
	"time"

	"github.com/bnema/shrink/internal/domain"
	"github.com/bnema/shrink/internal/port"
)

type Times struct{}

func New() *Times {
	return &Times{}
}

// Read returns the created, modified and accessed instants of path in UTC.
// Where the filesystem keeps no birth time the inode change time stands in.
func (t *Times) Read(path string) (domain.TimestampTriple, error) {
	triple, err := readTimes(path)
	if err != nil {
		return domain.TimestampTriple{}, err
	}
	return triple.UTC(), nil
}

func (t *Times) SetTimes(path string, accessed, modified time.Time) error {
	if err := os.Chtimes(path, accessed, modified); err != nil {
		return &domain.TimestampWriteError{Path: path, Field: "access/modification", Err: err}
	}
	return nil
}

func fromFileInfo(fi os.FileInfo) domain.TimestampTriple {
	mod := fi.ModTime()
	return domain.TimestampTriple{Created: mod, Modified: mod, Accessed: mod}
}

func creationErr(path string, err error) error {
	return &domain.TimestampWriteError{Path: path, Field: "creation", Err: err}
}

var _ port.FileTimes = (*Times)(nil)
