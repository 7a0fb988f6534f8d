//go:build windows

package filetime

import (
	"os"
	"syscall"
	"time"

	"github.com/bnema/shrink/internal/domain"
)

func readTimes(path string) (domain.TimestampTriple, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return domain.TimestampTriple{}, err
	}
	d, ok := fi.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return fromFileInfo(fi), nil
	}
	return domain.TimestampTriple{
		Created:  time.Unix(0, d.CreationTime.Nanoseconds()),
		Modified: time.Unix(0, d.LastWriteTime.Nanoseconds()),
		Accessed: time.Unix(0, d.LastAccessTime.Nanoseconds()),
	}, nil
}
