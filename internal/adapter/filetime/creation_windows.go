//go:build windows

package filetime

import (
	"time"

	"golang.org/x/sys/windows"

	"github.com/bnema/shrink/internal/port"
)

type creationSetter struct{}

// NewCreationSetter returns the SetFileTime-backed creation time writer.
func NewCreationSetter() port.CreationTimeSetter {
	return creationSetter{}
}

func (creationSetter) Supported() bool { return true }

func (creationSetter) SetCreationTime(path string, t time.Time) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return creationErr(path, err)
	}
	h, err := windows.CreateFile(p,
		windows.FILE_WRITE_ATTRIBUTES,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS,
		0,
	)
	if err != nil {
		return creationErr(path, err)
	}
	defer func() { _ = windows.CloseHandle(h) }()

	ft := windows.NsecToFiletime(t.UnixNano())
	if err := windows.SetFileTime(h, &ft, nil, nil); err != nil {
		return creationErr(path, err)
	}
	return nil
}
