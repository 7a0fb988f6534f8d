//go:build !windows

package filetime

import (
	"time"

	"github.com/bnema/shrink/internal/port"
)

type creationSetter struct{}

// NewCreationSetter returns a writer that does nothing: this platform offers
// no portable way to set a file's birth time.
func NewCreationSetter() port.CreationTimeSetter {
	return creationSetter{}
}

func (creationSetter) Supported() bool { return false }

func (creationSetter) SetCreationTime(string, time.Time) error { return nil }
