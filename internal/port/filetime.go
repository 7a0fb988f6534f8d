package port

import (
	"time"

	"github.com/bnema/shrink/internal/domain"
)

type FileTimes interface {
	Read(path string) (domain.TimestampTriple, error)
	SetTimes(path string, accessed, modified time.Time) error
}

// CreationTimeSetter writes a file's creation instant where the platform
// allows it. Implementations without support return nil and report false
// from Supported.
type CreationTimeSetter interface {
	SetCreationTime(path string, t time.Time) error
	Supported() bool
}
