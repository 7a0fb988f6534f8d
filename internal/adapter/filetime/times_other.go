//go:build !linux && !windows && !darwin && !freebsd

package filetime

import (
	"os"

	"github.com/bnema/shrink/internal/domain"
)

func readTimes(path string) (domain.TimestampTriple, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return domain.TimestampTriple{}, err
	}
	return fromFileInfo(fi), nil
}
