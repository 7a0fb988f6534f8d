//go:build darwin || freebsd

package filetime

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"

	"github.com/bnema/shrink/internal/domain"
)

func readTimes(path string) (domain.TimestampTriple, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return domain.TimestampTriple{}, &fs.PathError{Op: "stat", Path: path, Err: err}
	}
	return domain.TimestampTriple{
		Created:  time.Unix(st.Btim.Unix()),
		Modified: time.Unix(st.Mtim.Unix()),
		Accessed: time.Unix(st.Atim.Unix()),
	}, nil
}
