//go:build linux

package filetime

import (
	"errors"
	"io/fs"
	"time"

	"golang.org/x/sys/unix"

	"github.com/bnema/shrink/internal/domain"
)

func readTimes(path string) (domain.TimestampTriple, error) {
	var stx unix.Statx_t
	mask := unix.STATX_ATIME | unix.STATX_MTIME | unix.STATX_CTIME | unix.STATX_BTIME
	if err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, mask, &stx); err != nil {
		if errors.Is(err, unix.ENOSYS) {
			return readStat(path)
		}
		return domain.TimestampTriple{}, &fs.PathError{Op: "statx", Path: path, Err: err}
	}

	created := stx.Ctime
	if stx.Mask&unix.STATX_BTIME != 0 {
		created = stx.Btime
	}
	return domain.TimestampTriple{
		Created:  statxTime(created),
		Modified: statxTime(stx.Mtime),
		Accessed: statxTime(stx.Atime),
	}, nil
}

// readStat serves kernels older than 4.11, which lack statx.
func readStat(path string) (domain.TimestampTriple, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return domain.TimestampTriple{}, &fs.PathError{Op: "stat", Path: path, Err: err}
	}
	return domain.TimestampTriple{
		Created:  time.Unix(st.Ctim.Unix()),
		Modified: time.Unix(st.Mtim.Unix()),
		Accessed: time.Unix(st.Atim.Unix()),
	}, nil
}

func statxTime(ts unix.StatxTimestamp) time.Time {
	return time.Unix(ts.Sec, int64(ts.Nsec))
}
