//go:build linux

package copytree

import (
	"io/fs"
	"syscall"
	"time"
)

// accessTime returns the file's atime, falling back to its mtime
func accessTime(info fs.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Atim.Sec, st.Atim.Nsec)
	}
	return info.ModTime()
}
