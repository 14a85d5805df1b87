//go:build !linux

package copytree

import (
	"io/fs"
	"time"
)

func accessTime(info fs.FileInfo) time.Time {
	return info.ModTime()
}
