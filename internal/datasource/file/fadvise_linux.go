//go:build linux

package file

import (
	"os"

	"golang.org/x/sys/unix"
)

// adviseSequential tells the kernel the whole file is about to be read once,
// front to back, so it can read ahead aggressively.
func adviseSequential(f *os.File) error {
	fd := int(f.Fd())
	if err := unix.Fadvise(fd, 0, 0, unix.FADV_SEQUENTIAL); err != nil {
		return err
	}
	return unix.Fadvise(fd, 0, 0, unix.FADV_WILLNEED)
}
