//go:build unix

package source

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

func load(f *os.File, size int64) ([]byte, func() error, error) {
	if size > math.MaxInt32 {
		return nil, nil, fmt.Errorf("file size %d too large to map", size)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return unix.Munmap(data) }, nil
}
