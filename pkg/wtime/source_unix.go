//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package wtime

import "golang.org/x/sys/unix"

// SystemSource queries the host with gettimeofday(2).
type SystemSource struct{}

// Gettimeofday implements Source.
func (SystemSource) Gettimeofday() (int64, int64, error) {
	var tv unix.Timeval
	if err := unix.Gettimeofday(&tv); err != nil {
		return 0, 0, err
	}
	return int64(tv.Sec), int64(tv.Usec), nil
}
