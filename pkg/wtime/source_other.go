//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package wtime

import "time"

// SystemSource reads the host wall clock through the time package. This
// platform has no gettimeofday(2), and the query here cannot fail.
type SystemSource struct{}

// Gettimeofday implements Source.
func (SystemSource) Gettimeofday() (int64, int64, error) {
	now := time.Now()
	return now.Unix(), int64(now.Nanosecond() / 1000), nil
}
