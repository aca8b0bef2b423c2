// Package wtime reads the current wall-clock time as floating-point seconds
// since the Unix epoch.
//
// The value is wall-clock time: it follows the host clock and can move
// backward when the clock is stepped (for example by an NTP correction).
// Use time.Since for monotonic elapsed-time measurement inside a process.
package wtime

import (
	"fmt"
	"math"
)

// Source is the operating system time-of-day query.
type Source interface {
	// Gettimeofday returns whole seconds and microseconds since the epoch.
	Gettimeofday() (sec int64, usec int64, err error)
}

// ClockError is returned when the time-of-day query fails.
type ClockError struct {
	Cause error
}

func (e *ClockError) Error() string {
	return fmt.Sprintf("wtime: time-of-day query failed: %v", e.Cause)
}

func (e *ClockError) Unwrap() error {
	return e.Cause
}

// Reader combines the seconds and microseconds reported by a Source into a
// single timestamp. A Reader holds no mutable state and is safe for
// concurrent use.
type Reader struct {
	src Source
}

// NewReader returns a Reader over src. A nil src selects SystemSource.
func NewReader(src Source) *Reader {
	if src == nil {
		src = SystemSource{}
	}
	return &Reader{src: src}
}

// Now returns the current time in seconds since the epoch. On failure it
// returns 0 and a *ClockError; the timestamp is never stale.
func (r *Reader) Now() (float64, error) {
	sec, usec, err := r.src.Gettimeofday()
	if err != nil {
		return 0, &ClockError{Cause: err}
	}
	return FromTimeval(sec, usec), nil
}

// Since returns the seconds elapsed between start and now. The result is
// negative if the wall clock was stepped back past start.
func (r *Reader) Since(start float64) (float64, error) {
	now, err := r.Now()
	if err != nil {
		return 0, err
	}
	return now - start, nil
}

var defaultReader = NewReader(nil)

// Now returns the current wall-clock time from the host clock.
func Now() (float64, error) {
	return defaultReader.Now()
}

// MustNow is like Now but panics if the host clock cannot be read.
func MustNow() float64 {
	ts, err := defaultReader.Now()
	if err != nil {
		panic(err)
	}
	return ts
}

// Since returns the seconds elapsed on the host wall clock since start.
func Since(start float64) (float64, error) {
	return defaultReader.Since(start)
}

// FromTimeval converts a seconds/microseconds pair to floating-point seconds.
func FromTimeval(sec, usec int64) float64 {
	return float64(sec) + float64(usec)*1e-6
}

// Split returns the whole seconds of ts and the fractional remainder in [0, 1).
func Split(ts float64) (sec int64, frac float64) {
	whole := math.Floor(ts)
	return int64(whole), ts - whole
}
