package descent

import "sync/atomic"

// Signal is the invalidation flag shared between a planning session and any
// actor that mutates the obstacle or goal configuration. The zero value is an
// unset flag; it is safe for concurrent use.
type Signal struct {
	flag atomic.Bool
}

// Set requests that in-flight path following stops at its next iteration.
func (s *Signal) Set() { s.flag.Store(true) }

// Clear resets the flag without observing it.
func (s *Signal) Clear() { s.flag.Store(false) }

// IsSet reports the flag without clearing it.
func (s *Signal) IsSet() bool { return s.flag.Load() }

// TestAndClear atomically clears the flag and reports whether it was set.
func (s *Signal) TestAndClear() bool { return s.flag.Swap(false) }
