package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration is a config timing such as "100ms" or "1.7s". A bare number
// (as a string) is read as milliseconds.
type Duration time.Duration

// UnmarshalText parses a duration from the config file.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))

	var dur time.Duration
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		dur = time.Duration(ms) * time.Millisecond
	} else if dur, err = time.ParseDuration(s); err != nil {
		return fmt.Errorf("invalid duration %q, want e.g. \"100ms\" or \"1.7s\"", s)
	}

	if dur < 0 {
		return fmt.Errorf("duration %q must not be negative", s)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText writes the duration in Go notation, e.g. "300ms".
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration().String()), nil
}

// Duration returns the value as a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
