package tariff

import (
	"fmt"
	"strings"
	"time"
)

// ClockTime is a time of day without a date, e.g. "18:00".
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

// Clock is shorthand for building a ClockTime.
func Clock(hour, minute int) ClockTime {
	return ClockTime{Hour: hour, Minute: minute}
}

// ClockOf returns the wall clock time of t in t's own location.
func ClockOf(t time.Time) ClockTime {
	h, m, s := t.Clock()
	return ClockTime{Hour: h, Minute: m, Second: s}
}

// ParseClock parses "HH:MM" or "HH:MM:SS". "24:00" is accepted as midnight.
func ParseClock(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	var c ClockTime
	var err error
	switch strings.Count(s, ":") {
	case 1:
		_, err = fmt.Sscanf(s, "%d:%d", &c.Hour, &c.Minute)
	case 2:
		_, err = fmt.Sscanf(s, "%d:%d:%d", &c.Hour, &c.Minute, &c.Second)
	default:
		return ClockTime{}, fmt.Errorf("invalid clock time %q (use HH:MM)", s)
	}
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if c.Hour == 24 && c.Minute == 0 && c.Second == 0 {
		c.Hour = 0
	}
	if !c.valid() {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: out of range", s)
	}
	return c, nil
}

func (c ClockTime) valid() bool {
	return c.Hour >= 0 && c.Hour < 24 &&
		c.Minute >= 0 && c.Minute < 60 &&
		c.Second >= 0 && c.Second < 60
}

// seconds returns the offset from midnight in seconds.
func (c ClockTime) seconds() int {
	return c.Hour*3600 + c.Minute*60 + c.Second
}

// Before reports whether c is earlier in the day than o.
func (c ClockTime) Before(o ClockTime) bool {
	return c.seconds() < o.seconds()
}

func (c ClockTime) String() string {
	if c.Second != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
	}
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
