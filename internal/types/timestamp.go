package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AudioTimestamp is a non-negative duration with millisecond precision,
// stored internally as a double-precision seconds value.
type AudioTimestamp struct {
	seconds float64
}

// NewAudioTimestamp constructs a timestamp from a seconds value. Negative
// values are clamped to zero.
func NewAudioTimestamp(seconds float64) AudioTimestamp {
	if seconds < 0 {
		seconds = 0
	}
	return AudioTimestamp{seconds: seconds}
}

// AudioTimestampFromMillis constructs a timestamp from a millisecond count.
func AudioTimestampFromMillis(ms int64) AudioTimestamp {
	if ms < 0 {
		ms = 0
	}
	return AudioTimestamp{seconds: float64(ms) / 1000.0}
}

// Seconds returns the timestamp as seconds.
func (t AudioTimestamp) Seconds() float64 { return t.seconds }

// Millis returns the timestamp rounded to the nearest millisecond.
func (t AudioTimestamp) Millis() int64 {
	return int64(math.Round(t.seconds * 1000))
}

// String renders HH:MM:SS when the fractional part rounds to zero,
// HH:MM:SS.mmm otherwise.
func (t AudioTimestamp) String() string {
	totalMs := t.Millis()
	hours := totalMs / 3600000
	minutes := (totalMs % 3600000) / 60000
	secs := (totalMs % 60000) / 1000
	millis := totalMs % 1000

	if millis == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, secs, millis)
}

// InvalidTimestampFormatError is returned when a textual timestamp cannot be parsed.
type InvalidTimestampFormatError struct {
	Input string
}

func (e *InvalidTimestampFormatError) Error() string {
	return fmt.Sprintf("invalid timestamp format: %q", e.Input)
}

// ParseAudioTimestamp parses MM:SS[.mmm] or HH:MM:SS[.mmm].
func ParseAudioTimestamp(s string) (AudioTimestamp, error) {
	fail := func() (AudioTimestamp, error) {
		return AudioTimestamp{}, &InvalidTimestampFormatError{Input: s}
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return fail()
	}

	var hours, minutes int
	var secStr string
	switch len(parts) {
	case 2:
		minutes64, err := strconv.Atoi(parts[0])
		if err != nil {
			return fail()
		}
		minutes = minutes64
		secStr = parts[1]
	case 3:
		h, err := strconv.Atoi(parts[0])
		if err != nil {
			return fail()
		}
		m, err := strconv.Atoi(parts[1])
		if err != nil {
			return fail()
		}
		hours = h
		minutes = m
		secStr = parts[2]
	}

	secs, err := strconv.ParseFloat(secStr, 64)
	if err != nil {
		return fail()
	}
	if hours < 0 || minutes < 0 || secs < 0 {
		return fail()
	}

	total := float64(hours)*3600 + float64(minutes)*60 + secs
	return NewAudioTimestamp(total), nil
}
