// Package matchclock implements the timer channel shared with the host
// rendering layer.
//
// The host owns the clock; the engine only stores and redistributes the raw
// value. One float64 carries three shapes:
//
//	raw >= 0   countdown, raw seconds remain
//	raw == -1  hidden, no timer is shown
//	raw < -1   stopwatch, elapsed seconds are abs(raw + 0.1)
//
// The -0.1 bias keeps encoded stopwatch values away from the hidden
// sentinel. Decode tolerates the whole negative range below the sentinel's
// neighborhood so a fresh stopwatch (encoded -0.1) still reads as zero
// elapsed.
package matchclock

import (
	"fmt"
	"math"
	"strconv"
)

// Kind classifies a timer reading.
type Kind string

const (
	KindCountdown Kind = "countdown"
	KindHidden    Kind = "hidden"
	KindElapsed   Kind = "elapsed"
)

const (
	hiddenSentinel = -1
	elapsedBias    = 0.1
)

// ParseKind maps a config string onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindCountdown, KindHidden, KindElapsed:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown timer kind %q", s)
}

// Reading is the decoded form of one raw timer value. Seconds holds the
// remaining time for a countdown and the elapsed time for a stopwatch; it is
// zero when the timer is hidden.
type Reading struct {
	Kind    Kind    `json:"kind"`
	Seconds float64 `json:"seconds"`
}

// Decode classifies a raw timer value.
func Decode(raw float64) Reading {
	switch {
	case raw >= 0:
		return Reading{Kind: KindCountdown, Seconds: raw}
	case raw == hiddenSentinel:
		return Reading{Kind: KindHidden}
	default:
		return Reading{Kind: KindElapsed, Seconds: math.Abs(raw + elapsedBias)}
	}
}

// Encode maps a kind and its seconds onto the raw channel value.
func Encode(kind Kind, seconds float64) float64 {
	switch kind {
	case KindHidden:
		return EncodeHidden()
	case KindElapsed:
		return EncodeElapsed(seconds)
	default:
		return EncodeCountdown(seconds)
	}
}

// EncodeCountdown returns the raw value for remaining seconds.
func EncodeCountdown(remaining float64) float64 {
	if remaining < 0 {
		return 0
	}
	return remaining
}

// EncodeHidden returns the sentinel for a hidden timer.
func EncodeHidden() float64 {
	return hiddenSentinel
}

// EncodeElapsed returns the raw value for a stopwatch at elapsed seconds.
func EncodeElapsed(elapsed float64) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	return -(elapsed + elapsedBias)
}

// Display renders the reading the way the HUD shows it: countdowns at or
// above a minute as M:SS, shorter countdowns as whole floored seconds,
// stopwatches with centiseconds, hidden timers as an empty string.
func (r Reading) Display() string {
	switch r.Kind {
	case KindCountdown:
		total := int(math.Floor(r.Seconds))
		if total >= 60 {
			return fmt.Sprintf("%d:%02d", total/60, total%60)
		}
		return strconv.Itoa(total)
	case KindElapsed:
		if r.Seconds >= 60 {
			minutes := int(r.Seconds) / 60
			return fmt.Sprintf("%d:%05.2f", minutes, r.Seconds-float64(minutes*60))
		}
		return fmt.Sprintf("%.2f", r.Seconds)
	default:
		return ""
	}
}
