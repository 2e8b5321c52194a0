package matchtypes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedScore is returned when an authoritative score string cannot be
// parsed.
var ErrMalformedScore = errors.New("malformed score string")

// Score maps a combatant slot to its round-win count. Under modes with no
// fixed win target the tallies carry mode-specific meaning instead: survived
// rounds in survival, defeated opponents in time attack.
type Score map[SlotID]int

// Clone returns an independent copy with both slots materialized.
func (s Score) Clone() Score {
	out := Score{SlotPlayer1: 0, SlotPlayer2: 0}
	for slot, wins := range s {
		out[slot] = wins
	}
	return out
}

// FormatScore renders the canonical "W-L" form, player one first.
func FormatScore(s Score) string {
	return fmt.Sprintf("%d-%d", s[SlotPlayer1], s[SlotPlayer2])
}

// ParseScore parses the canonical "W-L" form. Anything else, including
// negative counts and extra separators, is ErrMalformedScore.
func ParseScore(raw string) (Score, error) {
	parts := strings.Split(raw, "-")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedScore, raw)
	}
	wins, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedScore, raw)
	}
	losses, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedScore, raw)
	}
	return Score{SlotPlayer1: wins, SlotPlayer2: losses}, nil
}
