package stats

import (
	"fmt"
	"strings"
)

// Outcome is the result of evaluating an actual value against a line.
type Outcome string

const (
	OutcomeHit  Outcome = "hit"
	OutcomeMiss Outcome = "miss"
)

// Direction is the side of the line the wager takes.
type Direction string

const (
	DirectionOver  Direction = "over"
	DirectionUnder Direction = "under"
)

// ParseDirection validates an over/under label.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionOver:
		return DirectionOver, nil
	case DirectionUnder:
		return DirectionUnder, nil
	}
	return "", fmt.Errorf("unknown over/under direction %q", s)
}

// Evaluate computes the outcome of a prop. Over hits on a strictly greater
// actual, under on a strictly lower one; an exact line match is a miss on
// either side.
func Evaluate(actual, line float64, direction Direction) Outcome {
	if direction == DirectionOver {
		if actual > line {
			return OutcomeHit
		}
		return OutcomeMiss
	}
	if actual < line {
		return OutcomeHit
	}
	return OutcomeMiss
}

// MissedBy is the signed distance from the line: positive when the actual
// value fell short of it.
func MissedBy(line, actual float64) float64 {
	return line - actual
}
