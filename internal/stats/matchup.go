package stats

import "strings"

// UnknownOpponent is recorded when the matchup string carries no recognizable
// separator.
const UnknownOpponent = "UNKNOWN"

// OpponentFromMatchup extracts the opponent abbreviation from an upstream
// matchup string: "DET @ LAL" (away) or "DET vs. LAL" (home), opponent second
// in both forms.
func OpponentFromMatchup(matchup string) string {
	if _, after, ok := strings.Cut(matchup, " @ "); ok {
		return strings.TrimSpace(after)
	}
	if _, after, ok := strings.Cut(matchup, " vs. "); ok {
		return strings.TrimSpace(after)
	}
	return UnknownOpponent
}
