package models

// BustPlayer is one row of the bust-player leaderboard: a player whose
// resolved props miss often.
type BustPlayer struct {
	PlayerID        int      `json:"player_id"`
	PlayerName      string   `json:"player_name"`
	TotalProps      int      `json:"total_props"`
	Misses          int      `json:"misses"`
	MissRate        float64  `json:"miss_rate"`
	AvgValueWhenMiss *float64 `json:"avg_value_when_miss"`
}

// ToughMatchup is one row of the tough-matchup leaderboard: an opponent team
// that correlates with prop misses.
type ToughMatchup struct {
	OpponentTeam string   `json:"opponent_team"`
	TotalProps   int      `json:"total_props"`
	Misses       int      `json:"misses"`
	MissRate     float64  `json:"miss_rate"`
	AvgDefRating *float64 `json:"avg_def_rating"`
	AvgOppPts    *float64 `json:"avg_opp_pts"`
}

// PlayerVsOpponentStat is one group of a player-vs-opponent breakdown. The
// category is a prop type when a specific opponent is requested, otherwise an
// opponent team abbreviation.
type PlayerVsOpponentStat struct {
	Category       string   `json:"category"`
	Total          int      `json:"total"`
	Misses         int      `json:"misses"`
	AvgMissedBy    *float64 `json:"avg_missed_by"`
	AvgShootingPct *float64 `json:"avg_shooting_pct"`
	AvgDefRating   *float64 `json:"avg_def_rating"`
}
