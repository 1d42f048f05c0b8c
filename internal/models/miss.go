package models

import (
	"time"
)

// PropMissStat is a forensic snapshot explaining why a prop missed, captured
// at resolution time and never updated afterward. OpponentTeam is always
// populated ("UNKNOWN" fallback) even when the team id or defensive stats
// could not be resolved.
type PropMissStat struct {
	ID                uint     `gorm:"primaryKey" json:"miss_id"`
	PropID            uint     `gorm:"not null;index" json:"prop_id"`
	PlayerID          int      `gorm:"not null" json:"player_id"`
	PlayerName        string   `gorm:"size:255;not null" json:"player_name"`
	GameDate          string   `gorm:"size:10;not null" json:"game_date"`
	OpponentTeam      string   `gorm:"size:10;not null" json:"opponent_team"`
	OpponentTeamID    *int     `json:"opponent_team_id"`
	PropType          string   `gorm:"size:20;not null" json:"prop_type"`
	Line              float64  `gorm:"not null" json:"line"`
	ActualValue       float64  `gorm:"not null" json:"actual_value"`
	ShootingPct       *float64 `json:"shooting_pct"`
	FGPct             *float64 `json:"fg_pct"`
	FG3Pct            *float64 `json:"fg3_pct"`
	FTPct             *float64 `json:"ft_pct"`
	OpponentDefRating *float64 `json:"opponent_def_rating"`
	OpponentOppPts    *float64 `json:"opponent_opp_pts"`
	MissedBy          float64  `json:"missed_by"`
	CreatedAt         time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (PropMissStat) TableName() string {
	return "prop_miss_stats"
}

// AnalyticsCache stores precomputed leaderboard JSON keyed by query shape.
type AnalyticsCache struct {
	CacheKey  string    `gorm:"primaryKey;size:255" json:"cache_key"`
	Data      string    `gorm:"not null" json:"data"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (AnalyticsCache) TableName() string {
	return "analytics_cache"
}
