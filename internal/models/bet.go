package models

import (
	"time"
)

type BetResult string

const (
	BetResultWon  BetResult = "won"
	BetResultLost BetResult = "lost"
	BetResultPush BetResult = "push"
)

type PropResult string

const (
	PropResultHit  PropResult = "hit"
	PropResultMiss PropResult = "miss"
)

type OverUnder string

const (
	OverUnderOver  OverUnder = "over"
	OverUnderUnder OverUnder = "under"
)

// Bet represents a single wagering event, possibly a multi-leg parlay.
type Bet struct {
	ID           uint      `gorm:"primaryKey" json:"bet_id"`
	BetDate      string    `gorm:"size:10;not null" json:"bet_date"`
	GameDate     string    `gorm:"size:10;not null" json:"game_date"`
	BetType      string    `gorm:"size:100;not null" json:"bet_type"`
	Odds         float64   `json:"odds"`
	Stake        float64   `json:"stake"`
	PotentialWin float64   `json:"potential_win"`
	Result       *string   `gorm:"size:20" json:"result"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Bet) TableName() string {
	return "bets"
}

// Prop represents one single-player, single-stat leg of a bet. PlayerName is a
// point-in-time snapshot taken at creation and is never re-synced.
type Prop struct {
	ID          uint     `gorm:"primaryKey" json:"prop_id"`
	BetID       uint     `gorm:"not null;index" json:"bet_id"`
	PlayerID    int      `gorm:"not null;index" json:"player_id"`
	PlayerName  string   `gorm:"size:255;not null" json:"player_name"`
	PropType    string   `gorm:"size:20;not null" json:"prop_type"`
	Line        float64  `gorm:"not null" json:"line"`
	OverUnder   string   `gorm:"size:10;not null" json:"over_under"`
	Result      *string  `gorm:"size:10" json:"result"`
	ActualValue *float64 `json:"actual_value"`
}

func (Prop) TableName() string {
	return "props"
}

// BetSummary is a bet annotated with prop counts for the recent-bets listing.
type BetSummary struct {
	Bet
	NumProps  int    `json:"num_props"`
	PropsHit  int    `json:"props_hit"`
	PropsMiss int    `json:"props_miss"`
	Props     []Prop `json:"props"`
}

// CreateBetRequest is the payload for creating a new bet.
type CreateBetRequest struct {
	BetDate  string   `json:"bet_date" binding:"required"`
	GameDate string   `json:"game_date" binding:"required"`
	BetType  string   `json:"bet_type"`
	Odds     *float64 `json:"odds"`
	Stake    *float64 `json:"stake"`
}

// AddPropRequest is the payload for attaching a prop to a bet.
type AddPropRequest struct {
	PlayerID   int     `json:"player_id" binding:"required"`
	PlayerName string  `json:"player_name" binding:"required"`
	PropType   string  `json:"prop_type" binding:"required"`
	Line       float64 `json:"line" binding:"required"`
	OverUnder  string  `json:"over_under"`
}

// MarkBetResultRequest is the payload for marking a bet's result.
type MarkBetResultRequest struct {
	Result string `json:"result" binding:"required"`
}

// MarkPropResultRequest is the payload for manually marking a prop's result.
type MarkPropResultRequest struct {
	Result       string   `json:"result" binding:"required"`
	ActualValue  *float64 `json:"actual_value" binding:"required"`
	CaptureStats *bool    `json:"capture_stats"`
}
