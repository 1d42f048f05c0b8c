package nba

import (
	"strings"
	"time"
)

// StatLine holds the counting stats shared by full-game rows and quarter
// rows. Missing upstream cells default to 0.
type StatLine struct {
	Points    int `json:"pts"`
	Rebounds  int `json:"reb"`
	Assists   int `json:"ast"`
	Steals    int `json:"stl"`
	Blocks    int `json:"blk"`
	Threes    int `json:"fg3m"`
	Turnovers int `json:"tov"`
	FGM       int `json:"fgm"`
	FGA       int `json:"fga"`
	FG3A      int `json:"fg3a"`
	FTM       int `json:"ftm"`
	FTA       int `json:"fta"`
}

// Add accumulates other into the line, field by field.
func (l *StatLine) Add(other StatLine) {
	l.Points += other.Points
	l.Rebounds += other.Rebounds
	l.Assists += other.Assists
	l.Steals += other.Steals
	l.Blocks += other.Blocks
	l.Threes += other.Threes
	l.Turnovers += other.Turnovers
	l.FGM += other.FGM
	l.FGA += other.FGA
	l.FG3A += other.FG3A
	l.FTM += other.FTM
	l.FTA += other.FTA
}

// GameLogRow is one game of a player's season game log.
type GameLogRow struct {
	GameID   string
	GameDate string // YYYY-MM-DD
	Matchup  string
	WinLoss  string
	Minutes  float64
	StatLine
	FGPct  float64 // fractions as served upstream, e.g. 0.458
	FG3Pct float64
	FTPct  float64
}

// PeriodLogRow is one game of a quarter-scoped game log.
type PeriodLogRow struct {
	GameID   string
	GameDate string
	Matchup  string
	WinLoss  string
	Period   int
	StatLine
}

// Player is one entry of the league player directory.
type Player struct {
	ID               int    `json:"player_id"`
	FullName         string `json:"full_name"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Active           bool   `json:"is_active"`
	TeamID           int    `json:"team_id"`
	TeamAbbreviation string `json:"team_abbreviation"`
}

// PlayerProfile is a player's demographic and season-average snapshot.
type PlayerProfile struct {
	ID               int     `json:"player_id"`
	FullName         string  `json:"full_name"`
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	TeamID           int     `json:"team_id"`
	TeamName         string  `json:"team_name"`
	TeamAbbreviation string  `json:"team_abbreviation"`
	Position         string  `json:"position"`
	Points           float64 `json:"pts"`
	Rebounds         float64 `json:"reb"`
	Assists          float64 `json:"ast"`
}

// TeamDefense is a team's season-to-date defensive profile.
type TeamDefense struct {
	TeamID        int      `json:"team_id"`
	DefRating     *float64 `json:"def_rating"`
	OppPtsPerGame *float64 `json:"opp_pts"`
}

// statsResponse is the stats.nba.com envelope: named result sets of
// positional rows described by a header list.
type statsResponse struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

func (resp *statsResponse) set(name string) *resultSet {
	for i := range resp.ResultSets {
		if resp.ResultSets[i].Name == name {
			return &resp.ResultSets[i]
		}
	}
	return nil
}

func (resp *statsResponse) first() *resultSet {
	if len(resp.ResultSets) == 0 {
		return nil
	}
	return &resp.ResultSets[0]
}

// rows materializes the set as header-addressable rows.
func (rs *resultSet) rows() []row {
	idx := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		idx[h] = i
	}
	out := make([]row, len(rs.RowSet))
	for i, cells := range rs.RowSet {
		out[i] = row{idx: idx, cells: cells}
	}
	return out
}

type row struct {
	idx   map[string]int
	cells []interface{}
}

func (r row) cell(col string) interface{} {
	i, ok := r.idx[col]
	if !ok || i >= len(r.cells) {
		return nil
	}
	return r.cells[i]
}

func (r row) str(col string) string {
	if s, ok := r.cell(col).(string); ok {
		return s
	}
	return ""
}

// f64 returns the numeric cell value, 0 for missing or null cells.
func (r row) f64(col string) float64 {
	if f, ok := r.cell(col).(float64); ok {
		return f
	}
	return 0
}

func (r row) i(col string) int {
	return int(r.f64(col))
}

func (r row) statLine() StatLine {
	return StatLine{
		Points:    r.i("PTS"),
		Rebounds:  r.i("REB"),
		Assists:   r.i("AST"),
		Steals:    r.i("STL"),
		Blocks:    r.i("BLK"),
		Threes:    r.i("FG3M"),
		Turnovers: r.i("TOV"),
		FGM:       r.i("FGM"),
		FGA:       r.i("FGA"),
		FG3A:      r.i("FG3A"),
		FTM:       r.i("FTM"),
		FTA:       r.i("FTA"),
	}
}

// gameDateLayouts covers the formats stats endpoints serve dates in.
var gameDateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
	"Jan 02, 2006",
}

// normalizeGameDate converts an upstream GAME_DATE cell to YYYY-MM-DD. The
// raw string is returned unchanged when no layout matches.
func normalizeGameDate(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range gameDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}
