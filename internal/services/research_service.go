package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"prop-tracker/internal/nba"
	"prop-tracker/internal/stats"
)

// ResearchFilter narrows the game window a research summary is built from.
// Zero values mean "no filter".
type ResearchFilter struct {
	PlayerID int
	PropType stats.PropType
	Period   stats.Period
	Season   string  // "2024-25"; empty means the season of today
	Opponent string  // team abbreviation, e.g. "DET"
	Result   string  // "W" or "L"
	Line     float64 // hit-rate reference line; 0 means no hit rate
	LastN    int     // most recent N games after filtering; 0 means all
}

// GameSample is one game's contribution to a research summary.
type GameSample struct {
	GameID   string  `json:"game_id"`
	GameDate string  `json:"game_date"`
	Matchup  string  `json:"matchup"`
	Opponent string  `json:"opponent"`
	WinLoss  string  `json:"win_loss"`
	Value    float64 `json:"value"`
}

// ResearchSummary aggregates a stat category over the filtered game window.
type ResearchSummary struct {
	PlayerID   int            `json:"player_id"`
	PropType   stats.PropType `json:"prop_type"`
	Period     stats.Period   `json:"period,omitempty"`
	Season     string         `json:"season"`
	Games      int            `json:"games"`
	Average    float64        `json:"average"`
	Median     float64        `json:"median"`
	Min        float64        `json:"min"`
	Max        float64        `json:"max"`
	StdDev     float64        `json:"std_dev"`
	Line       *float64       `json:"line,omitempty"`
	HitRate    *float64       `json:"hit_rate,omitempty"`
	HitsOver   *int           `json:"hits_over,omitempty"`
	Samples    []GameSample   `json:"samples"`
}

// ResearchService summarizes how a player has produced in a stat category
// across a recent window of games, optionally restricted to a matchup,
// game result, or game segment.
type ResearchService struct {
	provider stats.Provider
	now      func() time.Time
}

func NewResearchService(provider stats.Provider, now func() time.Time) *ResearchService {
	if now == nil {
		now = time.Now
	}
	return &ResearchService{provider: provider, now: now}
}

// PlayerResearch builds the summary for the given filter. An empty window
// yields a summary with Games == 0 and zeroed aggregates rather than an error.
func (s *ResearchService) PlayerResearch(ctx context.Context, f ResearchFilter) (*ResearchSummary, error) {
	if f.PlayerID == 0 {
		return nil, fmt.Errorf("player id is required")
	}
	propType, err := stats.ParsePropType(string(f.PropType))
	if err != nil {
		return nil, err
	}
	f.PropType = propType

	season := f.Season
	if season == "" {
		season, err = stats.SeasonFor(s.now().Format("2006-01-02"))
		if err != nil {
			return nil, err
		}
	}

	samples, err := s.collectSamples(ctx, f, season)
	if err != nil {
		return nil, err
	}

	samples = filterSamples(samples, f)

	// Game logs come back most-recent-first; LastN trims from the front.
	if f.LastN > 0 && len(samples) > f.LastN {
		samples = samples[:f.LastN]
	}

	summary := &ResearchSummary{
		PlayerID: f.PlayerID,
		PropType: f.PropType,
		Period:   f.Period,
		Season:   season,
		Games:    len(samples),
		Samples:  samples,
	}
	if len(samples) == 0 {
		return summary, nil
	}

	values := make([]float64, len(samples))
	for i, g := range samples {
		values[i] = g.Value
	}
	summary.Average = round1(mean(values))
	summary.Median = round1(median(values))
	summary.Min = minOf(values)
	summary.Max = maxOf(values)
	summary.StdDev = round1(stdDev(values))

	if f.Line > 0 {
		line := f.Line
		over := 0
		for _, v := range values {
			if v > line {
				over++
			}
		}
		rate := round1(100 * float64(over) / float64(len(values)))
		summary.Line = &line
		summary.HitRate = &rate
		summary.HitsOver = &over
	}
	return summary, nil
}

// collectSamples reads either the full-game log or, for a segment filter,
// sums the matching quarter rows per game.
func (s *ResearchService) collectSamples(ctx context.Context, f ResearchFilter, season string) ([]GameSample, error) {
	games, err := s.provider.PlayerGameLog(ctx, f.PlayerID, season)
	if err != nil {
		return nil, fmt.Errorf("fetch game log: %w", err)
	}

	if f.Period == stats.PeriodFullGame {
		samples := make([]GameSample, 0, len(games))
		for _, g := range games {
			samples = append(samples, sampleFrom(g, f.PropType.ValueFrom(g.StatLine)))
		}
		return samples, nil
	}

	totals := map[string]nba.StatLine{}
	for _, q := range f.Period.Quarters() {
		rows, err := s.provider.PlayerPeriodGameLogs(ctx, f.PlayerID, season, q)
		if err != nil {
			return nil, fmt.Errorf("fetch period %d log: %w", q, err)
		}
		for _, row := range rows {
			line := totals[row.GameID]
			line.Add(row.StatLine)
			totals[row.GameID] = line
		}
	}

	samples := make([]GameSample, 0, len(games))
	for _, g := range games {
		line, ok := totals[g.GameID]
		if !ok {
			continue
		}
		samples = append(samples, sampleFrom(g, f.PropType.ValueFrom(line)))
	}
	return samples, nil
}

func sampleFrom(g nba.GameLogRow, value float64) GameSample {
	return GameSample{
		GameID:   g.GameID,
		GameDate: g.GameDate,
		Matchup:  g.Matchup,
		Opponent: stats.OpponentFromMatchup(g.Matchup),
		WinLoss:  g.WinLoss,
		Value:    value,
	}
}

func filterSamples(samples []GameSample, f ResearchFilter) []GameSample {
	out := samples[:0]
	for _, g := range samples {
		if f.Opponent != "" && g.Opponent != f.Opponent {
			continue
		}
		if f.Result != "" && g.WinLoss != f.Result {
			continue
		}
		out = append(out, g)
	}
	return out
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
