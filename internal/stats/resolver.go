package stats

import (
	"context"
	"fmt"
	"time"

	"prop-tracker/internal/nba"
)

// Provider is the slice of the stats client the resolver needs.
type Provider interface {
	PlayerGameLog(ctx context.Context, playerID int, season string) ([]nba.GameLogRow, error)
	PlayerPeriodGameLogs(ctx context.Context, playerID int, season string, period int) ([]nba.PeriodLogRow, error)
}

// Resolution is the outcome of a stat lookup. Found=false with a Reason means
// the data source answered "no data" (player did not play, no period rows) —
// a legitimate signal, not a failure. Provider failures surface as errors
// from Resolve instead.
type Resolution struct {
	Found  bool
	Value  float64
	Reason string
	Game   *nba.GameLogRow
}

// Resolver locates a player's game by date and extracts a single stat value
// from it, whole-game or period-scoped.
type Resolver struct {
	provider Provider
}

func NewResolver(provider Provider) *Resolver {
	return &Resolver{provider: provider}
}

// SeasonFor derives the season identifier ("2024-25") from a YYYY-MM-DD game
// date. Seasons run October through June: October or later belongs to the
// season starting that year, earlier months to the season started the year
// before.
func SeasonFor(gameDate string) (string, error) {
	t, err := time.Parse("2006-01-02", gameDate)
	if err != nil {
		return "", fmt.Errorf("invalid game date %q: %w", gameDate, err)
	}
	year := t.Year()
	if t.Month() >= time.October {
		return fmt.Sprintf("%d-%02d", year, (year+1)%100), nil
	}
	return fmt.Sprintf("%d-%02d", year-1, year%100), nil
}

// Resolve fetches the game played by playerID on gameDate and extracts the
// requested stat, scoped to period when one is given.
func (r *Resolver) Resolve(ctx context.Context, playerID int, gameDate string, propType PropType, period Period) (*Resolution, error) {
	season, err := SeasonFor(gameDate)
	if err != nil {
		return nil, err
	}

	games, err := r.provider.PlayerGameLog(ctx, playerID, season)
	if err != nil {
		return nil, fmt.Errorf("fetch game log: %w", err)
	}

	game := findGame(games, gameDate)
	if game == nil {
		return &Resolution{
			Found:  false,
			Reason: fmt.Sprintf("no game found for player %d on %s", playerID, gameDate),
		}, nil
	}

	if period == PeriodFullGame {
		return &Resolution{
			Found: true,
			Value: propType.ValueFrom(game.StatLine),
			Game:  game,
		}, nil
	}

	total, found, err := r.periodTotals(ctx, playerID, season, game.GameID, period)
	if err != nil {
		return nil, err
	}
	if !found {
		return &Resolution{
			Found:  false,
			Reason: fmt.Sprintf("period stats not found for game %s", game.GameID),
			Game:   game,
		}, nil
	}

	return &Resolution{
		Found: true,
		Value: propType.ValueFrom(total),
		Game:  game,
	}, nil
}

// GameFor locates the game-log row for an exact date, without extracting a
// stat. Used by miss-context capture, which refetches independently.
func (r *Resolver) GameFor(ctx context.Context, playerID int, gameDate string) (*nba.GameLogRow, error) {
	season, err := SeasonFor(gameDate)
	if err != nil {
		return nil, err
	}
	games, err := r.provider.PlayerGameLog(ctx, playerID, season)
	if err != nil {
		return nil, fmt.Errorf("fetch game log: %w", err)
	}
	return findGame(games, gameDate), nil
}

// periodTotals sums the player's quarter rows for one game across the
// quarters the period covers. A quarter with no row for the game contributes
// nothing; found is false when no quarter had a row at all.
func (r *Resolver) periodTotals(ctx context.Context, playerID int, season, gameID string, period Period) (nba.StatLine, bool, error) {
	var total nba.StatLine
	found := false

	for _, quarter := range period.Quarters() {
		rows, err := r.provider.PlayerPeriodGameLogs(ctx, playerID, season, quarter)
		if err != nil {
			return nba.StatLine{}, false, fmt.Errorf("fetch period %d log: %w", quarter, err)
		}
		for i := range rows {
			if rows[i].GameID == gameID {
				total.Add(rows[i].StatLine)
				found = true
				break
			}
		}
	}

	return total, found, nil
}

func findGame(games []nba.GameLogRow, gameDate string) *nba.GameLogRow {
	for i := range games {
		if games[i].GameDate == gameDate {
			return &games[i]
		}
	}
	return nil
}
