package services

import (
	"context"
	"fmt"
	"log"

	"prop-tracker/internal/metrics"
	"prop-tracker/internal/models"
	"prop-tracker/internal/nba"
	"prop-tracker/internal/repository"
	"prop-tracker/internal/stats"
)

// DefenseProvider is the slice of the stats client the capturer needs beyond
// game lookup.
type DefenseProvider interface {
	TeamDefense(ctx context.Context, teamID int, season string) (*nba.TeamDefense, error)
}

// CaptureService records a forensic snapshot of why a prop missed: the
// opponent, the player's shooting splits for that game, and the opponent's
// season-to-date defensive profile. Capture is best-effort telemetry — every
// field is resolved independently and a partial record beats none.
type CaptureService struct {
	resolver *stats.Resolver
	defense  DefenseProvider
	repo     *repository.Repository
}

func NewCaptureService(resolver *stats.Resolver, defense DefenseProvider, repo *repository.Repository) *CaptureService {
	return &CaptureService{
		resolver: resolver,
		defense:  defense,
		repo:     repo,
	}
}

// CaptureMiss derives and persists the miss-context record for a prop. The
// game log is refetched rather than reusing any prior resolution. A missing
// game aborts capture without error; only the final persist can fail.
func (s *CaptureService) CaptureMiss(ctx context.Context, prop *models.Prop, gameDate string, actualValue float64) error {
	game, err := s.resolver.GameFor(ctx, prop.PlayerID, gameDate)
	if err != nil {
		metrics.Captures.WithLabelValues("failed").Inc()
		return fmt.Errorf("locate game: %w", err)
	}
	if game == nil {
		log.Printf("[Capture] No game found for %s on %s, skipping capture", prop.PlayerName, gameDate)
		metrics.Captures.WithLabelValues("skipped").Inc()
		return nil
	}

	opponent := stats.OpponentFromMatchup(game.Matchup)

	var opponentTeamID *int
	if id, ok := nba.TeamIDByAbbreviation(opponent); ok {
		opponentTeamID = &id
	}

	fgPct := scalePct(game.FGPct)
	fg3Pct := scalePct(game.FG3Pct)
	ftPct := scalePct(game.FTPct)
	shootingPct := weightedShootingPct(fgPct, fg3Pct, ftPct, game.FGA, game.FG3A, game.FTA)

	var defRating, oppPts *float64
	if opponentTeamID != nil {
		season, err := stats.SeasonFor(gameDate)
		if err == nil {
			def, err := s.defense.TeamDefense(ctx, *opponentTeamID, season)
			if err != nil {
				log.Printf("[Capture] Defensive stats unavailable for %s: %v", opponent, err)
			} else if def != nil {
				defRating = def.DefRating
				oppPts = def.OppPtsPerGame
			}
		}
	}

	stat := &models.PropMissStat{
		PropID:            prop.ID,
		PlayerID:          prop.PlayerID,
		PlayerName:        prop.PlayerName,
		GameDate:          gameDate,
		OpponentTeam:      opponent,
		OpponentTeamID:    opponentTeamID,
		PropType:          prop.PropType,
		Line:              prop.Line,
		ActualValue:       actualValue,
		ShootingPct:       shootingPct,
		FGPct:             fgPct,
		FG3Pct:            fg3Pct,
		FTPct:             ftPct,
		OpponentDefRating: defRating,
		OpponentOppPts:    oppPts,
		MissedBy:          stats.MissedBy(prop.Line, actualValue),
	}

	if err := s.repo.ReplaceMissStat(ctx, stat); err != nil {
		metrics.Captures.WithLabelValues("failed").Inc()
		return fmt.Errorf("persist miss stats: %w", err)
	}

	metrics.Captures.WithLabelValues("ok").Inc()
	log.Printf("[Capture] Captured miss stats for %s vs %s", prop.PlayerName, opponent)
	return nil
}

// scalePct converts an upstream shooting fraction to a percentage, nil when
// the fraction is zero (the upstream serves 0 for "did not attempt").
func scalePct(fraction float64) *float64 {
	if fraction == 0 {
		return nil
	}
	pct := fraction * 100
	return &pct
}

// weightedShootingPct blends FG/3P/FT percentages weighted by attempts.
// Missing components contribute 0; nil when the player attempted nothing.
func weightedShootingPct(fgPct, fg3Pct, ftPct *float64, fga, fg3a, fta int) *float64 {
	total := fga + fg3a + fta
	if total == 0 {
		return nil
	}
	blended := (deref(fgPct)*float64(fga) + deref(fg3Pct)*float64(fg3a) + deref(ftPct)*float64(fta)) / float64(total)
	return &blended
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
