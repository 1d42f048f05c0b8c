package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"prop-tracker/internal/models"
	"prop-tracker/internal/repository"
)

// AnalyticsService serves the bust-player and tough-matchup leaderboards and
// player-vs-opponent breakdowns, with a TTL-bounded read-through cache on the
// leaderboards.
type AnalyticsService struct {
	repo     *repository.Repository
	cacheTTL time.Duration
}

func NewAnalyticsService(repo *repository.Repository, cacheTTL time.Duration) *AnalyticsService {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &AnalyticsService{repo: repo, cacheTTL: cacheTTL}
}

// GetBustPlayers ranks players by miss rate over their resolved props.
func (s *AnalyticsService) GetBustPlayers(ctx context.Context, minProps int, refresh bool) ([]models.BustPlayer, error) {
	key := fmt.Sprintf("bust_players_%d", minProps)

	if !refresh {
		var cached []models.BustPlayer
		if ok := s.readCache(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	rows, err := s.repo.BustPlayers(ctx, minProps)
	if err != nil {
		return nil, fmt.Errorf("bust players: %w", err)
	}
	s.writeCache(ctx, key, rows)
	return rows, nil
}

// GetToughMatchups ranks opponent teams by miss rate over capture-joined props.
func (s *AnalyticsService) GetToughMatchups(ctx context.Context, minGames int, refresh bool) ([]models.ToughMatchup, error) {
	key := fmt.Sprintf("tough_matchups_%d", minGames)

	if !refresh {
		var cached []models.ToughMatchup
		if ok := s.readCache(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	rows, err := s.repo.ToughMatchups(ctx, minGames)
	if err != nil {
		return nil, fmt.Errorf("tough matchups: %w", err)
	}
	s.writeCache(ctx, key, rows)
	return rows, nil
}

// GetPlayerVsOpponentStats breaks one player's captured props down by prop
// type within a given opponent, or by opponent when none is given.
func (s *AnalyticsService) GetPlayerVsOpponentStats(ctx context.Context, playerID int, opponentTeam string) ([]models.PlayerVsOpponentStat, error) {
	rows, err := s.repo.PlayerVsOpponent(ctx, playerID, opponentTeam)
	if err != nil {
		return nil, fmt.Errorf("player vs opponent: %w", err)
	}
	return rows, nil
}

func (s *AnalyticsService) readCache(ctx context.Context, key string, out interface{}) bool {
	data, ok, err := s.repo.GetAnalyticsCache(ctx, key, s.cacheTTL)
	if err != nil {
		log.Printf("[Analytics] Cache read error for %s: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		log.Printf("[Analytics] Cache decode error for %s: %v", key, err)
		return false
	}
	return true
}

func (s *AnalyticsService) writeCache(ctx context.Context, key string, rows interface{}) {
	data, err := json.Marshal(rows)
	if err != nil {
		log.Printf("[Analytics] Cache encode error for %s: %v", key, err)
		return
	}
	if err := s.repo.SetAnalyticsCache(ctx, key, string(data)); err != nil {
		log.Printf("[Analytics] Cache write error for %s: %v", key, err)
	}
}
