package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"prop-tracker/internal/cache"
	"prop-tracker/internal/metrics"
	"prop-tracker/internal/nba"
	"prop-tracker/internal/stats"
)

const playerDirectoryKey = "active_players"

// DirectoryProvider is the slice of the stats client the player service needs.
type DirectoryProvider interface {
	ListPlayers(ctx context.Context, season string) ([]nba.Player, error)
	PlayerProfile(ctx context.Context, playerID int) (*nba.PlayerProfile, error)
}

// PlayerSearchResult is one directory match served to clients.
type PlayerSearchResult struct {
	PlayerID    int    `json:"player_id"`
	FullName    string `json:"full_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	HeadshotURL string `json:"headshot_url"`
}

// PlayerService answers player searches from a cached active-player
// directory and serves cached per-player profiles. Both caches refresh lazily
// inline; an expired entry costs the caller the full refetch.
type PlayerService struct {
	provider  DirectoryProvider
	directory *cache.Store[[]nba.Player]
	profiles  *cache.Store[*nba.PlayerProfile]
	now       func() time.Time
}

func NewPlayerService(provider DirectoryProvider, directoryTTL, profileTTL time.Duration, now func() time.Time) *PlayerService {
	if now == nil {
		now = time.Now
	}
	return &PlayerService{
		provider:  provider,
		directory: cache.New[[]nba.Player](directoryTTL, now),
		profiles:  cache.New[*nba.PlayerProfile](profileTTL, now),
		now:       now,
	}
}

// SearchPlayers matches the query case-insensitively against full, first, and
// last names of the active-player directory.
func (s *PlayerService) SearchPlayers(ctx context.Context, query string, limit int) ([]PlayerSearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []PlayerSearchResult{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	players, err := s.activePlayers(ctx)
	if err != nil {
		return nil, err
	}

	matches := []PlayerSearchResult{}
	for _, p := range players {
		if !strings.Contains(strings.ToLower(p.FullName), query) &&
			!strings.Contains(strings.ToLower(p.FirstName), query) &&
			!strings.Contains(strings.ToLower(p.LastName), query) {
			continue
		}
		matches = append(matches, PlayerSearchResult{
			PlayerID:    p.ID,
			FullName:    p.FullName,
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			HeadshotURL: headshotURL(p.ID),
		})
		if len(matches) >= limit {
			break
		}
	}
	return matches, nil
}

// GetPlayerByID serves a player profile, cached per player.
func (s *PlayerService) GetPlayerByID(ctx context.Context, playerID int) (*nba.PlayerProfile, error) {
	key := strconv.Itoa(playerID)
	if profile, ok := s.profiles.Get(key); ok {
		metrics.CacheHits.WithLabelValues("player_profile").Inc()
		return profile, nil
	}
	metrics.CacheMisses.WithLabelValues("player_profile").Inc()

	profile, err := s.provider.PlayerProfile(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("fetch player profile: %w", err)
	}
	if profile == nil {
		return nil, nil
	}
	s.profiles.Set(key, profile)
	return profile, nil
}

// activePlayers serves the active-player directory, refreshing the snapshot
// when the TTL has lapsed.
func (s *PlayerService) activePlayers(ctx context.Context) ([]nba.Player, error) {
	if players, ok := s.directory.Get(playerDirectoryKey); ok {
		metrics.CacheHits.WithLabelValues("player_directory").Inc()
		return players, nil
	}
	metrics.CacheMisses.WithLabelValues("player_directory").Inc()

	season, err := stats.SeasonFor(s.now().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	all, err := s.provider.ListPlayers(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load player directory: %w", err)
	}

	active := make([]nba.Player, 0, len(all))
	for _, p := range all {
		if p.Active {
			active = append(active, p)
		}
	}

	s.directory.Set(playerDirectoryKey, active)
	return active, nil
}

func headshotURL(playerID int) string {
	return fmt.Sprintf("https://cdn.nba.com/headshots/nba/latest/260x190/%d.png", playerID)
}
