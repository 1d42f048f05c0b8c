package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"prop-tracker/internal/nba"
)

type fakeDirectory struct {
	players      []nba.Player
	profiles     map[int]*nba.PlayerProfile
	listCalls    int
	profileCalls int
	err          error
}

func (f *fakeDirectory) ListPlayers(ctx context.Context, season string) ([]nba.Player, error) {
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.players, nil
}

func (f *fakeDirectory) PlayerProfile(ctx context.Context, playerID int) (*nba.PlayerProfile, error) {
	f.profileCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles[playerID], nil
}

func testDirectory() *fakeDirectory {
	return &fakeDirectory{
		players: []nba.Player{
			{ID: 1631093, FullName: "Jaden Ivey", FirstName: "Jaden", LastName: "Ivey", Active: true},
			{ID: 2544, FullName: "LeBron James", FirstName: "LeBron", LastName: "James", Active: true},
			{ID: 1495, FullName: "Tim Duncan", FirstName: "Tim", LastName: "Duncan", Active: false},
		},
		profiles: map[int]*nba.PlayerProfile{
			1631093: {ID: 1631093, FullName: "Jaden Ivey", TeamName: "Detroit Pistons"},
		},
	}
}

func fixedClock() func() time.Time {
	now := time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func TestSearchPlayers(t *testing.T) {
	dir := testDirectory()
	svc := NewPlayerService(dir, time.Hour, 24*time.Hour, fixedClock())
	ctx := context.Background()

	results, err := svc.SearchPlayers(ctx, "ivey", 10)
	if err != nil {
		t.Fatalf("SearchPlayers: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 match, got %d", len(results))
	}
	got := results[0]
	if got.PlayerID != 1631093 || got.FullName != "Jaden Ivey" {
		t.Errorf("unexpected match: %+v", got)
	}
	if got.HeadshotURL != "https://cdn.nba.com/headshots/nba/latest/260x190/1631093.png" {
		t.Errorf("unexpected headshot URL: %s", got.HeadshotURL)
	}
}

func TestSearchPlayersCaseAndParts(t *testing.T) {
	svc := NewPlayerService(testDirectory(), time.Hour, 24*time.Hour, fixedClock())
	ctx := context.Background()

	for _, q := range []string{"JADEN", "Ivey", "jaden ivey"} {
		results, err := svc.SearchPlayers(ctx, q, 10)
		if err != nil {
			t.Fatalf("SearchPlayers(%q): %v", q, err)
		}
		if len(results) != 1 {
			t.Errorf("query %q: expected 1 match, got %d", q, len(results))
		}
	}

	// Inactive players never appear.
	results, _ := svc.SearchPlayers(ctx, "duncan", 10)
	if len(results) != 0 {
		t.Errorf("inactive player should not match, got %d", len(results))
	}

	// Blank query returns nothing without a directory fetch.
	empty, err := svc.SearchPlayers(ctx, "   ", 10)
	if err != nil || len(empty) != 0 {
		t.Errorf("blank query: got %d results, err %v", len(empty), err)
	}
}

func TestSearchPlayersUsesDirectoryCache(t *testing.T) {
	dir := testDirectory()
	svc := NewPlayerService(dir, time.Hour, 24*time.Hour, fixedClock())
	ctx := context.Background()

	svc.SearchPlayers(ctx, "james", 10)
	svc.SearchPlayers(ctx, "ivey", 10)
	if dir.listCalls != 1 {
		t.Errorf("directory should be fetched once within TTL, got %d calls", dir.listCalls)
	}
}

func TestSearchPlayersLimit(t *testing.T) {
	svc := NewPlayerService(testDirectory(), time.Hour, 24*time.Hour, fixedClock())
	results, err := svc.SearchPlayers(context.Background(), "a", 1)
	if err != nil {
		t.Fatalf("SearchPlayers: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("limit=1 should cap results, got %d", len(results))
	}
}

func TestGetPlayerByIDCachesProfile(t *testing.T) {
	dir := testDirectory()
	svc := NewPlayerService(dir, time.Hour, 24*time.Hour, fixedClock())
	ctx := context.Background()

	p1, err := svc.GetPlayerByID(ctx, 1631093)
	if err != nil {
		t.Fatalf("GetPlayerByID: %v", err)
	}
	if p1 == nil || p1.FullName != "Jaden Ivey" {
		t.Fatalf("unexpected profile: %+v", p1)
	}

	p2, err := svc.GetPlayerByID(ctx, 1631093)
	if err != nil {
		t.Fatalf("GetPlayerByID: %v", err)
	}
	if p2 != p1 {
		t.Errorf("second read should come from cache")
	}
	if dir.profileCalls != 1 {
		t.Errorf("profile should be fetched once, got %d calls", dir.profileCalls)
	}
}

func TestGetPlayerByIDUpstreamError(t *testing.T) {
	dir := testDirectory()
	dir.err = errors.New("timeout")
	svc := NewPlayerService(dir, time.Hour, 24*time.Hour, fixedClock())

	if _, err := svc.GetPlayerByID(context.Background(), 1631093); err == nil {
		t.Fatal("expected upstream error")
	}
}
