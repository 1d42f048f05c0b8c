package services

import (
	"context"
	"math"
	"testing"

	"prop-tracker/internal/nba"
	"prop-tracker/internal/stats"
)

func researchProvider() *fakeStatsProvider {
	// Most-recent-first, as the upstream game log is served.
	games := []nba.GameLogRow{
		{GameID: "g3", GameDate: "2024-12-05", Matchup: "DET @ CHI", WinLoss: "W", StatLine: nba.StatLine{Points: 22, Rebounds: 3, Assists: 7}},
		{GameID: "g2", GameDate: "2024-12-03", Matchup: "DET vs. BOS", WinLoss: "L", StatLine: nba.StatLine{Points: 13, Rebounds: 4, Assists: 6}},
		{GameID: "g1", GameDate: "2024-12-01", Matchup: "DET vs. BOS", WinLoss: "L", StatLine: nba.StatLine{Points: 18, Rebounds: 5, Assists: 4}},
	}
	periods := []nba.PeriodLogRow{
		{GameID: "g3", GameDate: "2024-12-05", Period: 1, StatLine: nba.StatLine{Points: 8}},
		{GameID: "g3", GameDate: "2024-12-05", Period: 2, StatLine: nba.StatLine{Points: 6}},
		{GameID: "g2", GameDate: "2024-12-03", Period: 1, StatLine: nba.StatLine{Points: 2}},
		{GameID: "g2", GameDate: "2024-12-03", Period: 2, StatLine: nba.StatLine{Points: 3}},
	}
	return &fakeStatsProvider{
		games:   map[int][]nba.GameLogRow{1631093: games},
		periods: map[int][]nba.PeriodLogRow{1631093: periods},
	}
}

func TestPlayerResearchFullGame(t *testing.T) {
	svc := NewResearchService(researchProvider(), fixedClock())

	sum, err := svc.PlayerResearch(context.Background(), ResearchFilter{
		PlayerID: 1631093,
		PropType: stats.PropPoints,
		Season:   "2024-25",
	})
	if err != nil {
		t.Fatalf("PlayerResearch: %v", err)
	}
	if sum.Games != 3 {
		t.Fatalf("expected 3 games, got %d", sum.Games)
	}
	// Points: 22, 13, 18.
	if math.Abs(sum.Average-17.7) > 1e-9 {
		t.Errorf("average = %v, want 17.7", sum.Average)
	}
	if sum.Median != 18 {
		t.Errorf("median = %v, want 18", sum.Median)
	}
	if sum.Min != 13 || sum.Max != 22 {
		t.Errorf("min/max = %v/%v, want 13/22", sum.Min, sum.Max)
	}
	if sum.Samples[0].Opponent != "CHI" || sum.Samples[1].Opponent != "BOS" {
		t.Errorf("unexpected opponents: %+v", sum.Samples)
	}
}

func TestPlayerResearchHitRate(t *testing.T) {
	svc := NewResearchService(researchProvider(), fixedClock())

	sum, err := svc.PlayerResearch(context.Background(), ResearchFilter{
		PlayerID: 1631093,
		PropType: stats.PropPoints,
		Season:   "2024-25",
		Line:     15.5,
	})
	if err != nil {
		t.Fatalf("PlayerResearch: %v", err)
	}
	// 22 and 18 clear 15.5; 13 does not.
	if sum.HitsOver == nil || *sum.HitsOver != 2 {
		t.Errorf("hits over = %v, want 2", sum.HitsOver)
	}
	if sum.HitRate == nil || *sum.HitRate != 66.7 {
		t.Errorf("hit rate = %v, want 66.7", sum.HitRate)
	}
}

func TestPlayerResearchFilters(t *testing.T) {
	svc := NewResearchService(researchProvider(), fixedClock())
	ctx := context.Background()

	vsBoston, err := svc.PlayerResearch(ctx, ResearchFilter{
		PlayerID: 1631093, PropType: stats.PropPoints, Season: "2024-25", Opponent: "BOS",
	})
	if err != nil {
		t.Fatalf("PlayerResearch: %v", err)
	}
	if vsBoston.Games != 2 {
		t.Errorf("opponent filter: expected 2 games, got %d", vsBoston.Games)
	}

	wins, err := svc.PlayerResearch(ctx, ResearchFilter{
		PlayerID: 1631093, PropType: stats.PropPoints, Season: "2024-25", Result: "W",
	})
	if err != nil {
		t.Fatalf("PlayerResearch: %v", err)
	}
	if wins.Games != 1 || wins.Average != 22 {
		t.Errorf("result filter: got %d games avg %v", wins.Games, wins.Average)
	}

	lastTwo, err := svc.PlayerResearch(ctx, ResearchFilter{
		PlayerID: 1631093, PropType: stats.PropPoints, Season: "2024-25", LastN: 2,
	})
	if err != nil {
		t.Fatalf("PlayerResearch: %v", err)
	}
	if lastTwo.Games != 2 || lastTwo.Samples[0].GameID != "g3" {
		t.Errorf("LastN should keep the most recent games: %+v", lastTwo.Samples)
	}
}

func TestPlayerResearchFirstHalf(t *testing.T) {
	svc := NewResearchService(researchProvider(), fixedClock())

	sum, err := svc.PlayerResearch(context.Background(), ResearchFilter{
		PlayerID: 1631093, PropType: stats.PropPoints, Season: "2024-25", Period: stats.PeriodFirstHalf,
	})
	if err != nil {
		t.Fatalf("PlayerResearch: %v", err)
	}
	// g3 first half = 8+6 = 14, g2 = 2+3 = 5; g1 has no quarter rows.
	if sum.Games != 2 {
		t.Fatalf("expected 2 games with quarter data, got %d", sum.Games)
	}
	if sum.Max != 14 || sum.Min != 5 {
		t.Errorf("min/max = %v/%v, want 5/14", sum.Min, sum.Max)
	}
}

func TestPlayerResearchCombinationProp(t *testing.T) {
	svc := NewResearchService(researchProvider(), fixedClock())

	sum, err := svc.PlayerResearch(context.Background(), ResearchFilter{
		PlayerID: 1631093, PropType: stats.PropPRA, Season: "2024-25",
	})
	if err != nil {
		t.Fatalf("PlayerResearch: %v", err)
	}
	// PRA: 32, 23, 27.
	if sum.Max != 32 || sum.Min != 23 {
		t.Errorf("min/max = %v/%v, want 23/32", sum.Min, sum.Max)
	}
}

func TestPlayerResearchEmptyWindow(t *testing.T) {
	svc := NewResearchService(researchProvider(), fixedClock())

	sum, err := svc.PlayerResearch(context.Background(), ResearchFilter{
		PlayerID: 1631093, PropType: stats.PropPoints, Season: "2024-25", Opponent: "MIA",
	})
	if err != nil {
		t.Fatalf("empty window is not an error: %v", err)
	}
	if sum.Games != 0 || sum.Average != 0 {
		t.Errorf("expected zeroed summary, got %+v", sum)
	}
}

func TestPlayerResearchValidation(t *testing.T) {
	svc := NewResearchService(researchProvider(), fixedClock())
	ctx := context.Background()

	if _, err := svc.PlayerResearch(ctx, ResearchFilter{PropType: stats.PropPoints}); err == nil {
		t.Error("expected error for missing player id")
	}
	if _, err := svc.PlayerResearch(ctx, ResearchFilter{PlayerID: 1, PropType: "dunks"}); err == nil {
		t.Error("expected error for unknown prop type")
	}
}
