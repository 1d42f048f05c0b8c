package services

import (
	"context"
	"math"
	"testing"

	"prop-tracker/internal/models"
	"prop-tracker/internal/stats"
)

func TestCalculatePayout(t *testing.T) {
	tests := []struct {
		name  string
		odds  float64
		stake float64
		want  float64
	}{
		{"negative odds unit stake", -110, 1.0, 100.0 / 110.0},
		{"positive odds", 150, 2.0, 3.0},
		{"even money", 100, 1.0, 1.0},
		{"heavy favorite", -400, 4.0, 1.0},
		{"zero odds pays nothing", 0, 1.0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePayout(tt.odds, tt.stake)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CalculatePayout(%v, %v) = %v, want %v", tt.odds, tt.stake, got, tt.want)
			}
		})
	}
}

func TestCreateBetDefaults(t *testing.T) {
	repo, provider, defense := seedTestDeps(t)
	capture := NewCaptureService(stats.NewResolver(provider), defense, repo)
	ledger := NewLedgerService(repo, capture)
	ctx := context.Background()

	bet, err := ledger.CreateBet(ctx, &models.CreateBetRequest{
		BetDate:  "2024-12-01",
		GameDate: "2024-12-01",
	})
	if err != nil {
		t.Fatalf("CreateBet: %v", err)
	}
	if bet.BetType != "parlay" {
		t.Errorf("expected default bet type parlay, got %q", bet.BetType)
	}
	if bet.Odds != -110 || bet.Stake != 1.0 {
		t.Errorf("expected default odds -110 stake 1.0, got %v / %v", bet.Odds, bet.Stake)
	}
	if math.Abs(bet.PotentialWin-100.0/110.0) > 1e-9 {
		t.Errorf("unexpected potential win %v", bet.PotentialWin)
	}
	if bet.Result != nil {
		t.Errorf("new bet should have no result")
	}
}

func TestAddPropValidation(t *testing.T) {
	repo, provider, defense := seedTestDeps(t)
	capture := NewCaptureService(stats.NewResolver(provider), defense, repo)
	ledger := NewLedgerService(repo, capture)
	ctx := context.Background()

	bet, err := ledger.CreateBet(ctx, &models.CreateBetRequest{BetDate: "2024-12-01", GameDate: "2024-12-01"})
	if err != nil {
		t.Fatalf("CreateBet: %v", err)
	}

	prop, err := ledger.AddProp(ctx, bet.ID, &models.AddPropRequest{
		PlayerID:   1631093,
		PlayerName: "Jaden Ivey",
		PropType:   "Points",
		Line:       15.5,
	})
	if err != nil {
		t.Fatalf("AddProp: %v", err)
	}
	if prop.PropType != "points" {
		t.Errorf("expected normalized prop type, got %q", prop.PropType)
	}
	if prop.OverUnder != "over" {
		t.Errorf("expected default direction over, got %q", prop.OverUnder)
	}

	if _, err := ledger.AddProp(ctx, bet.ID, &models.AddPropRequest{
		PlayerID: 1, PlayerName: "X", PropType: "dunks", Line: 1.5,
	}); err == nil {
		t.Error("expected error for unknown prop type")
	}

	if _, err := ledger.AddProp(ctx, bet.ID, &models.AddPropRequest{
		PlayerID: 1, PlayerName: "X", PropType: "points", Line: 1.5, OverUnder: "push",
	}); err == nil {
		t.Error("expected error for unknown direction")
	}
}

func TestMarkPropResultCapturesOnlyMisses(t *testing.T) {
	repo, provider, defense := seedTestDeps(t)
	capture := NewCaptureService(stats.NewResolver(provider), defense, repo)
	ledger := NewLedgerService(repo, capture)
	ctx := context.Background()

	bet, _ := ledger.CreateBet(ctx, &models.CreateBetRequest{BetDate: "2024-12-01", GameDate: "2024-12-01"})
	prop, _ := ledger.AddProp(ctx, bet.ID, &models.AddPropRequest{
		PlayerID: 1631093, PlayerName: "Jaden Ivey", PropType: "points", Line: 15.5, OverUnder: "over",
	})

	// A hit never captures, even with capture requested.
	if err := ledger.MarkPropResult(ctx, prop.ID, "hit", 20.0, true); err != nil {
		t.Fatalf("MarkPropResult: %v", err)
	}
	stats1, _ := repo.MissStatsByProp(ctx, prop.ID)
	if len(stats1) != 0 {
		t.Fatalf("hit should not capture, got %d rows", len(stats1))
	}

	// A miss without capture requested stays uncaptured.
	if err := ledger.MarkPropResult(ctx, prop.ID, "miss", 13.0, false); err != nil {
		t.Fatalf("MarkPropResult: %v", err)
	}
	stats2, _ := repo.MissStatsByProp(ctx, prop.ID)
	if len(stats2) != 0 {
		t.Fatalf("capture_stats=false should not capture, got %d rows", len(stats2))
	}

	// A miss with capture requested writes exactly one row.
	if err := ledger.MarkPropResult(ctx, prop.ID, "miss", 13.0, true); err != nil {
		t.Fatalf("MarkPropResult: %v", err)
	}
	stats3, _ := repo.MissStatsByProp(ctx, prop.ID)
	if len(stats3) != 1 {
		t.Fatalf("expected 1 miss stat row, got %d", len(stats3))
	}
}

func TestMarkPropResultRemarkKeepsOneCaptureRow(t *testing.T) {
	repo, provider, defense := seedTestDeps(t)
	capture := NewCaptureService(stats.NewResolver(provider), defense, repo)
	ledger := NewLedgerService(repo, capture)
	ctx := context.Background()

	bet, _ := ledger.CreateBet(ctx, &models.CreateBetRequest{BetDate: "2024-12-01", GameDate: "2024-12-01"})
	prop, _ := ledger.AddProp(ctx, bet.ID, &models.AddPropRequest{
		PlayerID: 1631093, PlayerName: "Jaden Ivey", PropType: "points", Line: 15.5, OverUnder: "over",
	})

	for i := 0; i < 3; i++ {
		if err := ledger.MarkPropResult(ctx, prop.ID, "miss", 13.0, true); err != nil {
			t.Fatalf("MarkPropResult: %v", err)
		}
	}
	rows, err := repo.MissStatsByProp(ctx, prop.ID)
	if err != nil {
		t.Fatalf("MissStatsByProp: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("re-marking must not accumulate capture rows, got %d", len(rows))
	}
}

// End-to-end: a one-leg parlay on Jaden Ivey over 15.5 points resolves to a
// miss on a 13-point night and leaves a single capture row behind.
func TestLedgerEndToEnd(t *testing.T) {
	repo, provider, defense := seedTestDeps(t)
	capture := NewCaptureService(stats.NewResolver(provider), defense, repo)
	ledger := NewLedgerService(repo, capture)
	ctx := context.Background()

	odds := -110.0
	stake := 1.0
	bet, err := ledger.CreateBet(ctx, &models.CreateBetRequest{
		BetDate:  "2024-12-01",
		GameDate: "2024-12-01",
		Odds:     &odds,
		Stake:    &stake,
	})
	if err != nil {
		t.Fatalf("CreateBet: %v", err)
	}

	prop, err := ledger.AddProp(ctx, bet.ID, &models.AddPropRequest{
		PlayerID:   1631093,
		PlayerName: "Jaden Ivey",
		PropType:   "points",
		Line:       15.5,
		OverUnder:  "over",
	})
	if err != nil {
		t.Fatalf("AddProp: %v", err)
	}

	if err := ledger.MarkPropResult(ctx, prop.ID, "miss", 13.0, true); err != nil {
		t.Fatalf("MarkPropResult: %v", err)
	}

	got, err := repo.GetPropByID(ctx, prop.ID)
	if err != nil {
		t.Fatalf("GetPropByID: %v", err)
	}
	if got.Result == nil || *got.Result != "miss" {
		t.Fatalf("expected result miss, got %v", got.Result)
	}
	if got.ActualValue == nil || *got.ActualValue != 13.0 {
		t.Fatalf("expected actual value 13.0, got %v", got.ActualValue)
	}

	rows, err := repo.MissStatsByProp(ctx, prop.ID)
	if err != nil {
		t.Fatalf("MissStatsByProp: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly one miss stat row, got %d", len(rows))
	}
	stat := rows[0]
	if stat.MissedBy != 2.5 {
		t.Errorf("expected missed_by 2.5, got %v", stat.MissedBy)
	}
	if stat.OpponentTeam != "BOS" {
		t.Errorf("expected opponent BOS, got %q", stat.OpponentTeam)
	}
	if stat.OpponentTeamID == nil || *stat.OpponentTeamID != 1610612738 {
		t.Errorf("expected Boston team id, got %v", stat.OpponentTeamID)
	}
	if stat.OpponentDefRating == nil || *stat.OpponentDefRating != 110.3 {
		t.Errorf("expected def rating 110.3, got %v", stat.OpponentDefRating)
	}
}

func TestGetRecentBetsCountsAndDefaults(t *testing.T) {
	repo, provider, defense := seedTestDeps(t)
	capture := NewCaptureService(stats.NewResolver(provider), defense, repo)
	ledger := NewLedgerService(repo, capture)
	ctx := context.Background()

	bet, _ := ledger.CreateBet(ctx, &models.CreateBetRequest{BetDate: "2024-12-01", GameDate: "2024-12-01"})
	p1, _ := ledger.AddProp(ctx, bet.ID, &models.AddPropRequest{PlayerID: 1, PlayerName: "A", PropType: "points", Line: 10.5})
	p2, _ := ledger.AddProp(ctx, bet.ID, &models.AddPropRequest{PlayerID: 2, PlayerName: "B", PropType: "assists", Line: 4.5})
	ledger.AddProp(ctx, bet.ID, &models.AddPropRequest{PlayerID: 3, PlayerName: "C", PropType: "rebounds", Line: 7.5})

	ledger.MarkPropResult(ctx, p1.ID, "hit", 15, false)
	ledger.MarkPropResult(ctx, p2.ID, "miss", 3, false)

	summaries, err := ledger.GetRecentBets(ctx, 0) // 0 falls back to the default limit
	if err != nil {
		t.Fatalf("GetRecentBets: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 bet, got %d", len(summaries))
	}
	s := summaries[0]
	if s.NumProps != 3 || s.PropsHit != 1 || s.PropsMiss != 1 {
		t.Errorf("unexpected counts: num=%d hit=%d miss=%d", s.NumProps, s.PropsHit, s.PropsMiss)
	}
}
