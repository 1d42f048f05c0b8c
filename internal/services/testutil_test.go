package services

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"prop-tracker/internal/models"
	"prop-tracker/internal/nba"
	"prop-tracker/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Bet{},
		&models.Prop{},
		&models.PropMissStat{},
		&models.AnalyticsCache{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

// fakeStatsProvider serves canned game logs keyed by player id.
type fakeStatsProvider struct {
	games   map[int][]nba.GameLogRow
	periods map[int][]nba.PeriodLogRow
	err     error
}

func (f *fakeStatsProvider) PlayerGameLog(ctx context.Context, playerID int, season string) ([]nba.GameLogRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.games[playerID], nil
}

func (f *fakeStatsProvider) PlayerPeriodGameLogs(ctx context.Context, playerID int, season string, period int) ([]nba.PeriodLogRow, error) {
	if f.err != nil {
		return nil, f.err
	}
	var rows []nba.PeriodLogRow
	for _, r := range f.periods[playerID] {
		if r.Period == period {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// fakeDefense serves canned defensive profiles keyed by team id.
type fakeDefense struct {
	byTeam map[int]*nba.TeamDefense
	err    error
}

func (f *fakeDefense) TeamDefense(ctx context.Context, teamID int, season string) (*nba.TeamDefense, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byTeam[teamID], nil
}

func ptrFloat(v float64) *float64 { return &v }

func ptrInt(v int) *int { return &v }

// iveyGameLog is the shared full-game fixture: 13 points against Boston on
// 2024-12-01, shooting 5/14 FG, 1/5 from three, 2/2 FT.
func iveyGameLog() []nba.GameLogRow {
	return []nba.GameLogRow{
		{
			GameID:   "0022400301",
			GameDate: "2024-12-01",
			Matchup:  "DET vs. BOS",
			WinLoss:  "L",
			Minutes:  34.5,
			StatLine: nba.StatLine{
				Points: 13, Rebounds: 4, Assists: 6,
				FGM: 5, FGA: 14, Threes: 1, FG3A: 5, FTM: 2, FTA: 2,
			},
			FGPct:  0.357,
			FG3Pct: 0.200,
			FTPct:  1.000,
		},
	}
}

func seedTestDeps(t *testing.T) (*repository.Repository, *fakeStatsProvider, *fakeDefense) {
	t.Helper()
	repo := repository.NewRepository(setupTestDB(t))
	provider := &fakeStatsProvider{
		games:   map[int][]nba.GameLogRow{1631093: iveyGameLog()},
		periods: map[int][]nba.PeriodLogRow{},
	}
	bostonID := 1610612738
	defense := &fakeDefense{byTeam: map[int]*nba.TeamDefense{
		bostonID: {TeamID: bostonID, DefRating: ptrFloat(110.3), OppPtsPerGame: ptrFloat(107.2)},
	}}
	return repo, provider, defense
}
