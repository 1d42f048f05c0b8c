package services

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"prop-tracker/internal/models"
	"prop-tracker/internal/repository"
	"prop-tracker/internal/stats"
)

// Ledger defaults mirror the common single-unit parlay entry.
const (
	defaultBetType = "parlay"
	defaultOdds    = -110.0
	defaultStake   = 1.0
)

// LedgerService owns bet and prop records: creation, result marking, payout
// derivation, and the recent-bets listing.
type LedgerService struct {
	repo    *repository.Repository
	capture *CaptureService
}

func NewLedgerService(repo *repository.Repository, capture *CaptureService) *LedgerService {
	return &LedgerService{repo: repo, capture: capture}
}

// CalculatePayout derives the potential win from American odds and a stake:
// positive odds pay stake*odds/100, negative pay stake*100/|odds|. Zero odds
// pay nothing.
func CalculatePayout(odds, stake float64) float64 {
	if odds == 0 {
		return 0
	}
	s := decimal.NewFromFloat(stake)
	o := decimal.NewFromFloat(odds)
	hundred := decimal.NewFromInt(100)
	if odds > 0 {
		return s.Mul(o).Div(hundred).InexactFloat64()
	}
	return s.Mul(hundred).Div(o.Abs()).InexactFloat64()
}

// CreateBet records a new bet. PotentialWin is derived here, once; it is
// never recomputed afterward.
func (s *LedgerService) CreateBet(ctx context.Context, req *models.CreateBetRequest) (*models.Bet, error) {
	betType := req.BetType
	if betType == "" {
		betType = defaultBetType
	}
	odds := defaultOdds
	if req.Odds != nil {
		odds = *req.Odds
	}
	stake := defaultStake
	if req.Stake != nil {
		stake = *req.Stake
	}

	bet := &models.Bet{
		BetDate:      req.BetDate,
		GameDate:     req.GameDate,
		BetType:      betType,
		Odds:         odds,
		Stake:        stake,
		PotentialWin: CalculatePayout(odds, stake),
	}
	if err := s.repo.CreateBet(ctx, bet); err != nil {
		return nil, fmt.Errorf("create bet: %w", err)
	}
	return bet, nil
}

// AddProp attaches a new leg to a bet. The player name is stored as given — a
// point-in-time snapshot. Bet existence is not checked here.
func (s *LedgerService) AddProp(ctx context.Context, betID uint, req *models.AddPropRequest) (*models.Prop, error) {
	propType, err := stats.ParsePropType(req.PropType)
	if err != nil {
		return nil, err
	}

	overUnder := req.OverUnder
	if overUnder == "" {
		overUnder = string(stats.DirectionOver)
	}
	direction, err := stats.ParseDirection(overUnder)
	if err != nil {
		return nil, err
	}

	prop := &models.Prop{
		BetID:      betID,
		PlayerID:   req.PlayerID,
		PlayerName: req.PlayerName,
		PropType:   string(propType),
		Line:       req.Line,
		OverUnder:  string(direction),
	}
	if err := s.repo.CreateProp(ctx, prop); err != nil {
		return nil, fmt.Errorf("create prop: %w", err)
	}
	return prop, nil
}

// MarkBetResult overwrites the bet's result. The label is stored as given.
func (s *LedgerService) MarkBetResult(ctx context.Context, betID uint, result string) error {
	if err := s.repo.UpdateBetResult(ctx, betID, result); err != nil {
		return fmt.Errorf("mark bet result: %w", err)
	}
	return nil
}

// MarkPropResult sets the prop's result and actual value together, then — for
// a miss with capture requested — records miss context using the owning bet's
// game date. Capture failures are logged and swallowed: the prop's result
// stands regardless.
func (s *LedgerService) MarkPropResult(ctx context.Context, propID uint, result string, actualValue float64, captureStats bool) error {
	if err := s.repo.UpdatePropResult(ctx, propID, result, actualValue); err != nil {
		return fmt.Errorf("mark prop result: %w", err)
	}

	if result != string(models.PropResultMiss) || !captureStats {
		return nil
	}

	prop, err := s.repo.GetPropByID(ctx, propID)
	if err != nil {
		log.Printf("[Ledger] Error loading prop %d for capture: %v", propID, err)
		return nil
	}
	gameDate, err := s.repo.GetPropGameDate(ctx, propID)
	if err != nil {
		log.Printf("[Ledger] Error loading game date for prop %d: %v", propID, err)
		return nil
	}

	if err := s.capture.CaptureMiss(ctx, prop, gameDate, actualValue); err != nil {
		log.Printf("[Ledger] Error capturing miss stats for prop %d: %v", propID, err)
	}
	return nil
}

// GetRecentBets lists bets newest-first with prop counts and legs.
func (s *LedgerService) GetRecentBets(ctx context.Context, limit int) ([]*models.BetSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.GetRecentBets(ctx, limit)
}
