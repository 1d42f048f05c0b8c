package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"prop-tracker/internal/metrics"
	"prop-tracker/internal/repository"
	"prop-tracker/internal/stats"
)

// PropResolution is the outcome of one auto-resolution attempt. Found=false
// means the player has no game or period data for the date — a normal answer,
// not a failure. Error is populated only inside batch results, where per-item
// failures must not abort the batch.
type PropResolution struct {
	PropID      uint     `json:"prop_id"`
	Found       bool     `json:"found"`
	Reason      string   `json:"reason,omitempty"`
	Result      string   `json:"result,omitempty"`
	ActualValue *float64 `json:"actual_value,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// ResolveService combines the stat resolver, outcome evaluation, and the
// ledger write into single-call prop resolution.
type ResolveService struct {
	resolver *stats.Resolver
	ledger   *LedgerService
	repo     *repository.Repository
}

func NewResolveService(resolver *stats.Resolver, ledger *LedgerService, repo *repository.Repository) *ResolveService {
	return &ResolveService{
		resolver: resolver,
		ledger:   ledger,
		repo:     repo,
	}
}

// AutoResolveProp fetches the actual stat for the prop's game date, evaluates
// the over/under outcome, and records it. A NotFound resolution is returned
// as a success with Found=false; provider failures return an error.
func (s *ResolveService) AutoResolveProp(ctx context.Context, propID uint, captureStats bool) (*PropResolution, error) {
	prop, err := s.repo.GetPropByID(ctx, propID)
	if err != nil {
		return nil, fmt.Errorf("load prop %d: %w", propID, err)
	}
	gameDate, err := s.repo.GetPropGameDate(ctx, propID)
	if err != nil {
		return nil, fmt.Errorf("load game date for prop %d: %w", propID, err)
	}

	propType, err := stats.ParsePropType(prop.PropType)
	if err != nil {
		return nil, err
	}
	direction, err := stats.ParseDirection(prop.OverUnder)
	if err != nil {
		return nil, err
	}

	res, err := s.resolver.Resolve(ctx, prop.PlayerID, gameDate, propType, stats.PeriodFullGame)
	if err != nil {
		return nil, err
	}
	if !res.Found {
		metrics.PropsResolved.WithLabelValues("not_found").Inc()
		return &PropResolution{PropID: propID, Found: false, Reason: res.Reason}, nil
	}

	outcome := stats.Evaluate(res.Value, prop.Line, direction)
	if err := s.ledger.MarkPropResult(ctx, propID, string(outcome), res.Value, captureStats); err != nil {
		return nil, err
	}

	metrics.PropsResolved.WithLabelValues(string(outcome)).Inc()
	value := res.Value
	return &PropResolution{
		PropID:      propID,
		Found:       true,
		Result:      string(outcome),
		ActualValue: &value,
	}, nil
}

// BatchResolve resolves each prop independently. One item's failure is
// recorded in its own slot and never aborts the rest; provider pacing makes
// large batches deliberately slow.
func (s *ResolveService) BatchResolve(ctx context.Context, propIDs []uint, captureStats bool) []PropResolution {
	runID := uuid.New()
	log.Printf("[Resolve] Batch %s: resolving %d props", runID, len(propIDs))

	results := make([]PropResolution, 0, len(propIDs))
	for _, propID := range propIDs {
		res, err := s.AutoResolveProp(ctx, propID, captureStats)
		if err != nil {
			log.Printf("[Resolve] Batch %s: prop %d failed: %v", runID, propID, err)
			results = append(results, PropResolution{PropID: propID, Error: err.Error()})
			continue
		}
		results = append(results, *res)
	}

	log.Printf("[Resolve] Batch %s: done", runID)
	return results
}
