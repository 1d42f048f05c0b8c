package services

import (
	"context"
	"fmt"
	"log"

	"prop-tracker/internal/odds"
)

// CheatsheetRow is one bookmaker line for one player in one game, flattened
// for side-by-side comparison.
type CheatsheetRow struct {
	EventID    string   `json:"event_id"`
	Game       string   `json:"game"`
	Player     string   `json:"player"`
	Market     string   `json:"market"`
	Line       float64  `json:"line"`
	OverPrice  *float64 `json:"over_price,omitempty"`
	UnderPrice *float64 `json:"under_price,omitempty"`
	Bookmaker  string   `json:"bookmaker"`
}

// OddsProvider is the slice of the odds client the cheatsheet needs.
type OddsProvider interface {
	ListEvents(ctx context.Context, sport string) ([]odds.Event, error)
	EventOdds(ctx context.Context, sport, eventID string, markets []string) (*odds.Event, error)
}

// CheatsheetService flattens bookmaker player-prop markets for upcoming NBA
// games into rows keyed by (event, bookmaker, market, player, line).
type CheatsheetService struct {
	provider OddsProvider
}

func NewCheatsheetService(provider OddsProvider) *CheatsheetService {
	return &CheatsheetService{provider: provider}
}

var defaultMarkets = []string{
	odds.MarketPlayerPoints,
	odds.MarketPlayerRebounds,
	odds.MarketPlayerAssists,
	odds.MarketPlayerThrees,
	odds.MarketPlayerPRA,
}

// BuildCheatsheet pulls the requested markets for every upcoming event. An
// event whose odds fetch fails is logged and skipped rather than failing the
// whole sheet.
func (s *CheatsheetService) BuildCheatsheet(ctx context.Context, markets []string) ([]CheatsheetRow, error) {
	if len(markets) == 0 {
		markets = defaultMarkets
	}

	events, err := s.provider.ListEvents(ctx, odds.SportNBA)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	rows := []CheatsheetRow{}
	for _, evt := range events {
		withOdds, err := s.provider.EventOdds(ctx, odds.SportNBA, evt.ID, markets)
		if err != nil {
			log.Printf("[Cheatsheet] Skipping event %s (%s @ %s): %v", evt.ID, evt.AwayTeam, evt.HomeTeam, err)
			continue
		}
		rows = append(rows, flattenEvent(withOdds)...)
	}
	return rows, nil
}

func flattenEvent(evt *odds.Event) []CheatsheetRow {
	game := fmt.Sprintf("%s @ %s", evt.AwayTeam, evt.HomeTeam)

	type lineKey struct {
		bookmaker string
		market    string
		player    string
		line      float64
	}
	index := map[lineKey]int{}
	rows := []CheatsheetRow{}

	for _, bk := range evt.Bookmakers {
		for _, mkt := range bk.Markets {
			for _, out := range mkt.Outcomes {
				key := lineKey{bk.Key, mkt.Key, out.Description, out.Point}
				i, ok := index[key]
				if !ok {
					rows = append(rows, CheatsheetRow{
						EventID:   evt.ID,
						Game:      game,
						Player:    out.Description,
						Market:    mkt.Key,
						Line:      out.Point,
						Bookmaker: bk.Title,
					})
					i = len(rows) - 1
					index[key] = i
				}
				price := out.Price
				switch out.Name {
				case "Over":
					rows[i].OverPrice = &price
				case "Under":
					rows[i].UnderPrice = &price
				}
			}
		}
	}
	return rows
}
