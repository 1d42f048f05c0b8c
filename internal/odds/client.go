// Package odds is a thin client for the-odds-api.com v4 sports odds feed,
// used to pull bookmaker player-prop markets.
package odds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"prop-tracker/internal/metrics"
)

const (
	DefaultBaseURL = "https://api.the-odds-api.com"
	SportNBA       = "basketball_nba"
)

// Player-prop market keys as the odds API names them.
const (
	MarketPlayerPoints   = "player_points"
	MarketPlayerRebounds = "player_rebounds"
	MarketPlayerAssists  = "player_assists"
	MarketPlayerThrees   = "player_threes"
	MarketPlayerPRA      = "player_points_rebounds_assists"
)

// Outcome is one side of a market. For player props the API puts the player
// in Description, the side in Name ("Over"/"Under"), and the line in Point.
type Outcome struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Point       float64 `json:"point"`
}

type Market struct {
	Key        string    `json:"key"`
	LastUpdate time.Time `json:"last_update"`
	Outcomes   []Outcome `json:"outcomes"`
}

type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

type Event struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListEvents returns upcoming and live events for the sport, without odds.
func (c *Client) ListEvents(ctx context.Context, sport string) ([]Event, error) {
	params := url.Values{}
	var events []Event
	if err := c.get(ctx, fmt.Sprintf("/v4/sports/%s/events", sport), params, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// EventOdds returns bookmaker odds for one event, limited to the given
// market keys. Player-prop markets are only available per event.
func (c *Client) EventOdds(ctx context.Context, sport, eventID string, markets []string) (*Event, error) {
	if len(markets) == 0 {
		return nil, fmt.Errorf("at least one market key is required")
	}
	params := url.Values{}
	params.Set("regions", "us")
	params.Set("oddsFormat", "american")
	params.Set("markets", strings.Join(markets, ","))

	var event Event
	if err := c.get(ctx, fmt.Sprintf("/v4/sports/%s/events/%s/odds", sport, eventID), params, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("apiKey", c.apiKey)
	endpoint := pathLabel(path)
	metrics.ProviderRequests.WithLabelValues(endpoint).Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ProviderErrors.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("failed to fetch odds: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderErrors.WithLabelValues(endpoint).Inc()
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("odds API error: %d - %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// pathLabel collapses per-event paths into a stable metric label.
func pathLabel(path string) string {
	if strings.HasSuffix(path, "/odds") {
		return "odds_event_odds"
	}
	return "odds_events"
}
