// Package nba is a client for the league stats API. Every call waits on a
// shared rate limiter before hitting the network; the provider enforces a hard
// minimum spacing between requests, so batch callers inherit that pacing.
package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"prop-tracker/internal/metrics"
)

const (
	// DefaultBaseURL is the stats API base URL.
	DefaultBaseURL = "https://stats.nba.com"

	// defaultMinInterval is the minimum spacing between provider calls.
	defaultMinInterval = 600 * time.Millisecond
)

// Client is a stats API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithMinInterval sets the minimum spacing between provider calls.
func WithMinInterval(interval time.Duration) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// NewClient creates a stats API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Every(defaultMinInterval), 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ListPlayers fetches the league player directory for a season.
func (c *Client) ListPlayers(ctx context.Context, season string) ([]Player, error) {
	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("Season", season)
	params.Set("IsOnlyCurrentSeason", "1")

	resp, err := c.get(ctx, "/stats/commonallplayers", params)
	if err != nil {
		return nil, err
	}

	rs := resp.first()
	if rs == nil {
		return nil, fmt.Errorf("commonallplayers: empty result sets")
	}

	var players []Player
	for _, r := range rs.rows() {
		first, last := splitLastCommaFirst(r.str("DISPLAY_LAST_COMMA_FIRST"))
		players = append(players, Player{
			ID:               r.i("PERSON_ID"),
			FullName:         r.str("DISPLAY_FIRST_LAST"),
			FirstName:        first,
			LastName:         last,
			Active:           r.i("ROSTERSTATUS") == 1,
			TeamID:           r.i("TEAM_ID"),
			TeamAbbreviation: r.str("TEAM_ABBREVIATION"),
		})
	}
	return players, nil
}

// PlayerProfile fetches a player's demographic and headline-average info.
func (c *Client) PlayerProfile(ctx context.Context, playerID int) (*PlayerProfile, error) {
	params := url.Values{}
	params.Set("PlayerID", strconv.Itoa(playerID))

	resp, err := c.get(ctx, "/stats/commonplayerinfo", params)
	if err != nil {
		return nil, err
	}

	info := resp.set("CommonPlayerInfo")
	if info == nil || len(info.RowSet) == 0 {
		return nil, nil
	}

	r := info.rows()[0]
	profile := &PlayerProfile{
		ID:               r.i("PERSON_ID"),
		FullName:         r.str("DISPLAY_FIRST_LAST"),
		FirstName:        r.str("FIRST_NAME"),
		LastName:         r.str("LAST_NAME"),
		TeamID:           r.i("TEAM_ID"),
		TeamName:         r.str("TEAM_NAME"),
		TeamAbbreviation: r.str("TEAM_ABBREVIATION"),
		Position:         r.str("POSITION"),
	}

	if headline := resp.set("PlayerHeadlineStats"); headline != nil && len(headline.RowSet) > 0 {
		h := headline.rows()[0]
		profile.Points = h.f64("PTS")
		profile.Rebounds = h.f64("REB")
		profile.Assists = h.f64("AST")
	}

	return profile, nil
}

// PlayerGameLog fetches a player's full-game log for a season.
func (c *Client) PlayerGameLog(ctx context.Context, playerID int, season string) ([]GameLogRow, error) {
	params := url.Values{}
	params.Set("PlayerID", strconv.Itoa(playerID))
	params.Set("Season", season)
	params.Set("SeasonType", "Regular Season")

	resp, err := c.get(ctx, "/stats/playergamelog", params)
	if err != nil {
		return nil, err
	}

	rs := resp.first()
	if rs == nil {
		return nil, fmt.Errorf("playergamelog: empty result sets")
	}

	var games []GameLogRow
	for _, r := range rs.rows() {
		// playergamelog labels the id column Game_ID; the bulk log
		// endpoints use GAME_ID.
		gameID := r.str("Game_ID")
		if gameID == "" {
			gameID = r.str("GAME_ID")
		}
		games = append(games, GameLogRow{
			GameID:   gameID,
			GameDate: normalizeGameDate(r.str("GAME_DATE")),
			Matchup:  r.str("MATCHUP"),
			WinLoss:  r.str("WL"),
			Minutes:  r.f64("MIN"),
			StatLine: r.statLine(),
			FGPct:    r.f64("FG_PCT"),
			FG3Pct:   r.f64("FG3_PCT"),
			FTPct:    r.f64("FT_PCT"),
		})
	}
	return games, nil
}

// PlayerPeriodGameLogs fetches a player's game log scoped to one quarter
// (1-4) for a season.
func (c *Client) PlayerPeriodGameLogs(ctx context.Context, playerID int, season string, period int) ([]PeriodLogRow, error) {
	if period < 1 || period > 4 {
		return nil, fmt.Errorf("period must be 1-4, got %d", period)
	}

	params := url.Values{}
	params.Set("PlayerID", strconv.Itoa(playerID))
	params.Set("Season", season)
	params.Set("SeasonType", "Regular Season")
	params.Set("Period", strconv.Itoa(period))
	params.Set("PerModeSimple", "Totals")

	resp, err := c.get(ctx, "/stats/playergamelogs", params)
	if err != nil {
		return nil, err
	}

	rs := resp.first()
	if rs == nil {
		return nil, fmt.Errorf("playergamelogs: empty result sets")
	}

	var games []PeriodLogRow
	for _, r := range rs.rows() {
		games = append(games, PeriodLogRow{
			GameID:   r.str("GAME_ID"),
			GameDate: normalizeGameDate(r.str("GAME_DATE")),
			Matchup:  r.str("MATCHUP"),
			WinLoss:  r.str("WL"),
			Period:   period,
			StatLine: r.statLine(),
		})
	}
	return games, nil
}

// TeamDefense fetches a team's season-to-date defensive rating and opponent
// points per game. Returns nil when the team is absent from the league table.
func (c *Client) TeamDefense(ctx context.Context, teamID int, season string) (*TeamDefense, error) {
	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("Season", season)
	params.Set("SeasonType", "Regular Season")
	params.Set("MeasureType", "Defense")
	params.Set("PerMode", "PerGame")

	resp, err := c.get(ctx, "/stats/leaguedashteamstats", params)
	if err != nil {
		return nil, err
	}

	rs := resp.first()
	if rs == nil {
		return nil, fmt.Errorf("leaguedashteamstats: empty result sets")
	}

	for _, r := range rs.rows() {
		if r.i("TEAM_ID") != teamID {
			continue
		}
		def := &TeamDefense{TeamID: teamID}
		if v, ok := r.cell("DEF_RATING").(float64); ok {
			def.DefRating = &v
		}
		if v, ok := r.cell("OPP_PTS_PER_GAME").(float64); ok {
			def.OppPtsPerGame = &v
		}
		return def, nil
	}
	return nil, nil
}

// get performs a rate-limited GET against the stats API.
func (c *Client) get(ctx context.Context, path string, params url.Values) (*statsResponse, error) {
	metrics.ProviderRequests.WithLabelValues(path).Inc()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// The stats host rejects requests without browser-like headers.
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ProviderErrors.WithLabelValues(path).Inc()
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderErrors.WithLabelValues(path).Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stats api error %d: %s", resp.StatusCode, string(body))
	}

	var parsed statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.ProviderErrors.WithLabelValues(path).Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &parsed, nil
}

// splitLastCommaFirst splits "Last, First" into its halves.
func splitLastCommaFirst(name string) (first, last string) {
	for i := 0; i < len(name); i++ {
		if name[i] == ',' {
			last = name[:i]
			rest := name[i+1:]
			for len(rest) > 0 && rest[0] == ' ' {
				rest = rest[1:]
			}
			return rest, last
		}
	}
	return "", name
}
