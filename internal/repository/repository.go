package repository

import (
	"context"
	"errors"
	"time"

	"prop-tracker/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBet inserts a new bet.
func (r *Repository) CreateBet(ctx context.Context, bet *models.Bet) error {
	return r.db.WithContext(ctx).Create(bet).Error
}

// GetBetByID retrieves a bet by id.
func (r *Repository) GetBetByID(ctx context.Context, betID uint) (*models.Bet, error) {
	var bet models.Bet
	err := r.db.WithContext(ctx).First(&bet, betID).Error
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

// UpdateBetResult overwrites a bet's result unconditionally.
func (r *Repository) UpdateBetResult(ctx context.Context, betID uint, result string) error {
	return r.db.WithContext(ctx).
		Model(&models.Bet{}).
		Where("id = ?", betID).
		Update("result", result).Error
}

// CreateProp inserts a new prop leg.
func (r *Repository) CreateProp(ctx context.Context, prop *models.Prop) error {
	return r.db.WithContext(ctx).Create(prop).Error
}

// GetPropByID retrieves a prop by id.
func (r *Repository) GetPropByID(ctx context.Context, propID uint) (*models.Prop, error) {
	var prop models.Prop
	err := r.db.WithContext(ctx).First(&prop, propID).Error
	if err != nil {
		return nil, err
	}
	return &prop, nil
}

// GetPropGameDate returns the game date of the bet owning the prop.
func (r *Repository) GetPropGameDate(ctx context.Context, propID uint) (string, error) {
	var gameDate string
	err := r.db.WithContext(ctx).
		Model(&models.Prop{}).
		Select("bets.game_date").
		Joins("JOIN bets ON bets.id = props.bet_id").
		Where("props.id = ?", propID).
		Scan(&gameDate).Error
	if err != nil {
		return "", err
	}
	if gameDate == "" {
		return "", gorm.ErrRecordNotFound
	}
	return gameDate, nil
}

// UpdatePropResult sets a prop's result and actual value in one statement.
func (r *Repository) UpdatePropResult(ctx context.Context, propID uint, result string, actualValue float64) error {
	return r.db.WithContext(ctx).
		Model(&models.Prop{}).
		Where("id = ?", propID).
		Updates(map[string]interface{}{
			"result":       result,
			"actual_value": actualValue,
		}).Error
}

// ReplaceMissStat writes a miss-context record with latest-wins semantics:
// prior rows for the same prop are removed in the same transaction, so one
// prop never accumulates duplicate capture rows.
func (r *Repository) ReplaceMissStat(ctx context.Context, stat *models.PropMissStat) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prop_id = ?", stat.PropID).Delete(&models.PropMissStat{}).Error; err != nil {
			return err
		}
		return tx.Create(stat).Error
	})
}

// MissStatsByProp returns the capture rows for a prop, newest first.
func (r *Repository) MissStatsByProp(ctx context.Context, propID uint) ([]models.PropMissStat, error) {
	var stats []models.PropMissStat
	err := r.db.WithContext(ctx).
		Where("prop_id = ?", propID).
		Order("created_at DESC").
		Find(&stats).Error
	return stats, err
}

// GetRecentBets returns bets newest-first with prop counts and their props.
func (r *Repository) GetRecentBets(ctx context.Context, limit int) ([]*models.BetSummary, error) {
	var bets []models.Bet
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&bets).Error
	if err != nil {
		return nil, err
	}
	if len(bets) == 0 {
		return []*models.BetSummary{}, nil
	}

	betIDs := make([]uint, len(bets))
	for i, b := range bets {
		betIDs[i] = b.ID
	}

	var props []models.Prop
	if err := r.db.WithContext(ctx).Where("bet_id IN ?", betIDs).Find(&props).Error; err != nil {
		return nil, err
	}

	byBet := make(map[uint][]models.Prop, len(bets))
	for _, p := range props {
		byBet[p.BetID] = append(byBet[p.BetID], p)
	}

	summaries := make([]*models.BetSummary, len(bets))
	for i, b := range bets {
		summary := &models.BetSummary{Bet: b, Props: byBet[b.ID]}
		if summary.Props == nil {
			summary.Props = []models.Prop{}
		}
		summary.NumProps = len(summary.Props)
		for _, p := range summary.Props {
			if p.Result == nil {
				continue
			}
			switch *p.Result {
			case string(models.PropResultHit):
				summary.PropsHit++
			case string(models.PropResultMiss):
				summary.PropsMiss++
			}
		}
		summaries[i] = summary
	}
	return summaries, nil
}

// ListUnresolvedPropsThrough returns props with no result whose owning bet's
// game date is on or before the given date.
func (r *Repository) ListUnresolvedPropsThrough(ctx context.Context, gameDate string, limit int) ([]models.Prop, error) {
	var props []models.Prop
	err := r.db.WithContext(ctx).
		Joins("JOIN bets ON bets.id = props.bet_id").
		Where("props.result IS NULL AND bets.game_date <= ?", gameDate).
		Order("props.id ASC").
		Limit(limit).
		Find(&props).Error
	return props, err
}

// BustPlayers groups resolved props by player and ranks players by miss rate.
func (r *Repository) BustPlayers(ctx context.Context, minProps int) ([]models.BustPlayer, error) {
	var rows []models.BustPlayer
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			player_id,
			player_name,
			COUNT(*) AS total_props,
			SUM(CASE WHEN result = 'miss' THEN 1 ELSE 0 END) AS misses,
			ROUND(100.0 * SUM(CASE WHEN result = 'miss' THEN 1 ELSE 0 END) / COUNT(*), 1) AS miss_rate,
			AVG(CASE WHEN result = 'miss' THEN actual_value ELSE NULL END) AS avg_value_when_miss
		FROM props
		WHERE result IS NOT NULL
		GROUP BY player_id, player_name
		HAVING COUNT(*) >= ?
		ORDER BY miss_rate DESC, total_props DESC`, minProps).
		Scan(&rows).Error
	if rows == nil {
		rows = []models.BustPlayer{}
	}
	return rows, err
}

// ToughMatchups groups capture-joined props by opponent team and ranks
// opponents by miss rate. Scoped to rows carrying an opponent value: a prop
// only acquires an opponent through miss capture, so the denominator is the
// set of props that went through capture.
func (r *Repository) ToughMatchups(ctx context.Context, minGames int) ([]models.ToughMatchup, error) {
	var rows []models.ToughMatchup
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			pms.opponent_team AS opponent_team,
			COUNT(*) AS total_props,
			SUM(CASE WHEN pms.prop_id IS NOT NULL THEN 1 ELSE 0 END) AS misses,
			ROUND(100.0 * SUM(CASE WHEN pms.prop_id IS NOT NULL THEN 1 ELSE 0 END) / COUNT(*), 1) AS miss_rate,
			AVG(pms.opponent_def_rating) AS avg_def_rating,
			AVG(pms.opponent_opp_pts) AS avg_opp_pts
		FROM props p
		LEFT JOIN prop_miss_stats pms ON p.id = pms.prop_id
		WHERE pms.opponent_team IS NOT NULL
		GROUP BY pms.opponent_team
		HAVING COUNT(*) >= ?
		ORDER BY miss_rate DESC`, minGames).
		Scan(&rows).Error
	if rows == nil {
		rows = []models.ToughMatchup{}
	}
	return rows, err
}

// PlayerVsOpponent breaks a player's capture-joined props down by prop type
// within one opponent, or by opponent across all prop types.
func (r *Repository) PlayerVsOpponent(ctx context.Context, playerID int, opponentTeam string) ([]models.PlayerVsOpponentStat, error) {
	var rows []models.PlayerVsOpponentStat
	var err error
	if opponentTeam != "" {
		err = r.db.WithContext(ctx).Raw(`
			SELECT
				p.prop_type AS category,
				COUNT(*) AS total,
				SUM(CASE WHEN p.result = 'miss' THEN 1 ELSE 0 END) AS misses,
				AVG(pms.missed_by) AS avg_missed_by,
				AVG(pms.shooting_pct) AS avg_shooting_pct,
				AVG(pms.opponent_def_rating) AS avg_def_rating
			FROM props p
			JOIN prop_miss_stats pms ON p.id = pms.prop_id
			WHERE p.player_id = ? AND pms.opponent_team = ?
			GROUP BY p.prop_type`, playerID, opponentTeam).
			Scan(&rows).Error
	} else {
		err = r.db.WithContext(ctx).Raw(`
			SELECT
				pms.opponent_team AS category,
				COUNT(*) AS total,
				SUM(CASE WHEN p.result = 'miss' THEN 1 ELSE 0 END) AS misses,
				AVG(pms.missed_by) AS avg_missed_by,
				AVG(pms.shooting_pct) AS avg_shooting_pct,
				AVG(pms.opponent_def_rating) AS avg_def_rating
			FROM props p
			JOIN prop_miss_stats pms ON p.id = pms.prop_id
			WHERE p.player_id = ?
			GROUP BY pms.opponent_team
			ORDER BY misses DESC`, playerID).
			Scan(&rows).Error
	}
	if rows == nil {
		rows = []models.PlayerVsOpponentStat{}
	}
	return rows, err
}

// GetAnalyticsCache returns the cached payload for key when it is younger
// than maxAge.
func (r *Repository) GetAnalyticsCache(ctx context.Context, key string, maxAge time.Duration) (string, bool, error) {
	var entry models.AnalyticsCache
	err := r.db.WithContext(ctx).First(&entry, "cache_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if time.Since(entry.UpdatedAt) > maxAge {
		return "", false, nil
	}
	return entry.Data, true, nil
}

// SetAnalyticsCache upserts the cached payload for key.
func (r *Repository) SetAnalyticsCache(ctx context.Context, key, data string) error {
	entry := models.AnalyticsCache{CacheKey: key, Data: data, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&entry).Error
}
