// Package analytics computes dashboard metrics over stored scripts,
// with a short-lived Redis cache in front of the aggregate queries.
package analytics

import (
	"context"
	"database/sql"
	"math"
	"time"

	"scriptforge/internal/common/database"
	commonerrors "scriptforge/internal/common/errors"
	"scriptforge/internal/common/logger"
)

const dashboardCacheKey = "analytics:dashboard"

// DashboardStats summarizes generation activity.
type DashboardStats struct {
	TotalScripts      int     `json:"total_scripts"`
	ScriptsThisWeek   int     `json:"scripts_this_week"`
	AvgGenerationTime float64 `json:"avg_generation_time"`
	TotalTokens       int64   `json:"total_tokens"`
	MostUsedStyle     string  `json:"most_used_style"`
	EstimatedCost     float64 `json:"estimated_cost"`
}

// RecentScript is one dashboard list entry.
type RecentScript struct {
	ScriptID       string    `json:"script_id"`
	Topic          string    `json:"topic"`
	Title          string    `json:"title"`
	Style          string    `json:"style"`
	CreatedAt      time.Time `json:"created_at"`
	TokensUsed     int       `json:"tokens_used"`
	GenerationTime float64   `json:"generation_time"`
}

// Service answers dashboard queries.
type Service struct {
	db       *database.PostgresClient
	cache    *database.RedisClient
	cacheTTL time.Duration
	logger   logger.Logger
}

// NewService wires the analytics queries. cache may be nil to disable
// caching entirely.
func NewService(db *database.PostgresClient, cache *database.RedisClient, cacheTTL time.Duration, log logger.Logger) *Service {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &Service{
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log.With(map[string]interface{}{"component": "analytics"}),
	}
}

// Dashboard returns aggregate stats, served from cache when fresh.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		var cached DashboardStats
		if err := s.cache.GetJSON(ctx, dashboardCacheKey, &cached); err == nil {
			return &cached, nil
		} else if !database.IsNil(err) {
			s.logger.Warn("analytics cache read failed", map[string]interface{}{"error": err.Error()})
		}
	}

	stats, err := s.computeDashboard(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, dashboardCacheKey, stats, s.cacheTTL); err != nil {
			s.logger.Warn("analytics cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return stats, nil
}

func (s *Service) computeDashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{MostUsedStyle: "educational"}

	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM scripts`).Scan(&stats.TotalScripts); err != nil {
		return nil, commonerrors.NewDatabaseQueryError(err)
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	if err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM scripts WHERE created_at >= $1`, weekAgo,
	).Scan(&stats.ScriptsThisWeek); err != nil {
		return nil, commonerrors.NewDatabaseQueryError(err)
	}

	var avgTime sql.NullFloat64
	if err := s.db.QueryRow(ctx,
		`SELECT AVG(generation_time) FROM scripts WHERE generation_time IS NOT NULL`,
	).Scan(&avgTime); err != nil {
		return nil, commonerrors.NewDatabaseQueryError(err)
	}
	stats.AvgGenerationTime = round1(avgTime.Float64)

	var totalTokens sql.NullInt64
	if err := s.db.QueryRow(ctx,
		`SELECT SUM(tokens_used) FROM scripts WHERE tokens_used IS NOT NULL`,
	).Scan(&totalTokens); err != nil {
		return nil, commonerrors.NewDatabaseQueryError(err)
	}
	stats.TotalTokens = totalTokens.Int64

	var style sql.NullString
	err := s.db.QueryRow(ctx,
		`SELECT style FROM scripts GROUP BY style ORDER BY COUNT(*) DESC LIMIT 1`,
	).Scan(&style)
	if err != nil && err != sql.ErrNoRows {
		return nil, commonerrors.NewDatabaseQueryError(err)
	}
	if style.Valid {
		stats.MostUsedStyle = style.String
	}

	// Rough estimate at $0.01 per thousand tokens.
	stats.EstimatedCost = round2(float64(stats.TotalTokens) / 1000 * 0.01)

	return stats, nil
}

// Recent returns the newest scripts for the dashboard list.
func (s *Service) Recent(ctx context.Context, limit int) ([]RecentScript, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.Query(ctx,
		`SELECT script_id, topic, title, style, created_at, tokens_used, generation_time
		 FROM scripts ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, commonerrors.NewDatabaseQueryError(err)
	}
	defer rows.Close()

	scripts := []RecentScript{}
	for rows.Next() {
		var (
			entry          RecentScript
			title          sql.NullString
			generationTime sql.NullFloat64
		)
		if err := rows.Scan(&entry.ScriptID, &entry.Topic, &title, &entry.Style,
			&entry.CreatedAt, &entry.TokensUsed, &generationTime); err != nil {
			return nil, commonerrors.NewDatabaseQueryError(err)
		}
		entry.Title = title.String
		entry.GenerationTime = round1(generationTime.Float64)
		scripts = append(scripts, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewDatabaseQueryError(err)
	}

	return scripts, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
