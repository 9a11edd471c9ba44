package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Zachkp/portfolio/internal/models"
)

// VisitorStats summarises the visitors table.
type VisitorStats struct {
	TotalVisitors    int64 `json:"total_visitors"`
	UniqueVisitors   int64 `json:"unique_visitors"`
	VisitorsToday    int64 `json:"visitors_today"`
	VisitorsThisWeek int64 `json:"visitors_this_week"`
}

// RecordVisit appends a visit. The caller is responsible for hashing the IP.
func (s *Store) RecordVisit(ctx context.Context, v models.Visit) error {
	if v.Timestamp.IsZero() {
		v.Timestamp = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, v.HashedIP, v.UserAgent, v.Path, formatTime(v.Timestamp))
	if err != nil {
		return fmt.Errorf("store.RecordVisit: %w", err)
	}
	return nil
}

// VisitorStats counts visits overall, per hashed IP, since midnight UTC and over the last 7 days.
func (s *Store) VisitorStats(ctx context.Context) (*VisitorStats, error) {
	now := s.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	var stats VisitorStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT hashed_ip),
			COALESCE(SUM(CASE WHEN timestamp >= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN timestamp >= ? THEN 1 ELSE 0 END), 0)
		FROM visitors
	`, formatTime(midnight), formatTime(weekAgo)).Scan(
		&stats.TotalVisitors, &stats.UniqueVisitors, &stats.VisitorsToday, &stats.VisitorsThisWeek)
	if err != nil {
		return nil, fmt.Errorf("store.VisitorStats: %w", err)
	}
	return &stats, nil
}

// DeleteVisitsBefore removes visits older than cutoff and reports how many went.
func (s *Store) DeleteVisitsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("store.DeleteVisitsBefore: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
