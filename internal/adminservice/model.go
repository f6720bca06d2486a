package adminservice

import (
	"context"
	"database/sql"
)

func NewStatsModel(db *sql.DB) *StatsModel {
	return &StatsModel{db: db}
}

func (m *StatsModel) users(ctx context.Context) (UserStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE role = 'admin'),
			COUNT(*) FILTER (WHERE role = 'author'),
			COUNT(*) FILTER (WHERE role = 'reader'),
			COUNT(*) FILTER (WHERE created_at >= CURRENT_DATE - INTERVAL '30 days')
		FROM users`

	var s UserStats
	err := m.db.QueryRowContext(ctx, query).Scan(&s.Total, &s.Admins, &s.Authors, &s.Readers, &s.NewLast30d)
	return s, err
}

func (m *StatsModel) posts(ctx context.Context) (PostStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'published'),
			COUNT(*) FILTER (WHERE status = 'draft'),
			COUNT(*) FILTER (WHERE created_at >= CURRENT_DATE - INTERVAL '30 days')
		FROM posts`

	var s PostStats
	err := m.db.QueryRowContext(ctx, query).Scan(&s.Total, &s.Published, &s.Drafts, &s.NewLast30d)
	return s, err
}

func (m *StatsModel) comments(ctx context.Context) (CommentStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= CURRENT_DATE - INTERVAL '30 days')
		FROM comments`

	var s CommentStats
	err := m.db.QueryRowContext(ctx, query).Scan(&s.Total, &s.NewLast30d)
	return s, err
}

func (m *StatsModel) engagement(ctx context.Context) (EngagementStats, error) {
	query := `SELECT COALESCE(SUM(view_count), 0), COALESCE(SUM(like_count), 0) FROM posts`

	var s EngagementStats
	err := m.db.QueryRowContext(ctx, query).Scan(&s.TotalViews, &s.TotalLikes)
	return s, err
}
