package adminservice

import (
	"context"
	"database/sql"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

func NewAdminService(db *sql.DB, logger *slog.Logger) *AdminService {
	return &AdminService{m: NewStatsModel(db), logger: logger}
}

// Stats runs the dashboard queries concurrently. When any of them fails the
// error is logged and zeroed stats are returned.
func (s *AdminService) Stats(ctx context.Context) *Stats {
	var stats Stats

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		stats.Users, err = s.m.users(ctx)
		return err
	})

	g.Go(func() error {
		var err error
		stats.Posts, err = s.m.posts(ctx)
		return err
	})

	g.Go(func() error {
		var err error
		stats.Comments, err = s.m.comments(ctx)
		return err
	})

	g.Go(func() error {
		var err error
		stats.Engagement, err = s.m.engagement(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("could not load admin stats", slog.String("error", err.Error()))
		return &Stats{}
	}

	return &stats
}
