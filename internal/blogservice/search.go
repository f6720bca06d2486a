package blogservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/sushihentaime/writeflow/internal/common"
)

// searchQuery is a WHERE clause with its positional arguments.
type searchQuery struct {
	where string
	args  []any
}

// buildSearchQuery always restricts results to published, already visible
// posts and ANDs each optional filter onto that. "all" disables the
// category and tag filters.
func buildSearchQuery(f SearchFilter) searchQuery {
	conditions := []string{
		"p.status = 'published'",
		"(p.published_at IS NULL OR p.published_at <= NOW())",
	}
	var args []any

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		ph := next("%" + escapeLike(q) + "%")
		conditions = append(conditions, fmt.Sprintf("(p.title ILIKE %[1]s OR p.content ILIKE %[1]s OR p.excerpt ILIKE %[1]s)", ph))
	}

	if c := strings.TrimSpace(f.Category); c != "" && c != "all" {
		conditions = append(conditions, "c.slug = "+next(c))
	}

	if t := strings.TrimSpace(f.Tag); t != "" && t != "all" {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.post_id = p.id AND t.slug = %s)", next(t)))
	}

	return searchQuery{where: strings.Join(conditions, " AND "), args: args}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (m *PostModel) search(ctx context.Context, f SearchFilter) ([]*Post, int, error) {
	sq := buildSearchQuery(f)

	countQuery := `
		SELECT COUNT(*)
		FROM posts p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE ` + sq.where

	var total int
	if err := m.db.QueryRowContext(ctx, countQuery, sq.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args := append(sq.args, f.Limit, f.Offset())
	query := postSelect + `
		WHERE ` + sq.where + fmt.Sprintf(`
		ORDER BY p.published_at DESC NULLS LAST, p.id DESC
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	posts, err := m.queryPosts(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// Search lists published posts matching the filter, newest first.
func (s *BlogService) Search(ctx context.Context, f SearchFilter) (*SearchResult, error) {
	f.Normalize(DefaultSearchLimit)

	posts, total, err := s.m.search(ctx, f)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Posts:      posts,
		Pagination: common.NewMetadata(f.Pagination, total),
	}, nil
}
