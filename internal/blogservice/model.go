package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sushihentaime/writeflow/internal/common"
)

var (
	ErrDuplicateSlug   = errors.New("duplicate slug")
	ErrUnknownCategory = errors.New("category does not exist")
	ErrUnknownTag      = errors.New("tag does not exist")
)

const postSelect = `
	SELECT p.id, p.title, p.slug, p.content, p.excerpt, p.featured_image, p.status, p.author_id, p.category_id,
		p.view_count, p.like_count, p.meta_title, p.meta_description, p.published_at, p.created_at, p.updated_at, p.version,
		u.name, u.profile_picture, c.name, c.slug
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id`

func newPostModel(db *sql.DB) *PostModel {
	return &PostModel{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var (
		p            Post
		categoryName *string
		categorySlug *string
	)

	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage, &p.Status, &p.AuthorID, &p.CategoryID,
		&p.ViewCount, &p.LikeCount, &p.MetaTitle, &p.MetaDescription, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt, &p.Version,
		&p.Author.Name, &p.Author.ProfilePicture, &categoryName, &categorySlug)
	if err != nil {
		return nil, err
	}

	p.Author.ID = p.AuthorID
	if p.CategoryID != nil && categoryName != nil && categorySlug != nil {
		p.Category = &CategorySummary{ID: *p.CategoryID, Name: *categoryName, Slug: *categorySlug}
	}

	p.Tags = []*TagSummary{}
	p.ReadingTime = readingTime(p.Content)

	return &p, nil
}

// postWriteError maps constraint violations raised while writing a post.
func postWriteError(err error) error {
	switch {
	case common.UniqueViolation(err, "posts_slug_key"):
		return ErrDuplicateSlug
	case common.ForeignKeyViolation(err, "posts_category_id_fkey"):
		return ErrUnknownCategory
	case common.ForeignKeyViolation(err, "post_tags_tag_id_fkey"):
		return ErrUnknownTag
	default:
		return err
	}
}

func (m *PostModel) insert(tx *sql.Tx, ctx context.Context, p *Post) error {
	query := `
		INSERT INTO posts (title, slug, content, excerpt, featured_image, status, author_id, category_id, meta_title, meta_description, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at, version`

	args := []any{p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage, p.Status, p.AuthorID, p.CategoryID, p.MetaTitle, p.MetaDescription, p.PublishedAt}

	err := tx.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.Version)
	if err != nil {
		return postWriteError(err)
	}

	return nil
}

func (m *PostModel) update(tx *sql.Tx, ctx context.Context, p *Post) error {
	query := `
		UPDATE posts
		SET title = $1, slug = $2, content = $3, excerpt = $4, featured_image = $5, status = $6, category_id = $7,
			meta_title = $8, meta_description = $9, published_at = $10, updated_at = NOW(), version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING updated_at, version`

	args := []any{p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage, p.Status, p.CategoryID,
		p.MetaTitle, p.MetaDescription, p.PublishedAt, p.ID, p.Version}

	err := tx.QueryRowContext(ctx, query, args...).Scan(&p.UpdatedAt, &p.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrEditConflict
		default:
			return postWriteError(err)
		}
	}

	return nil
}

// addTags links tagIDs to the post, ignoring links that already exist.
func (m *PostModel) addTags(tx *sql.Tx, ctx context.Context, postID int, tagIDs []int) error {
	if len(tagIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO post_tags (post_id, tag_id)
		SELECT $1, unnest($2::int[])
		ON CONFLICT DO NOTHING`

	_, err := tx.ExecContext(ctx, query, postID, pq.Array(tagIDs))
	if err != nil {
		return postWriteError(err)
	}

	return nil
}

func (m *PostModel) clearTags(tx *sql.Tx, ctx context.Context, postID int) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID)
	return err
}

func (m *PostModel) getByID(ctx context.Context, id int) (*Post, error) {
	p, err := scanPost(m.db.QueryRowContext(ctx, postSelect+` WHERE p.id = $1`, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	if err := m.loadTags(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// getVisibility loads only the fields that decide who may see a post.
func (m *PostModel) getVisibility(ctx context.Context, id int) (*Post, error) {
	p := &Post{ID: id}
	err := m.db.QueryRowContext(ctx, `SELECT status, author_id, published_at FROM posts WHERE id = $1`, id).
		Scan(&p.Status, &p.AuthorID, &p.PublishedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return p, nil
}

// getPublishedBySlug only returns posts that are published and not scheduled for later.
func (m *PostModel) getPublishedBySlug(ctx context.Context, slug string) (*Post, error) {
	query := postSelect + `
		WHERE p.slug = $1 AND p.status = 'published' AND (p.published_at IS NULL OR p.published_at <= NOW())`

	p, err := scanPost(m.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	if err := m.loadTags(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (m *PostModel) delete(ctx context.Context, id int) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return common.ErrRecordNotFound
	}

	return nil
}

// listByAuthor returns the author's posts, newest first. An empty status matches every status.
func (m *PostModel) listByAuthor(ctx context.Context, authorID int, status Status) ([]*Post, error) {
	query := postSelect + `
		WHERE p.author_id = $1 AND ($2 = '' OR p.status = $2)
		ORDER BY p.created_at DESC, p.id DESC`

	return m.queryPosts(ctx, query, authorID, string(status))
}

// listPublishedByAuthor returns what readers can see on an author's page.
func (m *PostModel) listPublishedByAuthor(ctx context.Context, authorID int) ([]*Post, error) {
	query := postSelect + `
		WHERE p.author_id = $1 AND p.status = 'published' AND (p.published_at IS NULL OR p.published_at <= NOW())
		ORDER BY p.published_at DESC NULLS LAST, p.id DESC`

	return m.queryPosts(ctx, query, authorID)
}

func (m *PostModel) queryPosts(ctx context.Context, query string, args ...any) ([]*Post, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := m.loadTags(ctx, posts...); err != nil {
		return nil, err
	}

	return posts, nil
}

// loadTags fills the tags of every post with a single query.
func (m *PostModel) loadTags(ctx context.Context, posts ...*Post) error {
	if len(posts) == 0 {
		return nil
	}

	byID := make(map[int]*Post, len(posts))
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
		ids = append(ids, int64(p.ID))
	}

	query := `
		SELECT pt.post_id, t.id, t.name, t.slug
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1)
		ORDER BY t.name ASC`

	rows, err := m.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID int
			t      TagSummary
		)

		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.Slug); err != nil {
			return err
		}

		if p, ok := byID[postID]; ok {
			p.Tags = append(p.Tags, &t)
		}
	}

	return rows.Err()
}

func (m *PostModel) incrementViews(ctx context.Context, id int) (*Counters, error) {
	query := `
		UPDATE posts
		SET view_count = view_count + 1
		WHERE id = $1
		RETURNING view_count, like_count`

	var c Counters
	err := m.db.QueryRowContext(ctx, query, id).Scan(&c.ViewCount, &c.LikeCount)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &c, nil
}

func (m *PostModel) likeStatus(ctx context.Context, postID, userID int) (*LikeStatus, error) {
	query := `
		SELECT p.like_count, EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $2)
		FROM posts p
		WHERE p.id = $1`

	var s LikeStatus
	err := m.db.QueryRowContext(ctx, query, postID, userID).Scan(&s.LikeCount, &s.UserLiked)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &s, nil
}

// toggleLike flips the user's like on a post and keeps like_count in step.
func (m *PostModel) toggleLike(ctx context.Context, postID, userID int) (*LikeToggle, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	// Lock the post row so concurrent toggles on the same post serialize.
	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT true FROM posts WHERE id = $1 FOR UPDATE`, postID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = common.ErrRecordNotFound
		}
		return nil, common.RollbackTx(tx, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return nil, common.RollbackTx(tx, err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return nil, common.RollbackTx(tx, err)
	}

	result := LikeToggle{Liked: removed == 0}
	delta := -1

	if result.Liked {
		delta = 1
		if _, err := tx.ExecContext(ctx, `INSERT INTO likes (user_id, post_id) VALUES ($1, $2)`, userID, postID); err != nil {
			return nil, common.RollbackTx(tx, err)
		}
	}

	query := `
		UPDATE posts
		SET like_count = GREATEST(like_count + $1, 0)
		WHERE id = $2
		RETURNING like_count`

	if err := tx.QueryRowContext(ctx, query, delta, postID).Scan(&result.LikeCount); err != nil {
		return nil, common.RollbackTx(tx, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &result, nil
}
