package commentservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/writeflow/internal/common"
)

var (
	ErrPostNotFound = errors.New("post not found")
)

const commentSelect = `
	SELECT c.id, c.post_id, c.user_id, c.parent_id, c.content, c.created_at, c.updated_at, u.name, u.profile_picture
	FROM comments c
	JOIN users u ON u.id = c.user_id`

func newCommentModel(db *sql.DB) *CommentModel {
	return &CommentModel{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*Comment, error) {
	var c Comment

	err := row.Scan(&c.ID, &c.PostID, &c.UserID, &c.ParentID, &c.Content, &c.CreatedAt, &c.UpdatedAt, &c.Author.Name, &c.Author.ProfilePicture)
	if err != nil {
		return nil, err
	}

	c.Author.ID = c.UserID
	c.Replies = []*Comment{}

	return &c, nil
}

// postVisible reports whether the post exists and the viewer may see it.
// Drafts and scheduled posts are visible to their author and to admins only.
func (m *CommentModel) postVisible(ctx context.Context, postID, viewerID int, admin bool) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM posts
			WHERE id = $1
			AND ((status = 'published' AND (published_at IS NULL OR published_at <= NOW()))
				OR ($2 > 0 AND author_id = $2)
				OR $3::boolean)
		)`

	var visible bool
	err := m.db.QueryRowContext(ctx, query, postID, viewerID, admin).Scan(&visible)
	return visible, err
}

// listByPost returns a post's comments oldest first.
func (m *CommentModel) listByPost(ctx context.Context, postID int) ([]*Comment, error) {
	rows, err := m.db.QueryContext(ctx, commentSelect+` WHERE c.post_id = $1 ORDER BY c.created_at ASC, c.id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

func (m *CommentModel) get(ctx context.Context, id int) (*Comment, error) {
	c, err := scanComment(m.db.QueryRowContext(ctx, commentSelect+` WHERE c.id = $1`, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return c, nil
}

func (m *CommentModel) insert(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (post_id, user_id, parent_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := m.db.QueryRowContext(ctx, query, c.PostID, c.UserID, c.ParentID, c.Content).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		switch {
		case common.ForeignKeyViolation(err, "comments_post_id_fkey"):
			return ErrPostNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *CommentModel) updateContent(ctx context.Context, c *Comment) error {
	query := `
		UPDATE comments
		SET content = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at`

	err := m.db.QueryRowContext(ctx, query, c.Content, c.ID).Scan(&c.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

// delete removes the comment and its direct replies. Deeper replies stay in
// the table and are left out of threads because their parent is gone.
func (m *CommentModel) delete(ctx context.Context, id int) (int64, error) {
	res, err := m.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1 OR parent_id = $1`, id)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
