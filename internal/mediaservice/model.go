package mediaservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/writeflow/internal/common"
)

func newMediaModel(db *sql.DB) *MediaModel {
	return &MediaModel{db: db}
}

func (m *MediaModel) insert(ctx context.Context, md *Media) error {
	query := `
		INSERT INTO media (user_id, filename, original_name, public_id, url, size, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	args := []any{md.UserID, md.Filename, md.OriginalName, md.PublicID, md.URL, md.Size, md.Type}

	return m.db.QueryRowContext(ctx, query, args...).Scan(&md.ID, &md.CreatedAt, &md.UpdatedAt)
}

// getOwned returns the media row only when it belongs to userID.
func (m *MediaModel) getOwned(ctx context.Context, id, userID int) (*Media, error) {
	query := `
		SELECT id, user_id, filename, original_name, public_id, url, size, type, created_at, updated_at
		FROM media
		WHERE id = $1 AND user_id = $2`

	var md Media
	err := m.db.QueryRowContext(ctx, query, id, userID).Scan(&md.ID, &md.UserID, &md.Filename, &md.OriginalName, &md.PublicID, &md.URL, &md.Size, &md.Type, &md.CreatedAt, &md.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &md, nil
}

func (m *MediaModel) listByUser(ctx context.Context, userID int, p common.Pagination) ([]*Media, int, error) {
	query := `
		SELECT COUNT(*) OVER(), id, user_id, filename, original_name, public_id, url, size, type, created_at, updated_at
		FROM media
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := m.db.QueryContext(ctx, query, userID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	total := 0
	media := []*Media{}
	for rows.Next() {
		var md Media
		err := rows.Scan(&total, &md.ID, &md.UserID, &md.Filename, &md.OriginalName, &md.PublicID, &md.URL, &md.Size, &md.Type, &md.CreatedAt, &md.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		media = append(media, &md)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// An out of range page has no rows to carry the window count.
	if len(media) == 0 && p.Page > 1 {
		if err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media WHERE user_id = $1`, userID).Scan(&total); err != nil {
			return nil, 0, err
		}
	}

	return media, total, nil
}

func (m *MediaModel) delete(ctx context.Context, id int) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id)
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
