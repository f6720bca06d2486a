package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/writeflow/internal/common"
)

var (
	ErrDuplicateName = errors.New("duplicate name")
	ErrCategoryInUse = errors.New("category has posts")
)

func newTaxonomyModel(db *sql.DB) *TaxonomyModel {
	return &TaxonomyModel{db: db}
}

func (m *TaxonomyModel) listCategories(ctx context.Context) ([]*Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.description, c.created_at,
			(SELECT COUNT(*) FROM posts p WHERE p.category_id = c.id AND p.status = 'published')
		FROM categories c
		ORDER BY c.name ASC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.PostCount); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}

	return categories, rows.Err()
}

func (m *TaxonomyModel) getCategory(ctx context.Context, id int) (*Category, error) {
	query := `
		SELECT id, name, slug, description, created_at
		FROM categories
		WHERE id = $1`

	var c Category
	err := m.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
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

func (m *TaxonomyModel) insertCategory(ctx context.Context, c *Category) error {
	query := `
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := m.db.QueryRowContext(ctx, query, c.Name, c.Slug, c.Description).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "categories_slug_key"):
			return ErrDuplicateName
		default:
			return err
		}
	}

	return nil
}

func (m *TaxonomyModel) updateCategory(ctx context.Context, c *Category) error {
	query := `
		UPDATE categories
		SET name = $1, slug = $2, description = $3
		WHERE id = $4`

	res, err := m.db.ExecContext(ctx, query, c.Name, c.Slug, c.Description, c.ID)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "categories_slug_key"):
			return ErrDuplicateName
		default:
			return err
		}
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

// deleteCategory refuses to delete a category that any post still references.
func (m *TaxonomyModel) deleteCategory(ctx context.Context, id int) error {
	var inUse bool
	err := m.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE category_id = $1)`, id).Scan(&inUse)
	if err != nil {
		return err
	}

	if inUse {
		return ErrCategoryInUse
	}

	res, err := m.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if common.ForeignKeyViolation(err, "posts_category_id_fkey") {
			return ErrCategoryInUse
		}
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

func (m *TaxonomyModel) listTags(ctx context.Context) ([]*Tag, error) {
	query := `
		SELECT t.id, t.name, t.slug, t.created_at,
			(SELECT COUNT(*) FROM post_tags pt JOIN posts p ON p.id = pt.post_id WHERE pt.tag_id = t.id AND p.status = 'published')
		FROM tags t
		ORDER BY t.name ASC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []*Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.PostCount); err != nil {
			return nil, err
		}
		tags = append(tags, &t)
	}

	return tags, rows.Err()
}

func (m *TaxonomyModel) insertTag(ctx context.Context, t *Tag) error {
	query := `
		INSERT INTO tags (name, slug)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := m.db.QueryRowContext(ctx, query, t.Name, t.Slug).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "tags_slug_key"):
			return ErrDuplicateName
		default:
			return err
		}
	}

	return nil
}

func (m *TaxonomyModel) updateTag(ctx context.Context, t *Tag) error {
	query := `
		UPDATE tags
		SET name = $1, slug = $2
		WHERE id = $3
		RETURNING created_at`

	err := m.db.QueryRowContext(ctx, query, t.Name, t.Slug, t.ID).Scan(&t.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrRecordNotFound
		case common.UniqueViolation(err, "tags_slug_key"):
			return ErrDuplicateName
		default:
			return err
		}
	}

	return nil
}

func (m *TaxonomyModel) deleteTag(ctx context.Context, id int) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
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
