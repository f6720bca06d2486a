package blogservice

import (
	"context"
	"errors"
	"strings"

	"github.com/sushihentaime/writeflow/internal/common"
)

func duplicateNameError(err error, kind string) error {
	if errors.Is(err, ErrDuplicateName) {
		return common.NewValidationError("name", "a "+kind+" with this name already exists")
	}

	return err
}

// ListCategories returns every category with its published post count. The
// result is cached until a category, tag or post changes.
func (s *BlogService) ListCategories(ctx context.Context) ([]*Category, error) {
	return common.Remember(s.c, common.CacheKeyCategories, taxonomyCacheTTL, func() ([]*Category, error) {
		return s.t.listCategories(ctx)
	})
}

func (s *BlogService) CreateCategory(ctx context.Context, req *CategoryRequest) (*Category, error) {
	var name string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}

	c := &Category{
		Name:        name,
		Slug:        common.Slugify(name),
		Description: nonEmpty(req.Description),
	}

	v := common.NewValidator()
	validateName(v, c.Name)
	if c.Name != "" {
		v.Check(c.Slug != "", "name", "must contain at least one letter or number")
	}
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.t.insertCategory(ctx, c); err != nil {
		return nil, duplicateNameError(err, "category")
	}

	s.c.Invalidate(common.CacheKeyCategories)

	return c, nil
}

func (s *BlogService) UpdateCategory(ctx context.Context, id int, req *CategoryRequest) (*Category, error) {
	v := common.NewValidator()
	common.ValidateID(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	c, err := s.t.getCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
		c.Slug = common.Slugify(c.Name)
		validateName(v, c.Name)
		if c.Name != "" {
			v.Check(c.Slug != "", "name", "must contain at least one letter or number")
		}
	}

	if req.Description != nil {
		c.Description = nonEmpty(req.Description)
	}

	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.t.updateCategory(ctx, c); err != nil {
		return nil, duplicateNameError(err, "category")
	}

	s.c.Invalidate(common.CacheKeyCategories)

	return c, nil
}

// DeleteCategory fails with ErrCategoryInUse while posts reference the category.
func (s *BlogService) DeleteCategory(ctx context.Context, id int) error {
	v := common.NewValidator()
	common.ValidateID(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	if err := s.t.deleteCategory(ctx, id); err != nil {
		return err
	}

	s.c.Invalidate(common.CacheKeyCategories)

	return nil
}

func (s *BlogService) ListTags(ctx context.Context) ([]*Tag, error) {
	return common.Remember(s.c, common.CacheKeyTags, taxonomyCacheTTL, func() ([]*Tag, error) {
		return s.t.listTags(ctx)
	})
}

func (s *BlogService) CreateTag(ctx context.Context, req *TagRequest) (*Tag, error) {
	t := &Tag{Name: strings.TrimSpace(req.Name)}
	t.Slug = common.Slugify(t.Name)

	v := common.NewValidator()
	validateName(v, t.Name)
	if t.Name != "" {
		v.Check(t.Slug != "", "name", "must contain at least one letter or number")
	}
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.t.insertTag(ctx, t); err != nil {
		return nil, duplicateNameError(err, "tag")
	}

	s.c.Invalidate(common.CacheKeyTags)

	return t, nil
}

func (s *BlogService) UpdateTag(ctx context.Context, id int, req *TagRequest) (*Tag, error) {
	t := &Tag{ID: id, Name: strings.TrimSpace(req.Name)}
	t.Slug = common.Slugify(t.Name)

	v := common.NewValidator()
	common.ValidateID(v, id, "id")
	validateName(v, t.Name)
	if t.Name != "" {
		v.Check(t.Slug != "", "name", "must contain at least one letter or number")
	}
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.t.updateTag(ctx, t); err != nil {
		return nil, duplicateNameError(err, "tag")
	}

	s.c.Invalidate(common.CacheKeyTags)

	return t, nil
}

// DeleteTag removes the tag from every post it was attached to.
func (s *BlogService) DeleteTag(ctx context.Context, id int) error {
	v := common.NewValidator()
	common.ValidateID(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	if err := s.t.deleteTag(ctx, id); err != nil {
		return err
	}

	s.c.Invalidate(common.CacheKeyTags)

	return nil
}
