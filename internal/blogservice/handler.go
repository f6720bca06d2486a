package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/sushihentaime/writeflow/internal/common"
	"github.com/sushihentaime/writeflow/internal/userservice"
)

func NewBlogService(db *sql.DB, cache *common.Cache) *BlogService {
	return &BlogService{
		m: newPostModel(db),
		t: newTaxonomyModel(db),
		c: cache,
	}
}

// writeError turns constraint errors into field validation errors.
func writeError(err error) error {
	switch {
	case errors.Is(err, ErrDuplicateSlug):
		return common.NewValidationError("slug", "a post with this slug already exists")
	case errors.Is(err, ErrUnknownCategory):
		return common.NewValidationError("category_id", "does not exist")
	case errors.Is(err, ErrUnknownTag):
		return common.NewValidationError("tag_ids", "contains a tag that does not exist")
	default:
		return err
	}
}

// resolveSlug prefers an explicit slug over one derived from the title.
func resolveSlug(custom, title string) string {
	if s := strings.TrimSpace(custom); s != "" {
		return common.Slugify(s)
	}

	return common.Slugify(title)
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}

// CreatePost stores a new post for author. Only authors and admins may create posts.
func (s *BlogService) CreatePost(ctx context.Context, author *userservice.User, req *CreatePostRequest) (*Post, error) {
	if !author.HasRole(userservice.RoleAuthor, userservice.RoleAdmin) {
		return nil, common.ErrForbidden
	}

	if req.Status == "" {
		req.Status = StatusDraft
	}

	title := strings.TrimSpace(req.Title)
	slug := resolveSlug(req.Slug, title)

	v := common.NewValidator()
	validateTitle(v, title)
	validateContent(v, req.Content)
	validateStatus(v, req.Status)
	if title != "" {
		validateSlug(v, slug)
	}
	validateOptionalURL(v, req.FeaturedImage, "featured_image")
	validateTagIDs(v, req.TagIDs)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	p := &Post{
		Title:           title,
		Slug:            slug,
		Content:         sanitizeContent(req.Content),
		Excerpt:         nonEmpty(req.Excerpt),
		FeaturedImage:   nonEmpty(req.FeaturedImage),
		Status:          req.Status,
		AuthorID:        author.ID,
		CategoryID:      req.CategoryID,
		MetaTitle:       nonEmpty(req.MetaTitle),
		MetaDescription: nonEmpty(req.MetaDescription),
	}

	if p.Excerpt == nil {
		excerpt := makeExcerpt(p.Content, excerptLength)
		p.Excerpt = &excerpt
	}

	if p.CategoryID != nil && *p.CategoryID == 0 {
		p.CategoryID = nil
	}

	if p.Status == StatusPublished {
		publishedAt := time.Now().UTC()
		if req.PublishedAt != nil {
			publishedAt = *req.PublishedAt
		}
		p.PublishedAt = &publishedAt
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if err := s.m.insert(tx, ctx, p); err != nil {
		return nil, writeError(common.RollbackTx(tx, err))
	}

	if err := s.m.addTags(tx, ctx, p.ID, req.TagIDs); err != nil {
		return nil, writeError(common.RollbackTx(tx, err))
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.c.Invalidate(common.CacheKeyCategories, common.CacheKeyTags)

	return s.m.getByID(ctx, p.ID)
}

// GetPost returns a post by id. Posts that are not published are only
// visible to their author and to admins.
func (s *BlogService) GetPost(ctx context.Context, viewer *userservice.User, id int) (*Post, error) {
	v := common.NewValidator()
	common.ValidateID(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	p, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !p.visibleTo(viewer) {
		return nil, common.ErrRecordNotFound
	}

	return p, nil
}

func (p *Post) visibleTo(viewer *userservice.User) bool {
	if p.Status == StatusPublished && (p.PublishedAt == nil || !p.PublishedAt.After(time.Now())) {
		return true
	}

	return viewer != nil && !viewer.IsAnonymous() && viewer.CanModify(p.AuthorID)
}

// GetPublishedPostBySlug is the public read path.
func (s *BlogService) GetPublishedPostBySlug(ctx context.Context, slug string) (*Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, common.ErrRecordNotFound
	}

	return s.m.getPublishedBySlug(ctx, slug)
}

// UpdatePost applies a partial update. The caller must own the post or be an admin.
func (s *BlogService) UpdatePost(ctx context.Context, actor *userservice.User, id int, req *UpdatePostRequest) (*Post, error) {
	v := common.NewValidator()
	common.ValidateID(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	p, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanModify(p.AuthorID) {
		return nil, common.ErrForbidden
	}

	if req.Version != nil && *req.Version != p.Version {
		return nil, common.ErrEditConflict
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		validateTitle(v, title)
		if title != p.Title && req.Slug == nil {
			p.Slug = common.Slugify(title)
			validateSlug(v, p.Slug)
		}
		p.Title = title
	}

	if req.Slug != nil {
		p.Slug = resolveSlug(*req.Slug, p.Title)
		validateSlug(v, p.Slug)
	}

	if req.Content != nil {
		validateContent(v, *req.Content)
		p.Content = sanitizeContent(*req.Content)
	}

	if req.Excerpt != nil {
		p.Excerpt = nonEmpty(req.Excerpt)
	}

	if req.FeaturedImage != nil {
		validateOptionalURL(v, req.FeaturedImage, "featured_image")
		p.FeaturedImage = nonEmpty(req.FeaturedImage)
	}

	if req.Status != nil {
		validateStatus(v, *req.Status)
		if *req.Status == StatusPublished {
			publishedAt := time.Now().UTC()
			if req.PublishedAt != nil {
				publishedAt = *req.PublishedAt
			} else if p.PublishedAt != nil && p.Status == StatusPublished {
				publishedAt = *p.PublishedAt
			}
			p.PublishedAt = &publishedAt
		}
		p.Status = *req.Status
	}

	if req.PublishedAt != nil {
		p.PublishedAt = req.PublishedAt
	}

	if req.CategoryID != nil {
		p.CategoryID = req.CategoryID
		if *req.CategoryID == 0 {
			p.CategoryID = nil
		}
	}

	if req.MetaTitle != nil {
		p.MetaTitle = nonEmpty(req.MetaTitle)
	}

	if req.MetaDescription != nil {
		p.MetaDescription = nonEmpty(req.MetaDescription)
	}

	if req.TagIDs != nil {
		validateTagIDs(v, *req.TagIDs)
	}

	if !v.Valid() {
		return nil, v.ValidationError()
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if err := s.m.update(tx, ctx, p); err != nil {
		return nil, writeError(common.RollbackTx(tx, err))
	}

	if req.TagIDs != nil {
		if err := s.m.clearTags(tx, ctx, p.ID); err != nil {
			return nil, common.RollbackTx(tx, err)
		}

		if err := s.m.addTags(tx, ctx, p.ID, *req.TagIDs); err != nil {
			return nil, writeError(common.RollbackTx(tx, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.c.Invalidate(common.CacheKeyCategories, common.CacheKeyTags)

	return s.m.getByID(ctx, p.ID)
}

// DeletePost removes a post along with its tags, comments and likes.
func (s *BlogService) DeletePost(ctx context.Context, actor *userservice.User, id int) error {
	v := common.NewValidator()
	common.ValidateID(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	p, err := s.m.getByID(ctx, id)
	if err != nil {
		return err
	}

	if !actor.CanModify(p.AuthorID) {
		return common.ErrForbidden
	}

	if err := s.m.delete(ctx, id); err != nil {
		return err
	}

	s.c.Invalidate(common.CacheKeyCategories, common.CacheKeyTags)

	return nil
}

// ListOwnPosts returns every post the user wrote, optionally filtered by status.
func (s *BlogService) ListOwnPosts(ctx context.Context, user *userservice.User, status Status) ([]*Post, error) {
	if status != "" {
		v := common.NewValidator()
		validateStatus(v, status)
		if !v.Valid() {
			return nil, v.ValidationError()
		}
	}

	return s.m.listByAuthor(ctx, user.ID, status)
}

func (s *BlogService) ListPublishedByAuthor(ctx context.Context, authorID int) ([]*Post, error) {
	return s.m.listPublishedByAuthor(ctx, authorID)
}

// requireVisible hides posts the viewer could not read through GetPost.
func (s *BlogService) requireVisible(ctx context.Context, viewer *userservice.User, id int) error {
	v := common.NewValidator()
	common.ValidateID(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	p, err := s.m.getVisibility(ctx, id)
	if err != nil {
		return err
	}

	if !p.visibleTo(viewer) {
		return common.ErrRecordNotFound
	}

	return nil
}

// RecordView bumps the view counter and returns the current counters.
func (s *BlogService) RecordView(ctx context.Context, viewer *userservice.User, id int) (*Counters, error) {
	if err := s.requireVisible(ctx, viewer, id); err != nil {
		return nil, err
	}

	return s.m.incrementViews(ctx, id)
}

// LikeStatus reports the like count and whether viewer has liked the post.
// Anonymous viewers never have.
func (s *BlogService) LikeStatus(ctx context.Context, viewer *userservice.User, id int) (*LikeStatus, error) {
	if err := s.requireVisible(ctx, viewer, id); err != nil {
		return nil, err
	}

	userID := 0
	if viewer != nil && !viewer.IsAnonymous() {
		userID = viewer.ID
	}

	return s.m.likeStatus(ctx, id, userID)
}

func (s *BlogService) ToggleLike(ctx context.Context, user *userservice.User, id int) (*LikeToggle, error) {
	if err := s.requireVisible(ctx, user, id); err != nil {
		return nil, err
	}

	return s.m.toggleLike(ctx, id, user.ID)
}
