package commentservice

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/sushihentaime/writeflow/internal/common"
	"github.com/sushihentaime/writeflow/internal/userservice"
)

func NewCommentService(db *sql.DB) *CommentService {
	return &CommentService{m: newCommentModel(db)}
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
	v.Check(v.CheckStringLength(content, 0, 5000), "content", "must not be more than 5000 characters long")
}

func (s *CommentService) requirePost(ctx context.Context, viewer *userservice.User, postID int) error {
	visible, err := s.m.postVisible(ctx, postID, viewer.ID, viewer.IsAdmin())
	if err != nil {
		return err
	}

	if !visible {
		return common.ErrRecordNotFound
	}

	return nil
}

// ListThread returns the comments of a post as reply trees. Posts the viewer
// cannot read are reported as not found.
func (s *CommentService) ListThread(ctx context.Context, viewer *userservice.User, postID int) ([]*Comment, error) {
	v := common.NewValidator()
	common.ValidateID(v, postID, "post_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.requirePost(ctx, viewer, postID); err != nil {
		return nil, err
	}

	flat, err := s.m.listByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	return BuildThread(flat), nil
}

// CreateComment adds a comment, or a reply when ParentID is set. The parent
// must belong to the same post.
func (s *CommentService) CreateComment(ctx context.Context, user *userservice.User, postID int, req *CreateCommentRequest) (*Comment, error) {
	content := strings.TrimSpace(req.Content)

	v := common.NewValidator()
	common.ValidateID(v, postID, "post_id")
	validateContent(v, content)
	if req.ParentID != nil {
		common.ValidateID(v, *req.ParentID, "parent_id")
	}
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := s.requirePost(ctx, user, postID); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.m.get(ctx, *req.ParentID)
		if err != nil && !errors.Is(err, common.ErrRecordNotFound) {
			return nil, err
		}

		if parent == nil || parent.PostID != postID {
			return nil, common.NewValidationError("parent_id", "must be a comment on the same post")
		}
	}

	c := &Comment{
		PostID:   postID,
		UserID:   user.ID,
		ParentID: req.ParentID,
		Content:  content,
	}

	err := s.m.insert(ctx, c)
	if err != nil {
		switch {
		case errors.Is(err, ErrPostNotFound):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return s.m.get(ctx, c.ID)
}

// UpdateComment changes the content. Only the comment's author or an admin may edit it.
func (s *CommentService) UpdateComment(ctx context.Context, user *userservice.User, id int, req *UpdateCommentRequest) (*Comment, error) {
	content := strings.TrimSpace(req.Content)

	v := common.NewValidator()
	common.ValidateID(v, id, "id")
	validateContent(v, content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	c, err := s.m.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !user.CanModify(c.UserID) {
		return nil, common.ErrForbidden
	}

	c.Content = content
	if err := s.m.updateContent(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// DeleteComment removes a comment and its direct replies. Only the comment's
// author or an admin may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, user *userservice.User, id int) error {
	v := common.NewValidator()
	common.ValidateID(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	c, err := s.m.get(ctx, id)
	if err != nil {
		return err
	}

	if !user.CanModify(c.UserID) {
		return common.ErrForbidden
	}

	_, err = s.m.delete(ctx, id)
	return err
}
