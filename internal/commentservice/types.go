package commentservice

import (
	"database/sql"
	"time"
)

type CommentService struct {
	m *CommentModel
}

type CommentModel struct {
	db *sql.DB
}

type Author struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	ProfilePicture *string `json:"profile_picture"`
}

type Comment struct {
	ID        int        `json:"id"`
	PostID    int        `json:"post_id"`
	UserID    int        `json:"user_id"`
	ParentID  *int       `json:"parent_id"`
	Content   string     `json:"content"`
	Author    Author     `json:"author"`
	Replies   []*Comment `json:"replies"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CreateCommentRequest struct {
	Content  string `json:"content"`
	ParentID *int   `json:"parent_id"`
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}
