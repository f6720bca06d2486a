package adminservice

import (
	"database/sql"
	"log/slog"
)

type AdminService struct {
	m      *StatsModel
	logger *slog.Logger
}

type StatsModel struct {
	db *sql.DB
}

type UserStats struct {
	Total      int `json:"total_users"`
	Admins     int `json:"admin_count"`
	Authors    int `json:"author_count"`
	Readers    int `json:"reader_count"`
	NewLast30d int `json:"new_users_30d"`
}

type PostStats struct {
	Total      int `json:"total_posts"`
	Published  int `json:"published_posts"`
	Drafts     int `json:"draft_posts"`
	NewLast30d int `json:"new_posts_30d"`
}

type CommentStats struct {
	Total      int `json:"total_comments"`
	NewLast30d int `json:"new_comments_30d"`
}

type EngagementStats struct {
	TotalViews int64 `json:"total_views"`
	TotalLikes int64 `json:"total_likes"`
}

type Stats struct {
	Users      UserStats       `json:"users"`
	Posts      PostStats       `json:"posts"`
	Comments   CommentStats    `json:"comments"`
	Engagement EngagementStats `json:"engagement"`
}
