package blogservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/writeflow/internal/common"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"

	DefaultSearchLimit = 12
	wordsPerMinute     = 200
	excerptLength      = 160
	taxonomyCacheTTL   = time.Minute
)

type BlogService struct {
	m *PostModel
	t *TaxonomyModel
	c *common.Cache
}

type PostModel struct {
	db *sql.DB
}

type TaxonomyModel struct {
	db *sql.DB
}

type Author struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	ProfilePicture *string `json:"profile_picture"`
}

type CategorySummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type TagSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Post struct {
	ID              int              `json:"id"`
	Title           string           `json:"title"`
	Slug            string           `json:"slug"`
	Content         string           `json:"content"`
	Excerpt         *string          `json:"excerpt"`
	FeaturedImage   *string          `json:"featured_image"`
	Status          Status           `json:"status"`
	AuthorID        int              `json:"author_id"`
	Author          Author           `json:"author"`
	CategoryID      *int             `json:"category_id"`
	Category        *CategorySummary `json:"category"`
	Tags            []*TagSummary    `json:"tags"`
	ViewCount       int              `json:"view_count"`
	LikeCount       int              `json:"like_count"`
	MetaTitle       *string          `json:"meta_title"`
	MetaDescription *string          `json:"meta_description"`
	ReadingTime     int              `json:"reading_time"`
	PublishedAt     *time.Time       `json:"published_at"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Version         int              `json:"version"`
}

type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	PostCount   int       `json:"post_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type Tag struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	PostCount int       `json:"post_count"`
	CreatedAt time.Time `json:"created_at"`
}

type CreatePostRequest struct {
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Content         string     `json:"content"`
	Excerpt         *string    `json:"excerpt"`
	FeaturedImage   *string    `json:"featured_image"`
	Status          Status     `json:"status"`
	CategoryID      *int       `json:"category_id"`
	TagIDs          []int      `json:"tag_ids"`
	MetaTitle       *string    `json:"meta_title"`
	MetaDescription *string    `json:"meta_description"`
	PublishedAt     *time.Time `json:"published_at"`
}

// UpdatePostRequest holds a partial update. Nil fields are left unchanged.
// A non-nil TagIDs replaces the whole tag set. A zero CategoryID clears the category.
type UpdatePostRequest struct {
	Title           *string    `json:"title"`
	Slug            *string    `json:"slug"`
	Content         *string    `json:"content"`
	Excerpt         *string    `json:"excerpt"`
	FeaturedImage   *string    `json:"featured_image"`
	Status          *Status    `json:"status"`
	CategoryID      *int       `json:"category_id"`
	TagIDs          *[]int     `json:"tag_ids"`
	MetaTitle       *string    `json:"meta_title"`
	MetaDescription *string    `json:"meta_description"`
	PublishedAt     *time.Time `json:"published_at"`
	Version         *int       `json:"version"`
}

type SearchFilter struct {
	Query    string
	Category string
	Tag      string
	common.Pagination
}

type SearchResult struct {
	Posts      []*Post         `json:"posts"`
	Pagination common.Metadata `json:"pagination"`
}

type LikeStatus struct {
	LikeCount int  `json:"like_count"`
	UserLiked bool `json:"user_liked"`
}

type LikeToggle struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

type Counters struct {
	ViewCount int `json:"view_count"`
	LikeCount int `json:"like_count"`
}

type CategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type TagRequest struct {
	Name string `json:"name"`
}
