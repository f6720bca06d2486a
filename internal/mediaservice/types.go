package mediaservice

import (
	"context"
	"database/sql"
	"time"

	"github.com/sushihentaime/writeflow/internal/common"
)

const (
	MaxUploadSize   = 5 << 20
	UploadFolder    = "blog-platform"
	DefaultPageSize = 20
)

var allowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

type MediaService struct {
	m     *MediaModel
	store ObjectStore
}

type MediaModel struct {
	db *sql.DB
}

// ObjectStore keeps the uploaded bytes. Cloudinary implements it.
type ObjectStore interface {
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

type UploadInput struct {
	Folder   string
	PublicID string
	Data     []byte
}

type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Bytes     int64  `json:"bytes"`
	Format    string `json:"format"`
}

type Media struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	PublicID     string    `json:"public_id"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	Type         string    `json:"type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type MediaPage struct {
	Media      []*Media        `json:"media"`
	Pagination common.Metadata `json:"pagination"`
}
