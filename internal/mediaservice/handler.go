package mediaservice

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sushihentaime/writeflow/internal/common"
	"github.com/sushihentaime/writeflow/internal/userservice"
)

func NewMediaService(db *sql.DB, store ObjectStore) *MediaService {
	return &MediaService{m: newMediaModel(db), store: store}
}

// DetectImageType sniffs data and returns its MIME type when it is one of
// the accepted image formats.
func DetectImageType(data []byte) (*mimetype.MIME, bool) {
	mt := mimetype.Detect(data)
	return mt, mimetype.EqualsAny(mt.String(), allowedTypes...)
}

// Upload stores an image for the user. Only JPEG, PNG, GIF and WebP images of
// at most MaxUploadSize bytes are accepted.
func (s *MediaService) Upload(ctx context.Context, user *userservice.User, originalName string, data []byte) (*Media, error) {
	v := common.NewValidator()
	v.Check(len(data) > 0, "file", "must be provided")
	v.Check(len(data) <= MaxUploadSize, "file", fmt.Sprintf("must not be larger than %d bytes", MaxUploadSize))
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	mt, ok := DetectImageType(data)
	if !ok {
		return nil, common.NewValidationError("file", "must be a JPEG, PNG, GIF or WebP image")
	}

	publicID := fmt.Sprintf("%d-%s", user.ID, uuid.NewString())
	filename := publicID + mt.Extension()

	originalName = filepath.Base(strings.TrimSpace(originalName))
	if originalName == "." || originalName == "/" || originalName == "" {
		originalName = filename
	}

	res, err := s.store.Upload(ctx, UploadInput{
		Folder:   UploadFolder,
		PublicID: publicID,
		Data:     data,
	})
	if err != nil {
		return nil, err
	}

	md := &Media{
		UserID:       user.ID,
		Filename:     filename,
		OriginalName: originalName,
		PublicID:     res.PublicID,
		URL:          res.SecureURL,
		Size:         int64(len(data)),
		Type:         mt.String(),
	}

	if err := s.m.insert(ctx, md); err != nil {
		return nil, err
	}

	return md, nil
}

func (s *MediaService) List(ctx context.Context, user *userservice.User, p common.Pagination) (*MediaPage, error) {
	p.Normalize(DefaultPageSize)

	media, total, err := s.m.listByUser(ctx, user.ID, p)
	if err != nil {
		return nil, err
	}

	return &MediaPage{Media: media, Pagination: common.NewMetadata(p, total)}, nil
}

// Delete removes the stored object and then its row. Media owned by
// somebody else is reported as not found.
func (s *MediaService) Delete(ctx context.Context, user *userservice.User, id int) error {
	v := common.NewValidator()
	common.ValidateID(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	md, err := s.m.getOwned(ctx, id, user.ID)
	if err != nil {
		return err
	}

	if err := s.store.Destroy(ctx, md.PublicID); err != nil {
		return err
	}

	return s.m.delete(ctx, md.ID)
}
