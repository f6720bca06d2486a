package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sushihentaime/writeflow/internal/common"
)

var (
	ErrDuplicateEmail = errors.New("duplicate email")
)

const userColumns = `id, email, password, name, bio, profile_picture, social_links, role, is_verified, created_at, updated_at, version`

func NewUserModel(db *sql.DB) *UserModel {
	return &UserModel{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, extra ...any) (*User, error) {
	var (
		u     User
		links []byte
	)

	dest := []any{&u.ID, &u.Email, &u.Password.hash, &u.Name, &u.Bio, &u.ProfilePicture, &links, &u.Role, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt, &u.Version}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	u.SocialLinks = map[string]string{}
	if len(links) > 0 {
		if err := json.Unmarshal(links, &u.SocialLinks); err != nil {
			return nil, fmt.Errorf("could not decode social links: %w", err)
		}
	}

	return &u, nil
}

func encodeSocialLinks(links map[string]string) (string, error) {
	if links == nil {
		links = map[string]string{}
	}

	b, err := json.Marshal(links)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func (m *UserModel) insert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (email, password, name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, social_links, is_verified, created_at, updated_at, version`

	var links []byte
	err := m.db.QueryRowContext(ctx, query, u.Email, u.Password.hash, u.Name, u.Role).Scan(&u.ID, &links, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "users_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	u.SocialLinks = map[string]string{}

	return nil
}

func (m *UserModel) getByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(m.db.QueryRowContext(ctx, query, email))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return u, nil
}

func (m *UserModel) getByID(ctx context.Context, id int) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(m.db.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return u, nil
}

func (m *UserModel) updateProfile(ctx context.Context, u *User) error {
	links, err := encodeSocialLinks(u.SocialLinks)
	if err != nil {
		return err
	}

	query := `
		UPDATE users
		SET name = $1, bio = $2, profile_picture = $3, social_links = $4, updated_at = NOW(), version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING updated_at, version`

	err = m.db.QueryRowContext(ctx, query, u.Name, u.Bio, u.ProfilePicture, links, u.ID, u.Version).Scan(&u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrEditConflict
		default:
			return err
		}
	}

	return nil
}

func (m *UserModel) updatePassword(ctx context.Context, pwd Password, id int) error {
	query := `
		UPDATE users
		SET password = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2`

	_, err := m.db.ExecContext(ctx, query, pwd.hash, id)
	return err
}

// list returns every user with the number of posts they have published.
func (m *UserModel) list(ctx context.Context) ([]*AdminUser, error) {
	query := `
		SELECT u.id, u.email, u.password, u.name, u.bio, u.profile_picture, u.social_links, u.role, u.is_verified,
			u.created_at, u.updated_at, u.version,
			(SELECT COUNT(*) FROM posts p WHERE p.author_id = u.id AND p.status = 'published')
		FROM users u
		ORDER BY u.created_at DESC, u.id DESC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*AdminUser{}
	for rows.Next() {
		var count int
		u, err := scanUser(rows, &count)
		if err != nil {
			return nil, err
		}
		users = append(users, &AdminUser{User: *u, PostCount: count})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (m *UserModel) updateRole(ctx context.Context, id int, role Role) (*User, error) {
	query := `
		UPDATE users
		SET role = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2
		RETURNING ` + userColumns

	u, err := scanUser(m.db.QueryRowContext(ctx, query, role, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return u, nil
}

func (m *UserModel) delete(ctx context.Context, id int) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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

func (m *UserModel) upsertOTP(ctx context.Context, otp *OTP) error {
	query := `
		INSERT INTO otp_codes (email, purpose, code, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email, purpose)
		DO UPDATE SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at, created_at = NOW()`

	_, err := m.db.ExecContext(ctx, query, otp.Email, otp.Purpose, otp.Code, otp.ExpiresAt)
	return err
}

func (m *UserModel) getOTP(ctx context.Context, email, purpose string) (*OTP, error) {
	query := `
		SELECT email, purpose, code, expires_at
		FROM otp_codes
		WHERE email = $1 AND purpose = $2`

	var otp OTP
	err := m.db.QueryRowContext(ctx, query, email, purpose).Scan(&otp.Email, &otp.Purpose, &otp.Code, &otp.ExpiresAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &otp, nil
}

func (m *UserModel) deleteOTP(tx *sql.Tx, ctx context.Context, email, purpose string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM otp_codes WHERE email = $1 AND purpose = $2`, email, purpose)
	return err
}

func (m *UserModel) promoteToAuthor(tx *sql.Tx, ctx context.Context, id int) error {
	query := `
		UPDATE users
		SET role = 'author', is_verified = true, updated_at = NOW(), version = version + 1
		WHERE id = $1`

	res, err := tx.ExecContext(ctx, query, id)
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
