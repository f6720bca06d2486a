package userservice

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/sushihentaime/writeflow/internal/common"
)

var (
	ErrInvalidCredentials = errors.New("invalid authentication credentials")
	ErrAlreadyAuthor      = errors.New("user already has author privileges")
	ErrInvalidOTP         = errors.New("invalid verification code")
	ErrExpiredOTP         = errors.New("verification code has expired")
	ErrSelfDeletion       = errors.New("you cannot delete your own account")
)

func NewUserService(db *sql.DB, mb common.MessageProducer, tokens *TokenMaker) *UserService {
	return &UserService{
		m:      NewUserModel(db),
		mb:     mb,
		tokens: tokens,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a reader account and returns a session token for it.
func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*User, *AuthToken, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)

	v := common.NewValidator()
	common.ValidateEmail(v, email)
	validatePassword(v, req.Password)
	validateName(v, name)
	if !v.Valid() {
		return nil, nil, v.ValidationError()
	}

	u := &User{
		Email: email,
		Name:  name,
		Role:  RoleReader,
	}

	if err := u.Password.set(req.Password); err != nil {
		return nil, nil, err
	}

	err := s.m.insert(ctx, u)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			return nil, nil, common.NewValidationError("email", "a user with this email address already exists")
		default:
			return nil, nil, err
		}
	}

	token, err := s.tokens.Create(u.ID)
	if err != nil {
		return nil, nil, err
	}

	return u, token, nil
}

// Login checks the credentials and issues a new session token.
func (s *UserService) Login(ctx context.Context, email, password string) (*User, *AuthToken, error) {
	email = normalizeEmail(email)

	v := common.NewValidator()
	common.ValidateEmail(v, email)
	v.Check(password != "", "password", "must be provided")
	if !v.Valid() {
		return nil, nil, v.ValidationError()
	}

	u, err := s.m.getByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, nil, ErrInvalidCredentials
		default:
			return nil, nil, err
		}
	}

	ok, err := u.Password.matches(password)
	if err != nil {
		return nil, nil, err
	}

	if !ok {
		return nil, nil, ErrInvalidCredentials
	}

	if u.Password.needsRehash() {
		if err := u.Password.set(password); err != nil {
			return nil, nil, err
		}

		if err := s.m.updatePassword(ctx, u.Password, u.ID); err != nil {
			return nil, nil, err
		}
	}

	token, err := s.tokens.Create(u.ID)
	if err != nil {
		return nil, nil, err
	}

	return u, token, nil
}

// Authenticate resolves a session token to its user. Unknown users and bad
// tokens both yield ErrInvalidToken.
func (s *UserService) Authenticate(ctx context.Context, token string) (*User, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	u, err := s.m.getByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, ErrInvalidToken
		default:
			return nil, err
		}
	}

	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*User, error) {
	v := common.NewValidator()
	common.ValidateID(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getByID(ctx, id)
}

func (s *UserService) GetPublicProfile(ctx context.Context, id int) (*PublicProfile, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	return u.publicProfile(), nil
}

// UpdateProfile applies the non-nil fields of req to the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, user *User, req *UpdateProfileRequest) (*User, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}

	v := common.NewValidator()
	validateProfile(v, req)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u, err := s.m.getByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = *req.Name
	}

	if req.Bio != nil {
		u.Bio = req.Bio
	}

	if req.ProfilePicture != nil {
		u.ProfilePicture = req.ProfilePicture
	}

	if req.SocialLinks != nil {
		u.SocialLinks = req.SocialLinks
	}

	if err := s.m.updateProfile(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// RequestOTP stores a fresh verification code for the user and publishes it
// for delivery by email.
func (s *UserService) RequestOTP(ctx context.Context, user *User, purpose string) error {
	v := common.NewValidator()
	v.Check(purpose == OTPPurposeAuthorVerification, "purpose", "must be author_verification")
	if !v.Valid() {
		return v.ValidationError()
	}

	if user.HasRole(RoleAuthor, RoleAdmin) {
		return ErrAlreadyAuthor
	}

	otp, err := newOTP(user.Email, purpose, OTPTime)
	if err != nil {
		return err
	}

	if err := s.m.upsertOTP(ctx, otp); err != nil {
		return err
	}

	return common.PublishJSON(ctx, s.mb, common.OTPRequestedKey, common.OTPRequestedMessage{
		Email:   user.Email,
		Name:    user.Name,
		Code:    otp.Code,
		Purpose: purpose,
	})
}

// BecomeAuthor upgrades a reader to author when code matches the stored,
// unexpired verification code.
func (s *UserService) BecomeAuthor(ctx context.Context, user *User, code string) (*User, error) {
	code = strings.TrimSpace(code)

	v := common.NewValidator()
	validateOTPCode(v, code)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if user.HasRole(RoleAuthor, RoleAdmin) {
		return nil, ErrAlreadyAuthor
	}

	otp, err := s.m.getOTP(ctx, user.Email, OTPPurposeAuthorVerification)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, ErrInvalidOTP
		default:
			return nil, err
		}
	}

	if otp.expired(time.Now()) {
		return nil, ErrExpiredOTP
	}

	if otp.Code != code {
		return nil, ErrInvalidOTP
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if err := s.m.promoteToAuthor(tx, ctx, user.ID); err != nil {
		return nil, common.RollbackTx(tx, err)
	}

	if err := s.m.deleteOTP(tx, ctx, user.Email, OTPPurposeAuthorVerification); err != nil {
		return nil, common.RollbackTx(tx, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.m.getByID(ctx, user.ID)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*AdminUser, error) {
	return s.m.list(ctx)
}

func (s *UserService) UpdateUserRole(ctx context.Context, id int, role Role) (*User, error) {
	v := common.NewValidator()
	common.ValidateID(v, id, "id")
	validateRole(v, role)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.updateRole(ctx, id, role)
}

// DeleteUser removes a user and, through cascades, everything they own.
func (s *UserService) DeleteUser(ctx context.Context, actor *User, id int) error {
	v := common.NewValidator()
	common.ValidateID(v, id, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	if actor.ID == id {
		return ErrSelfDeletion
	}

	return s.m.delete(ctx, id)
}

// CreateAdmin creates an administrator, or promotes the existing account
// with that email.
func (s *UserService) CreateAdmin(ctx context.Context, email, password, name string) (*User, error) {
	u, _, err := s.Register(ctx, &RegisterRequest{Email: email, Password: password, Name: name})
	if err != nil {
		var verr common.ValidationError
		if !errors.As(err, &verr) || verr.Errors["email"] != "a user with this email address already exists" {
			return nil, err
		}

		u, err = s.m.getByEmail(ctx, normalizeEmail(email))
		if err != nil {
			return nil, err
		}
	}

	return s.m.updateRole(ctx, u.ID, RoleAdmin)
}
