package userservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/writeflow/internal/common"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
	RoleReader Role = "reader"

	AuthTokenTime time.Duration = 7 * 24 * time.Hour
	OTPTime       time.Duration = 10 * time.Minute

	OTPPurposeAuthorVerification = "author_verification"
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m      *UserModel
	mb     common.MessageProducer
	tokens *TokenMaker
}

type UserModel struct {
	db *sql.DB
}

type User struct {
	ID             int               `json:"id"`
	Email          string            `json:"email"`
	Password       Password          `json:"-"`
	Name           string            `json:"name"`
	Bio            *string           `json:"bio"`
	ProfilePicture *string           `json:"profile_picture"`
	SocialLinks    map[string]string `json:"social_links"`
	Role           Role              `json:"role"`
	IsVerified     bool              `json:"is_verified"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Version        int               `json:"-"`
}

// AdminUser is a user row as listed in the admin dashboard.
type AdminUser struct {
	User
	PostCount int `json:"post_count"`
}

// PublicProfile is what anybody can see about an author.
type PublicProfile struct {
	ID             int               `json:"id"`
	Name           string            `json:"name"`
	Bio            *string           `json:"bio"`
	ProfilePicture *string           `json:"profile_picture"`
	SocialLinks    map[string]string `json:"social_links"`
	Role           Role              `json:"role"`
	CreatedAt      time.Time         `json:"created_at"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

type AuthToken struct {
	Token  string    `json:"token"`
	Expiry time.Time `json:"expiry"`
}

type OTP struct {
	Email     string
	Purpose   string
	Code      string
	ExpiresAt time.Time
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type UpdateProfileRequest struct {
	Name           *string           `json:"name"`
	Bio            *string           `json:"bio"`
	ProfilePicture *string           `json:"profile_picture"`
	SocialLinks    map[string]string `json:"social_links"`
}
