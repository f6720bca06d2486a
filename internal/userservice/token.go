package userservice

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrInvalidToken = errors.New("invalid or expired authentication token")
)

type claims struct {
	UserID int `json:"user_id"`
	jwt.StandardClaims
}

// TokenMaker issues and verifies HS256 session tokens.
type TokenMaker struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenMaker(secret string, ttl time.Duration) *TokenMaker {
	return &TokenMaker{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (tm *TokenMaker) Create(userID int) (*AuthToken, error) {
	now := tm.now()
	expiry := now.Add(tm.ttl)

	c := claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: expiry.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return nil, fmt.Errorf("could not sign token: %w", err)
	}

	return &AuthToken{Token: signed, Expiry: expiry}, nil
}

// Verify returns the user id carried by a valid token.
func (tm *TokenMaker) Verify(tokenString string) (int, error) {
	c := &claims{}

	token, err := jwt.ParseWithClaims(tokenString, c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	if c.UserID < 1 {
		return 0, ErrInvalidToken
	}

	return c.UserID, nil
}
