package userservice

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

var OTPRX = regexp.MustCompile(`^[0-9]{6}$`)

func newOTP(email, purpose string, ttl time.Duration) (*OTP, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return nil, err
	}

	return &OTP{
		Email:     email,
		Purpose:   purpose,
		Code:      fmt.Sprintf("%06d", n.Int64()),
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

func (o *OTP) expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
