package userservice

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/sushihentaime/writeflow/internal/common"
)

const (
	passwordCost = 12
	// bcrypt only reads the first 72 bytes. Multi-byte characters can pass the
	// character-length check and still exceed it.
	maxPasswordBytes = 72
)

var errPasswordTooLong = common.NewValidationError("password", "must not be more than 72 bytes long")

func (p *Password) set(plain string) error {
	if len(plain) > maxPasswordBytes {
		return errPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
	if err != nil {
		return err
	}

	p.Plain = plain
	p.hash = hash

	return nil
}

// matches reports whether plain is the stored password. A mismatch is not an error.
func (p *Password) matches(plain string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return err == nil, err
}

// needsRehash reports whether the stored hash was made with another cost.
func (p *Password) needsRehash() bool {
	cost, err := bcrypt.Cost(p.hash)
	return err == nil && cost != passwordCost
}
