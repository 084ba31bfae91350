package utils

import (
	"errors"
	"sync/atomic"

	"github.com/sarkargroup/smd-backend/pkg/response"
	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash.
var ErrPasswordTooLong = response.NewBadRequest("Password must be at most 72 bytes.")

var bcryptCost atomic.Int64

func init() {
	bcryptCost.Store(bcrypt.DefaultCost)
}

// SetBcryptCost sets the work factor used by HashPassword.
func SetBcryptCost(cost int) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	bcryptCost.Store(int64(cost))
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), int(bcryptCost.Load()))
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong.Wrap(err)
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
