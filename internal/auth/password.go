package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for every stored hash.
const PasswordCost = 10

// Bcrypt hashes and checks passwords. A zero Cost means PasswordCost.
type Bcrypt struct{ Cost int }

func (b Bcrypt) cost() int {
	if b.Cost == 0 {
		return PasswordCost
	}
	return b.Cost
}

// Hash hashes a plaintext password.
func (b Bcrypt) Hash(pw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), b.cost())
	return string(h), err
}

// Compare returns false with a nil error on a plain mismatch. Any other
// failure (e.g. a corrupt hash) is returned as an error.
func (b Bcrypt) Compare(hash, pw string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
