package hash

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 10

// Bcrypt hashes passwords with a fixed cost. The zero value uses DefaultCost.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) cost() int {
	if b.Cost == 0 {
		return DefaultCost
	}
	return b.Cost
}

func (b Bcrypt) Hash(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), b.cost())
	if err != nil {
		return "", err
	}
	return string(hashbytes), nil
}

// Compare returns false with a nil error on mismatch; an error means the stored
// hash itself is unusable.
func (b Bcrypt) Compare(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

func HashPassword(password string) (string, error) {
	return Bcrypt{}.Hash(password)
}

func CheckPassword(hash, password string) bool {
	ok, err := Bcrypt{}.Compare(hash, password)
	return err == nil && ok
}
