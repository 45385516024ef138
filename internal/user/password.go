package user

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the work factor used when the platform
// first hashed its passwords; changing it only affects new hashes.
const DefaultBcryptCost = 12

func HashPassword(password string) (string, error) {
	return HashPasswordCost(password, DefaultBcryptCost)
}

func HashPasswordCost(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
