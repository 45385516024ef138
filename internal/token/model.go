package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"gorm.io/gorm"

	"newswire/internal/user"
)

var (
	ErrNotFound = errors.New("token not found")
	ErrInactive = errors.New("token is inactive")
	ErrExpired  = errors.New("token has expired")
)

// AuthToken is a store-issued opaque bearer secret for machine
// clients, validated by direct lookup rather than signature.
type AuthToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Token     string     `gorm:"uniqueIndex;size:64;not null" json:"token"`
	Type      string     `gorm:"size:50;not null;default:'API'" json:"type"`
	IsActive  bool       `gorm:"not null;default:true" json:"isActive"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	UserID    *uint      `json:"userId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	User *user.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// GenerateValue returns a new random opaque token value (32 bytes,
// hex encoded).
func GenerateValue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Lookup validates an opaque token value: the row must exist, be
// active, and be unexpired. The active flag is checked before expiry.
func Lookup(db *gorm.DB, value string) (*AuthToken, error) {
	var t AuthToken
	if err := db.Where("token = ?", value).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !t.IsActive {
		return nil, ErrInactive
	}
	if t.ExpiresAt != nil && time.Now().After(*t.ExpiresAt) {
		return nil, ErrExpired
	}
	return &t, nil
}
