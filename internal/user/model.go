package user

import (
	"time"
)

type Role string

const (
	RoleVisitor Role = "VISITOR"
	RoleEditor  Role = "EDITOR"
	RoleAdmin   Role = "ADMIN"
)

var roleRank = map[Role]int{
	RoleVisitor: 0,
	RoleEditor:  1,
	RoleAdmin:   2,
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r sits at or above min in the
// VISITOR < EDITOR < ADMIN hierarchy.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id" xml:"id"`
	Username     string    `gorm:"uniqueIndex;size:32;not null" json:"username" xml:"username"`
	Email        string    `gorm:"uniqueIndex;size:200;not null" json:"email" xml:"email"`
	PasswordHash string    `gorm:"size:128;not null" json:"-" xml:"-"`
	Role         Role      `gorm:"type:varchar(10);not null;default:'VISITOR'" json:"role" xml:"role"`
	CreatedAt    time.Time `json:"createdAt" xml:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" xml:"updatedAt"`
}

// Public is the subset of user fields safe to join into other
// resources (article authors, token owners).
type Public struct {
	ID       uint   `json:"id" xml:"id"`
	Username string `json:"username" xml:"username"`
	Email    string `json:"email" xml:"email"`
}

func (u User) Public() Public {
	return Public{ID: u.ID, Username: u.Username, Email: u.Email}
}
