package user

import (
	"strings"
	"time"

	"github.com/billbook/billbook/internal/types"
)

const DefaultRole = "admin"

type User struct {
	ID        int64            `db:"id" json:"id"`
	Name      string           `db:"name" json:"name"`
	Email     string           `db:"email" json:"email"`
	Password  string           `db:"pass" json:"-"`
	Role      string           `db:"role" json:"role"`
	Status    types.UserStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// NewUser expects an already hashed password
func NewUser(name, email, passwordHash, role string) *User {
	if role == "" {
		role = DefaultRole
	}
	now := time.Now().UTC()
	return &User{
		Name:      name,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Password:  passwordHash,
		Role:      role,
		Status:    types.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (u *User) IsActive() bool {
	return u.Status == types.UserStatusActive
}
