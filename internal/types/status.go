package types

// UserStatus mirrors the integer status column on users.
// Only active users may log in.
type UserStatus int

const (
	UserStatusInactive UserStatus = 0
	UserStatusActive   UserStatus = 1
)
