package auth

import "time"

// Claims are the identity fields carried in an access token
type Claims struct {
	Name      string
	Email     string
	Role      string
	ExpiresAt time.Time
}
