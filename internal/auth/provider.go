package auth

import (
	"context"

	"github.com/billbook/billbook/internal/config"
	"github.com/billbook/billbook/internal/domain/auth"
)

// Provider issues and verifies access tokens and hashes passwords
type Provider interface {
	GenerateToken(claims auth.Claims) (string, error)
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
	HashPassword(password string) (string, error)
	ComparePassword(hash, password string) error
}

func NewProvider(cfg *config.Configuration) Provider {
	return NewJWTAuth(cfg)
}
