package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/billbook/billbook/internal/config"
	"github.com/billbook/billbook/internal/domain/auth"
	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

type jwtAuth struct {
	AuthConfig config.AuthConfig
	now        func() time.Time
}

func NewJWTAuth(cfg *config.Configuration) *jwtAuth {
	return &jwtAuth{
		AuthConfig: cfg.Auth,
		now:        time.Now,
	}
}

func (j *jwtAuth) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ierr.NewError("password is required").
			WithHint("Password is required").
			Mark(ierr.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to hash password").
			Mark(ierr.ErrSystem)
	}
	return string(hashed), nil
}

func (j *jwtAuth) ComparePassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ierr.WithError(err).
			WithHint("Invalid email or password").
			Mark(ierr.ErrPermissionDenied)
	}
	return nil
}

// GenerateToken signs an HS256 token carrying name, email and role.
// The expiry is the configured token TTL from now.
func (j *jwtAuth) GenerateToken(claims auth.Claims) (string, error) {
	now := j.now()
	expiration := now.Add(j.AuthConfig.TokenTTL)

	mapClaims := jwt.MapClaims{
		"name":  claims.Name,
		"email": claims.Email,
		"role":  claims.Role,
		"exp":   expiration.Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	signed, err := token.SignedString([]byte(j.AuthConfig.Secret))
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to generate token").
			Mark(ierr.ErrSystem)
	}
	return signed, nil
}

func (j *jwtAuth) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ierr.NewError("unexpected signing method").
				WithHint(fmt.Sprintf("unexpected signing method: %v", token.Header["alg"])).
				Mark(ierr.ErrPermissionDenied)
		}
		return []byte(j.AuthConfig.Secret), nil
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid or expired token").
			Mark(ierr.ErrPermissionDenied)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ierr.NewError("invalid token claims").
			WithHint("Invalid token claims").
			Mark(ierr.ErrPermissionDenied)
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return nil, ierr.NewError("token missing email").
			WithHint("Invalid token claims").
			Mark(ierr.ErrPermissionDenied)
	}

	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)

	result := &auth.Claims{Name: name, Email: email, Role: role}
	if exp, ok := claims["exp"].(float64); ok {
		result.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return result, nil
}
