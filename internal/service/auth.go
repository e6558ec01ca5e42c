package service

import (
	"context"

	"github.com/billbook/billbook/internal/api/dto"
	domainAuth "github.com/billbook/billbook/internal/domain/auth"
	"github.com/billbook/billbook/internal/domain/user"
	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/billbook/billbook/internal/types"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	// ChangePassword acts on the user whose email is in the request context
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (*dto.SuccessResponse, error)
	CreateUser(ctx context.Context, name, email, password, role string) (*user.User, error)
}

type authService struct {
	ServiceParams
}

func NewAuthService(params ServiceParams) AuthService {
	return &authService{
		ServiceParams: params,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.UserRepo.GetActiveByEmail(ctx, req.Email)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if err := s.Auth.ComparePassword(u.Password, req.Password); err != nil {
		return nil, invalidCredentials()
	}

	token, err := s.Auth.GenerateToken(domainAuth.Claims{
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("user logged in", "user_id", u.ID, "email", u.Email)

	return &dto.LoginResponse{
		Message: dto.LoginSuccessMessage,
		Token:   token,
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (*dto.SuccessResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := types.GetUserEmail(ctx)
	if email == "" {
		return nil, ierr.NewError("no authenticated user in context").
			WithHint("Unauthorized").
			Mark(ierr.ErrPermissionDenied)
	}

	u, err := s.UserRepo.GetActiveByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.Auth.ComparePassword(u.Password, req.CurrentPassword); err != nil {
		return nil, ierr.NewError("current password mismatch").
			WithHint("Current password is incorrect").
			Mark(ierr.ErrPermissionDenied)
	}

	hash, err := s.Auth.HashPassword(req.NewPassword)
	if err != nil {
		return nil, err
	}

	if err := s.UserRepo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return nil, err
	}

	s.Logger.Infow("password changed", "user_id", u.ID)
	return &dto.SuccessResponse{Message: dto.PasswordChangedMessage}, nil
}

func (s *authService) CreateUser(ctx context.Context, name, email, password, role string) (*user.User, error) {
	hash, err := s.Auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := user.NewUser(name, email, hash, role)
	if err := s.UserRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// invalidCredentials hides whether the email or the password was wrong
func invalidCredentials() error {
	return ierr.NewError("invalid credentials").
		WithHint("Invalid email or password").
		Mark(ierr.ErrPermissionDenied)
}
