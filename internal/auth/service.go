package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"go.uber.org/zap"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
	"tradejournal/internal/service"
)

// ErrUnauthenticated covers bad credentials and bad/expired tokens.
var ErrUnauthenticated = errors.New("unauthenticated")

const minPasswordLen = 8

type Service struct {
	Repo   repository.Repository
	Tokens TokenManager
	Logger *zap.Logger
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
}

func (s *Service) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	if p.Username == "" {
		return nil, fmt.Errorf("%w: username is required", service.ErrValidation)
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", service.ErrValidation)
	}
	if len(p.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", service.ErrValidation, minPasswordLen)
	}

	existing, err := s.Repo.GetUserByUsername(ctx, p.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username already registered", service.ErrValidation)
	}
	existing, err = s.Repo.GetUserByEmail(ctx, p.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", service.ErrValidation)
	}

	hash, err := HashPassword(p.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: hash,
	}
	if err := s.Repo.InsertUser(ctx, user); err != nil {
		return nil, err
	}
	s.Logger.Info("user registered", zap.Uint64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login accepts either the email or the username as identity.
func (s *Service) Login(ctx context.Context, identity, password string) (*models.User, string, time.Time, error) {
	user, err := s.Repo.GetUserByEmail(ctx, identity)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		user, err = s.Repo.GetUserByUsername(ctx, identity)
		if err != nil {
			return nil, "", time.Time{}, err
		}
	}
	if user == nil || !VerifyPassword(password, user.PasswordHash) {
		return nil, "", time.Time{}, fmt.Errorf("%w: invalid email/username or password", ErrUnauthenticated)
	}

	now := time.Now().UTC()
	if err := s.Repo.UpdateUserLastLogin(ctx, user.ID, now); err != nil {
		return nil, "", time.Time{}, err
	}
	user.LastLogin = &now

	token, expiresAt, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	s.Logger.Info("login", zap.Uint64("user_id", user.ID))
	return user, token, expiresAt, nil
}

// Refresh reissues a token for an already authenticated user.
func (s *Service) Refresh(userID uint64) (string, time.Time, error) {
	return s.Tokens.Issue(userID)
}
