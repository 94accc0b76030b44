package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/okorneva/cloudstore/internal/logger"
	"github.com/okorneva/cloudstore/internal/model"
)

// Session translates credentials into an auth token and a token back into a
// user. Each user holds at most one token at a time: logging in overwrites
// the previous one, logging out clears it.
type Session struct {
	userStore model.UserStore
	logger    *logger.Logger
}

// NewSession creates a new Session service.
func NewSession(userStore model.UserStore, logger *logger.Logger) *Session {
	return &Session{
		userStore: userStore,
		logger:    logger,
	}
}

// Login checks the credentials by exact match and issues a fresh token. The
// token is redrawn until the store confirms no other user holds it; a unique
// violation on save means another login won the same draw, so the loop
// redraws rather than failing.
func (s *Session) Login(ctx context.Context, login, password string) (string, error) {
	s.logger.Debug("Session service: login attempt", "login", login)

	user, err := s.userStore.GetByCredentials(ctx, login, password)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Info("Session service: credentials rejected", "login", login)
		return "", model.NewErrInvalidCredentials()
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user by credentials: %w", err)
	}

	for {
		token := uuid.NewString()

		_, err := s.userStore.GetByToken(ctx, token)
		if err == nil {
			continue
		}
		if !errors.Is(err, model.ErrNotFound) {
			return "", fmt.Errorf("failed to check token uniqueness: %w", err)
		}

		user.AuthToken = token
		if _, err := s.userStore.Save(ctx, user); err != nil {
			if errors.Is(err, model.ErrTokenTaken) {
				continue
			}
			return "", fmt.Errorf("failed to save user token: %w", err)
		}

		s.logger.Info("Session service: login completed", "login", login)
		return token, nil
	}
}

// Resolve maps a token to its holder. An empty or unknown token fails with
// an unauthenticated error.
func (s *Session) Resolve(ctx context.Context, token string) (model.User, error) {
	if token == "" {
		return model.User{}, model.NewErrUnauthenticated()
	}

	user, err := s.userStore.GetByToken(ctx, token)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.NewErrUnauthenticated()
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by token: %w", err)
	}

	return user, nil
}

// Logout clears the token from its holder. An unknown token is a no-op.
func (s *Session) Logout(ctx context.Context, token string) error {
	user, err := s.userStore.GetByToken(ctx, token)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get user by token: %w", err)
	}

	user.AuthToken = ""
	if _, err := s.userStore.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to clear user token: %w", err)
	}

	s.logger.Info("Session service: logout completed", "login", user.Login)
	return nil
}
