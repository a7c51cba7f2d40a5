package services

import (
	"context"
	"errors"

	"antiquites/internal/domain"
	"antiquites/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid email or password")

type AuthService struct {
	Users *repos.UserRepo
}

// Register creates a regular user. A duplicate email surfaces as *domain.ConstraintError.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	id, err := s.Users.Create(ctx, email, string(h), name)
	if err != nil {
		return nil, err
	}
	return s.Users.ByID(ctx, id)
}

// Authenticate checks credentials without touching any session.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	return u, nil
}

// Bind signs sid in as userID. Callers pass a freshly issued sid.
func (s *AuthService) Bind(ctx context.Context, sid string, userID int64) error {
	return s.Users.BindSession(ctx, sid, userID)
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.Users.UnbindSession(ctx, sid)
}

// CurrentUser returns nil for anonymous sessions.
func (s *AuthService) CurrentUser(ctx context.Context, sid string) (*domain.User, error) {
	return s.Users.SessionUser(ctx, sid)
}
