package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"webappmanager/internal/repository"
	"webappmanager/internal/security"
	"webappmanager/internal/session"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user inactive")
)

type AuthService struct {
	users UserStore
	ttl   time.Duration
	now   func() time.Time
	log   zerolog.Logger
}

func NewAuthService(users UserStore, ttl time.Duration, log zerolog.Logger) *AuthService {
	return &AuthService{
		users: users,
		ttl:   ttl,
		now:   time.Now,
		log:   log,
	}
}

// Login checks the credentials and returns a fresh session record.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (session.Record, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return session.Record{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return session.Record{}, ErrInvalidCredentials
		}
		return session.Record{}, fmt.Errorf("find user: %w", err)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("stored password hash unreadable")
		return session.Record{}, ErrInvalidCredentials
	}
	if !ok {
		return session.Record{}, ErrInvalidCredentials
	}

	if !user.CanSignIn() {
		return session.Record{}, ErrUserInactive
	}

	return session.NewRecord(user, s.now(), s.ttl), nil
}
