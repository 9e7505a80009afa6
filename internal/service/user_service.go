package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"webappmanager/internal/ids"
	"webappmanager/internal/models"
	"webappmanager/internal/security"
	"webappmanager/internal/tasks"
)

// MinPasswordLength applies to every account, whether created over HTTP or the CLI.
const MinPasswordLength = 8

var (
	ErrForbiddenRole    = errors.New("role exceeds creator")
	ErrCannotDeleteSelf = errors.New("cannot delete own account")
	ErrInvalidUser      = errors.New("invalid user input")
	ErrWeakPassword     = errors.New("password too short")
)

type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Role     models.Role
	Phone    *string
}

type UserService struct {
	users UserStore
	queue TaskQueue
	log   zerolog.Logger
	hash  func(string) ([]byte, error)
	now   func() time.Time
}

// NewUserService builds the service. queue may be nil when users are never deleted, as in the CLI.
func NewUserService(users UserStore, queue TaskQueue, log zerolog.Logger) *UserService {
	return &UserService{
		users: users,
		queue: queue,
		log:   log,
		hash:  security.HashPassword,
		now:   time.Now,
	}
}

// Create provisions a user without an acting principal, as the CLI does.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (models.User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Name = strings.TrimSpace(input.Name)
	if input.Email == "" || input.Password == "" || !input.Role.Valid() {
		return models.User{}, ErrInvalidUser
	}
	if len([]rune(input.Password)) < MinPasswordLength {
		return models.User{}, ErrWeakPassword
	}
	if input.Name == "" {
		input.Name = input.Email
	}

	hash, err := s.hash(input.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := models.User{
		ID:           ids.New(),
		Email:        input.Email,
		PasswordHash: hash,
		DisplayName:  input.Name,
		Role:         input.Role,
		Status:       models.UserStatusActive,
		Phone:        input.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// CreateAs creates a user on behalf of actor, who may not grant a role above its own.
func (s *UserService) CreateAs(ctx context.Context, actor models.Role, input CreateUserInput) (models.User, error) {
	if input.Role.Rank() > actor.Rank() {
		return models.User{}, ErrForbiddenRole
	}
	return s.Create(ctx, input)
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.users.List(ctx, limit, offset)
}

// Delete removes a user. Their images are soft-deleted with them and a cleanup
// task is queued so the worker removes the stored objects.
func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrCannotDeleteSelf
	}
	retired, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if retired == 0 || s.queue == nil {
		return nil
	}
	if err := s.queue.Enqueue(ctx, tasks.Cleanup()); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Int64("images", retired).Msg("enqueue cleanup failed")
	}
	return nil
}

func (s *UserService) SetRole(ctx context.Context, email string, role models.Role) (models.User, error) {
	if !role.Valid() {
		return models.User{}, ErrInvalidUser
	}
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return models.User{}, err
	}
	if err := s.users.UpdateRole(ctx, user.ID, role); err != nil {
		return models.User{}, err
	}
	user.Role = role
	return user, nil
}
