package service

import (
	"context"
	"io"

	"webappmanager/internal/models"
	"webappmanager/internal/tasks"
)

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	UpdateRole(ctx context.Context, id string, role models.Role) error
	// Delete removes the user and retires their images, returning how many were retired.
	Delete(ctx context.Context, id string) (int64, error)
}

type ImageStore interface {
	Create(ctx context.Context, image models.Image) error
	GetByID(ctx context.Context, id string) (models.Image, error)
	List(ctx context.Context, limit, offset int) ([]models.Image, error)
	MarkDeleted(ctx context.Context, id string) error
}

type ObjectStore interface {
	Bucket() string
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (int64, error)
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
}

type TaskQueue interface {
	Enqueue(ctx context.Context, task tasks.Task) error
}
