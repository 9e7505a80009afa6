package handlers

import (
	"bytes"
	"context"
	"io"
	"sync"

	"webappmanager/internal/models"
	"webappmanager/internal/repository"
	"webappmanager/internal/tasks"
)

type memUsers struct {
	mu   sync.Mutex
	byID map[string]models.User
	ids  []string
}

func (m *memUsers) Create(_ context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	m.byID[user.ID] = user
	m.ids = append(m.ids, user.ID)
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return models.User{}, repository.ErrUserNotFound
}

func (m *memUsers) List(_ context.Context, limit, offset int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, id := range m.ids {
		if u, ok := m.byID[id]; ok {
			out = append(out, u)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memUsers) UpdateRole(_ context.Context, id string, role models.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Role = role
	m.byID[id] = u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return 0, repository.ErrUserNotFound
	}
	delete(m.byID, id)
	return 0, nil
}

type memImages struct {
	mu    sync.Mutex
	byID  map[string]models.Image
	order []string
}

func (m *memImages) Create(_ context.Context, image models.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[image.ID] = image
	m.order = append(m.order, image.ID)
	return nil
}

func (m *memImages) GetByID(_ context.Context, id string) (models.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if img, ok := m.byID[id]; ok {
		return img, nil
	}
	return models.Image{}, repository.ErrImageNotFound
}

func (m *memImages) List(_ context.Context, limit, offset int) ([]models.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Image
	for i := len(m.order) - 1; i >= 0; i-- {
		if img := m.byID[m.order[i]]; img.Status != models.ImageStatusDeleted {
			out = append(out, img)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memImages) MarkDeleted(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.byID[id]
	if !ok || img.Status == models.ImageStatusDeleted {
		return repository.ErrImageNotFound
	}
	img.Status = models.ImageStatusDeleted
	m.byID[id] = img
	return nil
}

type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memObjects) Bucket() string { return "images" }

func (m *memObjects) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (int64, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	m.objects[key] = buf.Bytes()
	m.mu.Unlock()
	return n, nil
}

func (m *memObjects) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *memObjects) PublicURL(key string) string {
	return "http://cdn.test/images/" + key
}

type memQueue struct {
	mu    sync.Mutex
	tasks []tasks.Task
}

func (q *memQueue) Enqueue(_ context.Context, task tasks.Task) error {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
	return nil
}
