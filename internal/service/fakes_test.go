package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"

	"webappmanager/internal/models"
	"webappmanager/internal/repository"
	"webappmanager/internal/tasks"
)

type memUsers struct {
	byID   map[string]models.User
	images *memImages
}

func newMemUsers(users ...models.User) *memUsers {
	m := &memUsers{byID: map[string]models.User{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, user models.User) error {
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	m.byID[user.ID] = user
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) List(_ context.Context, limit, offset int) ([]models.User, error) {
	var out []models.User
	for _, u := range m.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
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
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Role = role
	m.byID[id] = u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := m.byID[id]; !ok {
		return 0, repository.ErrUserNotFound
	}
	delete(m.byID, id)
	if m.images == nil {
		return 0, nil
	}
	var retired int64
	for imgID, img := range m.images.byID {
		if img.UserID == id && img.Status != models.ImageStatusDeleted {
			img.Status = models.ImageStatusDeleted
			img.UserID = ""
			m.images.byID[imgID] = img
			retired++
		}
	}
	return retired, nil
}

type memImages struct {
	byID      map[string]models.Image
	order     []string
	createErr error
}

func newMemImages() *memImages {
	return &memImages{byID: map[string]models.Image{}}
}

func (m *memImages) Create(_ context.Context, image models.Image) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.byID[image.ID] = image
	m.order = append(m.order, image.ID)
	return nil
}

func (m *memImages) GetByID(_ context.Context, id string) (models.Image, error) {
	img, ok := m.byID[id]
	if !ok {
		return models.Image{}, repository.ErrImageNotFound
	}
	return img, nil
}

func (m *memImages) List(_ context.Context, limit, offset int) ([]models.Image, error) {
	var out []models.Image
	for i := len(m.order) - 1; i >= 0; i-- {
		img := m.byID[m.order[i]]
		if img.Status != models.ImageStatusDeleted {
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
	img, ok := m.byID[id]
	if !ok || img.Status == models.ImageStatusDeleted {
		return repository.ErrImageNotFound
	}
	img.Status = models.ImageStatusDeleted
	m.byID[id] = img
	return nil
}

type memObjects struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemObjects() *memObjects {
	return &memObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memObjects) Bucket() string { return "images" }

func (m *memObjects) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) (int64, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		return 0, err
	}
	m.objects[key] = buf.Bytes()
	m.types[key] = contentType
	return n, nil
}

func (m *memObjects) Remove(_ context.Context, key string) error {
	delete(m.objects, key)
	delete(m.types, key)
	return nil
}

func (m *memObjects) PublicURL(key string) string {
	return "http://cdn.test/images/" + key
}

type memQueue struct {
	tasks []tasks.Task
	err   error
}

func (q *memQueue) Enqueue(_ context.Context, task tasks.Task) error {
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, task)
	return nil
}

var errQueueDown = errors.New("queue down")
