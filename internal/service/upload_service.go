package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"webappmanager/internal/config"
	"webappmanager/internal/ids"
	"webappmanager/internal/media/sniffer"
	"webappmanager/internal/media/svg"
	"webappmanager/internal/models"
	"webappmanager/internal/tasks"
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported media type")
	ErrTypeMismatch    = errors.New("declared content type does not match")
	ErrEmptyFile       = errors.New("empty file")
)

const (
	DefaultPerPage = 50
	MaxPerPage     = 200
)

type UploadInput struct {
	UserID   string
	Filename string
	Header   textproto.MIMEHeader
	File     io.Reader
}

// ImageView is the public shape of a stored image.
type ImageView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Format    string    `json:"format"`
	SizeBytes int64     `json:"sizeBytes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type UploadService struct {
	images  ImageStore
	objects ObjectStore
	queue   TaskQueue
	cfg     config.UploadConfig
	now     func() time.Time
	log     zerolog.Logger
}

func NewUploadService(images ImageStore, objects ObjectStore, queue TaskQueue, cfg config.UploadConfig, log zerolog.Logger) *UploadService {
	return &UploadService{
		images:  images,
		objects: objects,
		queue:   queue,
		cfg:     cfg,
		now:     time.Now,
		log:     log,
	}
}

func (s *UploadService) Upload(ctx context.Context, input UploadInput) (ImageView, error) {
	if input.File == nil {
		return ImageView{}, ErrEmptyFile
	}

	data, err := io.ReadAll(io.LimitReader(input.File, s.cfg.MaxBytes+1))
	if err != nil {
		return ImageView{}, fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxBytes {
		return ImageView{}, ErrFileTooLarge
	}
	if len(data) == 0 {
		return ImageView{}, ErrEmptyFile
	}

	head := data
	if len(head) > sniffer.HeadSize {
		head = head[:sniffer.HeadSize]
	}
	result, err := sniffer.DetectHead(head)
	if err != nil || !sniffer.Allowed(s.cfg.AllowedTypes, result.MIME) {
		return ImageView{}, ErrUnsupportedType
	}
	if declared := sniffer.DeclaredType(input.Header); declared != "" && declared != result.MIME {
		return ImageView{}, ErrTypeMismatch
	}

	if result.Type == sniffer.TypeSVG {
		clean, err := svg.Sanitize(data)
		if err != nil {
			return ImageView{}, ErrUnsupportedType
		}
		data = clean
	}

	now := s.now().UTC()
	imageID := ids.New()
	objectKey := path.Join(now.Format("2006/01/02"), imageID+"."+result.Extension())

	size, err := s.objects.Put(ctx, objectKey, bytes.NewReader(data), int64(len(data)), result.MIME)
	if err != nil {
		return ImageView{}, fmt.Errorf("put object: %w", err)
	}

	sum := sha256.Sum256(data)
	image := models.Image{
		ID:           imageID,
		UserID:       input.UserID,
		Bucket:       s.objects.Bucket(),
		ObjectKey:    objectKey,
		OriginalName: originalName(input.Filename),
		Format:       string(result.Type),
		MIME:         result.MIME,
		SizeBytes:    size,
		Status:       models.ImageStatusProcessing,
		Checksum:     sum[:],
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.images.Create(ctx, image); err != nil {
		if rmErr := s.objects.Remove(context.WithoutCancel(ctx), objectKey); rmErr != nil {
			s.log.Error().Err(rmErr).Str("object", objectKey).Msg("remove orphaned object failed")
		}
		return ImageView{}, fmt.Errorf("save metadata: %w", err)
	}

	if err := s.queue.Enqueue(ctx, tasks.Ingest(image.ID)); err != nil {
		s.log.Warn().Err(err).Str("image_id", image.ID).Msg("enqueue ingest failed")
	}

	return s.view(image), nil
}

// List returns one page of the gallery, newest first.
func (s *UploadService) List(ctx context.Context, page, perPage int) ([]ImageView, error) {
	page, perPage = Paginate(page, perPage)
	images, err := s.images.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	views := make([]ImageView, 0, len(images))
	for _, image := range images {
		views = append(views, s.view(image))
	}
	return views, nil
}

// Delete soft-deletes the image; the worker removes the object later.
func (s *UploadService) Delete(ctx context.Context, id string) error {
	if err := s.images.MarkDeleted(ctx, id); err != nil {
		return err
	}
	if err := s.queue.Enqueue(ctx, tasks.Cleanup()); err != nil {
		s.log.Warn().Err(err).Str("image_id", id).Msg("enqueue cleanup failed")
	}
	return nil
}

func (s *UploadService) view(image models.Image) ImageView {
	name := image.OriginalName
	if name == "" {
		name = path.Base(image.ObjectKey)
	}
	return ImageView{
		ID:        image.ID,
		Name:      name,
		URL:       s.objects.PublicURL(image.ObjectKey),
		Format:    image.Format,
		SizeBytes: image.SizeBytes,
		Status:    string(image.Status),
		CreatedAt: image.CreatedAt,
	}
}

// Paginate clamps page to >= 1 and perPage to [1, MaxPerPage], defaulting to DefaultPerPage.
func Paginate(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

func originalName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	if len(name) > 255 {
		name = name[:255]
	}
	return name
}
