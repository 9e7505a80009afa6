package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"webappmanager/internal/models"
	"webappmanager/internal/repository"
	"webappmanager/internal/storage"
)

type ImageStore interface {
	GetByID(ctx context.Context, id string) (models.Image, error)
	UpdateStatus(ctx context.Context, id string, status models.ImageStatus, sizeBytes int64) error
	ListDeleted(ctx context.Context, limit int) ([]models.Image, error)
	Purge(ctx context.Context, id string) error
}

type ObjectStore interface {
	Stat(ctx context.Context, key string) (int64, error)
	Remove(ctx context.Context, key string) error
}

type Processor struct {
	images       ImageStore
	objects      ObjectStore
	cleanupBatch int
	logger       zerolog.Logger
}

func NewProcessor(images ImageStore, objects ObjectStore, cleanupBatch int, logger zerolog.Logger) *Processor {
	if cleanupBatch <= 0 {
		cleanupBatch = 100
	}
	return &Processor{
		images:       images,
		objects:      objects,
		cleanupBatch: cleanupBatch,
		logger:       logger,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	task, err := Decode(msg.Values)
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	switch task.Type {
	case TypeIngest:
		return p.handleIngest(ctx, task)
	case TypeCleanup:
		return p.handleCleanup(ctx)
	default:
		p.logger.Warn().Str("type", task.Type).Msg("unknown task type")
		return nil
	}
}

// handleIngest confirms the object landed in storage and publishes the image.
func (p *Processor) handleIngest(ctx context.Context, task Task) error {
	image, err := p.images.GetByID(ctx, task.ImageID)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			p.logger.Warn().Str("image_id", task.ImageID).Msg("ingest for unknown image")
			return nil
		}
		return fmt.Errorf("load image: %w", err)
	}
	if image.Status != models.ImageStatusProcessing {
		return nil
	}

	size, err := p.objects.Stat(ctx, image.ObjectKey)
	if errors.Is(err, storage.ErrObjectNotFound) {
		p.logger.Warn().Str("image_id", image.ID).Str("object", image.ObjectKey).Msg("object missing, blocking image")
		return p.images.UpdateStatus(ctx, image.ID, models.ImageStatusBlocked, 0)
	}
	if err != nil {
		return fmt.Errorf("stat object: %w", err)
	}

	if err := p.images.UpdateStatus(ctx, image.ID, models.ImageStatusReady, size); err != nil {
		return fmt.Errorf("mark ready: %w", err)
	}
	p.logger.Info().Str("image_id", image.ID).Int64("size", size).Msg("image ready")
	return nil
}

func (p *Processor) handleCleanup(ctx context.Context) error {
	images, err := p.images.ListDeleted(ctx, p.cleanupBatch)
	if err != nil {
		return fmt.Errorf("list deleted: %w", err)
	}

	var errs []error
	purged := 0
	for _, image := range images {
		if err := p.objects.Remove(ctx, image.ObjectKey); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", image.ID, err))
			continue
		}
		if err := p.images.Purge(ctx, image.ID); err != nil {
			errs = append(errs, fmt.Errorf("purge %s: %w", image.ID, err))
			continue
		}
		purged++
	}

	p.logger.Info().Int("purged", purged).Int("failed", len(errs)).Msg("cleanup finished")
	return errors.Join(errs...)
}
